package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/gravamen/contractgraph-backend/internal/data/repos/ingestruns"
	"github.com/gravamen/contractgraph-backend/internal/domain"
	"github.com/gravamen/contractgraph-backend/internal/normalization"
	"github.com/gravamen/contractgraph-backend/internal/pkg/dbctx"
	"github.com/gravamen/contractgraph-backend/internal/platform/envutil"
	"github.com/gravamen/contractgraph-backend/internal/platform/logger"
)

const defaultWorkers = 4

// Loader is the graph write surface the batch needs: both ingestion
// variants return the resolved agreement id, or "" when the document
// has no usable identity.
type Loader interface {
	LoadDocument(ctx context.Context, doc map[string]any, sourceName string) (string, error)
	LoadDocumentFull(ctx context.Context, doc map[string]any, sourceName string) (string, error)
}

// Options configures one ingestion run.
type Options struct {
	InputDir string
	// Full selects the enhanced-sections ingestion path.
	Full    bool
	Workers int
}

func OptionsFromEnv() Options {
	return Options{
		InputDir: envutil.Str("GRAPH_INPUT_DIR", filepath.Join("data", "output")),
		Full:     envutil.Bool("GRAPH_FULL_SECTIONS", true),
		Workers:  envutil.Int("INGEST_WORKERS", defaultWorkers),
	}
}

// Service drives extraction JSON through the graph load state machine,
// one document at a time, documents in parallel. Per-document failures
// are counted, never fatal to the batch.
type Service struct {
	loader Loader
	runs   ingestruns.IngestRunRepo
	log    *logger.Logger
}

func NewService(loader Loader, runs ingestruns.IngestRunRepo, baseLog *logger.Logger) *Service {
	return &Service{
		loader: loader,
		runs:   runs,
		log:    baseLog.With("service", "IngestionService"),
	}
}

// Run ingests every *.json document under opts.InputDir and records the
// batch in the ingest-run ledger when one is configured.
func (s *Service) Run(ctx context.Context, opts Options) (*domain.BatchSummary, error) {
	files, err := listDocuments(opts.InputDir)
	if err != nil {
		return nil, err
	}

	summary := &domain.BatchSummary{
		InputDir:  opts.InputDir,
		Total:     len(files),
		StartedAt: time.Now().UTC(),
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	results := make([]domain.FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range files {
		idx := i
		path := files[i]
		g.Go(func() error {
			results[idx] = s.IngestFile(gctx, path, opts.Full)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	summary.FinishedAt = time.Now().UTC()
	summary.Results = results
	for _, result := range results {
		switch result.Status {
		case domain.FileIngested:
			summary.Ingested++
		case domain.FileSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	s.log.Info("Ingestion run finished",
		"input_dir", opts.InputDir,
		"total", summary.Total,
		"ingested", summary.Ingested,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	s.recordRun(ctx, summary)
	return summary, nil
}

// IngestFile runs one document end to end: parse, normalize, load.
// Malformed input fails the file; an unresolvable agreement id skips it.
func (s *Service) IngestFile(ctx context.Context, path string, full bool) domain.FileResult {
	name := filepath.Base(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		s.log.Error("Could not read document", "file", name, "error", err)
		return domain.FileResult{File: name, Status: domain.FileFailed, Reason: err.Error()}
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		s.log.Error("Document is not valid JSON", "file", name, "error", err)
		return domain.FileResult{File: name, Status: domain.FileFailed, Reason: fmt.Sprintf("parse: %v", err)}
	}

	doc := normalization.Normalize(parsed, name)

	load := s.loader.LoadDocument
	if full {
		load = s.loader.LoadDocumentFull
	}
	agreementID, err := load(ctx, doc, name)
	if err != nil {
		s.log.Error("Graph load failed", "file", name, "error", err)
		return domain.FileResult{File: name, Status: domain.FileFailed, Reason: err.Error()}
	}
	if agreementID == "" {
		s.log.Warn("Document has no derivable agreement id", "file", name)
		return domain.FileResult{File: name, Status: domain.FileSkipped, Reason: "no agreement id"}
	}

	s.log.Info("Document ingested", "file", name, "agreement_id", agreementID)
	return domain.FileResult{File: name, Status: domain.FileIngested, AgreementID: agreementID}
}

func (s *Service) recordRun(ctx context.Context, summary *domain.BatchSummary) {
	if s.runs == nil {
		return
	}
	detail, err := json.Marshal(summary.Results)
	if err != nil {
		s.log.Warn("Could not encode run detail", "error", err)
		detail = nil
	}
	run := &domain.IngestRun{
		InputDir:   summary.InputDir,
		Total:      summary.Total,
		Ingested:   summary.Ingested,
		Skipped:    summary.Skipped,
		Failed:     summary.Failed,
		Detail:     datatypes.JSON(detail),
		StartedAt:  summary.StartedAt,
		FinishedAt: summary.FinishedAt,
	}
	if _, err := s.runs.Create(dbctx.Context{Ctx: ctx}, run); err != nil {
		s.log.Warn("Could not record ingest run", "error", err)
	}
}

func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), ".json") {
			continue
		}
		// Raw API dumps live next to extraction output; never load them.
		if strings.HasPrefix(name, "complete_response_") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// resultLocker serializes summary appends from watch-mode callbacks.
type resultLocker struct {
	mu      sync.Mutex
	results []domain.FileResult
}

func (r *resultLocker) add(result domain.FileResult) {
	r.mu.Lock()
	r.results = append(r.results, result)
	r.mu.Unlock()
}
