package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gravamen/contractgraph-backend/internal/normalization"
	apperrors "github.com/gravamen/contractgraph-backend/internal/pkg/errors"
	"github.com/gravamen/contractgraph-backend/internal/platform/envutil"
	"github.com/gravamen/contractgraph-backend/internal/platform/logger"
	"github.com/gravamen/contractgraph-backend/internal/platform/openai"
	"github.com/gravamen/contractgraph-backend/internal/platform/pdftext"
)

const (
	textStartSentinel = "=== INPUT CONTRACT TEXT START ==="
	textEndSentinel   = "=== INPUT CONTRACT TEXT END ==="

	defaultMaxChars = 120_000
)

// Options configures one extraction run.
type Options struct {
	InputDir  string
	OutputDir string
	DebugDir  string
	// PromptPath overrides the extraction prompt for this run.
	PromptPath string
	MaxChars   int
}

func OptionsFromEnv() Options {
	return Options{
		InputDir:  envutil.Str("EXTRACT_INPUT_DIR", filepath.Join("data", "input")),
		OutputDir: envutil.Str("EXTRACT_OUTPUT_DIR", filepath.Join("data", "output")),
		DebugDir:  envutil.Str("EXTRACT_DEBUG_DIR", filepath.Join("data", "debug")),
		MaxChars:  envutil.Int("EXTRACT_MAX_CHARS", defaultMaxChars),
	}
}

type FileResult struct {
	File   string `json:"file"`
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type Summary struct {
	InputDir   string       `json:"input_dir"`
	Total      int          `json:"total"`
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	Results    []FileResult `json:"results,omitempty"`
}

// Service turns contract documents into normalized extraction JSON via the
// LLM. One file's failure never aborts a run.
type Service struct {
	llm openai.Client
	log *logger.Logger
}

func NewService(llm openai.Client, baseLog *logger.Logger) *Service {
	return &Service{
		llm: llm,
		log: baseLog.With("service", "ExtractionService"),
	}
}

// Run extracts every supported document in opts.InputDir, writing each
// result to opts.OutputDir as <stem>.json and the raw API payload to
// opts.DebugDir as complete_response_<stem>.json.
func (s *Service) Run(ctx context.Context, opts Options) (*Summary, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("openai client not configured: %w", apperrors.ErrUnavailable)
	}
	files, err := listContractFiles(opts.InputDir)
	if err != nil {
		return nil, err
	}
	if err := ensureDirs(opts.OutputDir, opts.DebugDir); err != nil {
		return nil, err
	}
	p, err := loadPrompts(opts.PromptPath)
	if err != nil {
		return nil, err
	}

	summary := &Summary{InputDir: opts.InputDir, Total: len(files)}
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		name := filepath.Base(path)
		s.log.Info("Extracting contract", "file", name, "index", i+1, "total", len(files))

		outPath, err := s.extractOne(ctx, path, "", p, opts)
		if err != nil {
			summary.Failed++
			summary.Results = append(summary.Results, FileResult{File: name, Status: "failed", Reason: err.Error()})
			s.log.Error("Extraction failed", "file", name, "error", err)
			continue
		}
		summary.Successful++
		summary.Results = append(summary.Results, FileResult{File: name, Status: "extracted", Output: outPath})
	}

	s.log.Info("Extraction run finished",
		"input_dir", opts.InputDir,
		"total", summary.Total,
		"successful", summary.Successful,
		"failed", summary.Failed,
	)
	return summary, nil
}

// ExtractOne extracts a single document. outputPath may be empty, in which
// case the result lands in opts.OutputDir under the file stem.
func (s *Service) ExtractOne(ctx context.Context, inputPath, outputPath string, opts Options) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("openai client not configured: %w", apperrors.ErrUnavailable)
	}
	if err := ensureDirs(opts.OutputDir, opts.DebugDir); err != nil {
		return "", err
	}
	p, err := loadPrompts(opts.PromptPath)
	if err != nil {
		return "", err
	}
	return s.extractOne(ctx, inputPath, outputPath, p, opts)
}

func (s *Service) extractOne(ctx context.Context, inputPath, outputPath string, p prompts, opts Options) (string, error) {
	name := filepath.Base(inputPath)

	text, err := pdftext.ExtractFile(inputPath)
	if err != nil {
		return "", err
	}

	maxChars := opts.MaxChars
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	if len(text) > maxChars {
		return "", fmt.Errorf("contract %q is %s characters, exceeding the limit of %s; split the document or raise EXTRACT_MAX_CHARS",
			name, groupInt(len(text)), groupInt(maxChars))
	}

	user := strings.TrimSpace(p.user) + "\n\n" + textStartSentinel + "\n" + text + "\n" + textEndSentinel
	completion, err := s.llm.GenerateJSON(ctx, p.system, user)
	if err != nil {
		return "", fmt.Errorf("llm extraction: %w", err)
	}

	stem := fileStem(name)
	if opts.DebugDir != "" {
		debugPath := filepath.Join(opts.DebugDir, "complete_response_"+stem+".json")
		if err := os.WriteFile(debugPath, debugPayload(completion), 0o644); err != nil {
			s.log.Warn("Could not write raw response dump", "path", debugPath, "error", err)
		}
	}

	raw, err := parseJSONObject(completion.Content)
	if err != nil {
		return "", fmt.Errorf("parse model output: %w", err)
	}

	doc := normalization.Normalize(raw, name)
	for _, warning := range sanityWarnings(doc) {
		s.log.Warn("Extraction sanity check", "file", name, "warning", warning)
	}

	if outputPath == "" {
		outputPath = filepath.Join(opts.OutputDir, stem+".json")
	}
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(outputPath, append(encoded, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", outputPath, err)
	}
	return outputPath, nil
}

var contractExtensions = map[string]bool{
	".pdf":      true,
	".docx":     true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
}

func listContractFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if contractExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func ensureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	return nil
}

func debugPayload(c openai.Completion) []byte {
	if len(c.Raw) > 0 {
		return c.Raw
	}
	return []byte(c.Content)
}

// parseJSONObject tolerates fenced or prose-wrapped model output by taking
// the outermost object literal.
func parseJSONObject(content string) (map[string]any, error) {
	cleaned := stripCodeFences(content)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func fileStem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func sanityWarnings(doc map[string]any) []string {
	agreement, _ := doc["agreement"].(map[string]any)
	if agreement == nil {
		return []string{"no agreement block extracted"}
	}
	var warnings []string
	if list, _ := agreement["parties"].([]any); len(list) == 0 {
		warnings = append(warnings, "no parties extracted")
	}
	if agreement["governing_law"] == nil {
		warnings = append(warnings, "no governing law extracted")
	}
	if list, _ := agreement["obligations"].([]any); len(list) == 0 {
		warnings = append(warnings, "no obligations extracted")
	}
	return warnings
}

func groupInt(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
