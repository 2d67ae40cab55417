package ingestion

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gravamen/contractgraph-backend/internal/domain"
)

// settleDelay gives writers a moment to finish before a new file is
// read. Extraction writes whole files, but editors and rsync do not.
const settleDelay = 500 * time.Millisecond

// Watch ingests documents as they appear under dir until ctx is
// cancelled, then returns a summary of everything processed. The
// directory's existing contents are not replayed; run a batch first if
// the backlog matters.
func (s *Service) Watch(ctx context.Context, dir string, full bool) (*domain.BatchSummary, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return nil, err
	}
	s.log.Info("Watching for documents", "dir", dir)

	collected := &resultLocker{}
	summary := &domain.BatchSummary{InputDir: dir, StartedAt: time.Now().UTC()}

	for {
		select {
		case <-ctx.Done():
			summary.FinishedAt = time.Now().UTC()
			summary.Results = collected.results
			for _, result := range collected.results {
				summary.Total++
				switch result.Status {
				case domain.FileIngested:
					summary.Ingested++
				case domain.FileSkipped:
					summary.Skipped++
				default:
					summary.Failed++
				}
			}
			s.recordRun(context.WithoutCancel(ctx), summary)
			return summary, ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				summary.FinishedAt = time.Now().UTC()
				summary.Results = collected.results
				return summary, nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Base(event.Name)
			if !strings.EqualFold(filepath.Ext(name), ".json") || strings.HasPrefix(name, "complete_response_") {
				continue
			}
			time.Sleep(settleDelay)
			collected.add(s.IngestFile(ctx, event.Name, full))

		case err, ok := <-watcher.Errors:
			if !ok {
				continue
			}
			s.log.Warn("Watcher error", "error", err)
		}
	}
}
