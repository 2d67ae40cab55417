package ingestruns

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravamen/contractgraph-backend/internal/domain"
	"github.com/gravamen/contractgraph-backend/internal/pkg/dbctx"
	"github.com/gravamen/contractgraph-backend/internal/platform/logger"
)

type IngestRunRepo interface {
	Create(dbc dbctx.Context, run *domain.IngestRun) (*domain.IngestRun, error)
	ListRecent(dbc dbctx.Context, limit int) ([]*domain.IngestRun, error)
}

type ingestRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngestRunRepo(db *gorm.DB, baseLog *logger.Logger) IngestRunRepo {
	return &ingestRunRepo{
		db:  db,
		log: baseLog.With("repo", "IngestRunRepo"),
	}
}

func (r *ingestRunRepo) Create(dbc dbctx.Context, run *domain.IngestRun) (*domain.IngestRun, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if run == nil {
		return nil, nil
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *ingestRunRepo) ListRecent(dbc dbctx.Context, limit int) ([]*domain.IngestRun, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	var out []*domain.IngestRun
	if err := transaction.WithContext(dbc.Ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
