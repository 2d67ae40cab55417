package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/gravamen/contractgraph-backend/internal/domain"
	"github.com/gravamen/contractgraph-backend/internal/platform/envutil"
	"github.com/gravamen/contractgraph-backend/internal/platform/logger"
)

// LedgerService owns the relational connection backing the ingest-run
// ledger. LEDGER_DRIVER selects postgres, sqlite, or off; a nil service
// means the ledger is disabled and writes are skipped.
type LedgerService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFromEnv(logg *logger.Logger) (*LedgerService, error) {
	serviceLog := logg.With("service", "LedgerService")

	driver := strings.ToLower(envutil.Str("LEDGER_DRIVER", "off"))
	if driver == "" || driver == "off" {
		return nil, nil
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	var (
		gdb *gorm.DB
		err error
	)
	switch driver {
	case "postgres":
		dsn := envutil.Str("DATABASE_URL", "")
		if dsn == "" {
			return nil, fmt.Errorf("LEDGER_DRIVER=postgres requires DATABASE_URL")
		}
		gdb, err = gorm.Open(postgres.Open(dsn), cfg)
	case "sqlite":
		path := envutil.Str("LEDGER_SQLITE_PATH", "ingest_ledger.db")
		gdb, err = gorm.Open(sqlite.Open(path), cfg)
	default:
		return nil, fmt.Errorf("unknown LEDGER_DRIVER %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger database (%s): %w", driver, err)
	}

	if err := gdb.AutoMigrate(&domain.IngestRun{}); err != nil {
		return nil, fmt.Errorf("migrate ledger schema: %w", err)
	}

	serviceLog.Info("Ledger database ready", "driver", driver)
	return &LedgerService{db: gdb, log: serviceLog}, nil
}

func (s *LedgerService) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *LedgerService) Ready() bool { return s != nil && s.db != nil }

func (s *LedgerService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
