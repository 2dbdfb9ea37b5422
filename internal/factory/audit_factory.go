package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/adapters/audit"
	"github.com/mikey/engagement-integrity/internal/config"
	"github.com/mikey/engagement-integrity/internal/core"
)

// AuditFactory creates audit repositories based on configuration
type AuditFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewAuditFactory creates a new audit factory
func NewAuditFactory(cfg *config.Config, logger *zap.Logger) *AuditFactory {
	return &AuditFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAuditRepository creates an audit repository based on the configuration.
// It returns nil when auditing is disabled.
func (f *AuditFactory) CreateAuditRepository() (core.AuditRepository, error) {
	auditCfg, err := f.cfg.GetAudit()
	if err != nil {
		return nil, err
	}
	if !auditCfg.Enabled {
		f.logger.Info("Audit trail disabled")
		return nil, nil
	}

	switch auditCfg.Type {
	case "memory":
		return audit.NewMemoryStore(f.logger, auditCfg.CleanupFrequency), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(auditCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return repositoryOrErr(audit.NewSQLiteStore(auditCfg.SQLitePath, f.logger, auditCfg.CleanupFrequency))
	case "mysql":
		return repositoryOrErr(audit.NewMySQLStore(auditCfg.MySQLDSN, f.logger, auditCfg.CleanupFrequency))
	case "redis":
		return repositoryOrErr(audit.NewRedisStore(auditCfg.RedisURL, f.logger))
	default:
		return nil, fmt.Errorf("unsupported audit type: %s", auditCfg.Type)
	}
}

func repositoryOrErr[R core.AuditRepository](r R, err error) (core.AuditRepository, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}
