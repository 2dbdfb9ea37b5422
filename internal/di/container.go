package di

import (
	"io"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/allowlist"
	"github.com/mikey/engagement-integrity/internal/config"
	"github.com/mikey/engagement-integrity/internal/core"
	"github.com/mikey/engagement-integrity/internal/factory"
	"github.com/mikey/engagement-integrity/internal/logging"
	"github.com/mikey/engagement-integrity/internal/ports"
	"github.com/mikey/engagement-integrity/internal/utils"
)

// Options carries command line overrides into the container
type Options struct {
	ConfigFile     string
	Verbose        bool
	JSONLog        bool
	JSONOutput     bool
	AuditType      string
	ReviewProvider string
	Out            io.Writer
}

// Shutdown releases resources held by container-built components
type Shutdown struct {
	stops []func()
}

// Run stops every registered component in reverse order
func (s *Shutdown) Run() {
	for i := len(s.stops) - 1; i >= 0; i-- {
		s.stops[i]()
	}
	s.stops = nil
}

func (s *Shutdown) add(component interface{}) {
	if stopper, ok := component.(interface{ Stop() }); ok {
		s.stops = append(s.stops, stopper.Stop)
	}
	if closer, ok := component.(interface{ Close() error }); ok {
		s.stops = append(s.stops, func() { _ = closer.Close() })
	}
}

type serviceParams struct {
	dig.In

	Config       *config.Config
	Logger       *zap.Logger
	Orchestrator core.Orchestrator
	Policy       core.DecisionPolicy
	Audit        core.AuditRepository
	Summarizer   core.ReviewSummarizer
	Allowlist    core.AllowlistChecker
}

// BuildContainer creates and configures a dependency injection container
func BuildContainer(opts *Options) (*dig.Container, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	container := dig.New()

	// Register options
	if err := container.Provide(func() *Options { return opts }); err != nil {
		return nil, err
	}

	if err := container.Provide(func() *Shutdown { return &Shutdown{} }); err != nil {
		return nil, err
	}

	// Register configuration, with flags taking precedence
	if err := container.Provide(func(opts *Options) (*config.Config, error) {
		cfg, err := config.New(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		if opts.AuditType != "" {
			cfg.Set("audit.type", opts.AuditType)
		}
		if opts.ReviewProvider != "" {
			cfg.Set("review.provider", opts.ReviewProvider)
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register logger. An explicit config file decides the logging setup,
	// otherwise the console flags do.
	if err := container.Provide(func(opts *Options, cfg *config.Config) (*zap.Logger, error) {
		if opts.ConfigFile != "" {
			return logging.InitLogger(cfg)
		}
		return logging.InitConsoleLogger(opts.Verbose, opts.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register factories
	for _, constructor := range []interface{}{
		factory.NewTextProcessorFactory,
		factory.NewPipelineFactory,
		factory.NewAuditFactory,
		factory.NewSummarizerFactory,
		factory.NewIntakeFactory,
	} {
		if err := container.Provide(constructor); err != nil {
			return nil, err
		}
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register pipeline
	if err := container.Provide(func(f *factory.PipelineFactory) (core.Orchestrator, error) {
		return f.CreateOrchestrator()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.PipelineFactory) (core.DecisionPolicy, error) {
		return f.CreatePolicy()
	}); err != nil {
		return nil, err
	}

	// Register audit repository
	if err := container.Provide(func(f *factory.AuditFactory, shutdown *Shutdown) (core.AuditRepository, error) {
		repo, err := f.CreateAuditRepository()
		if err != nil {
			return nil, err
		}
		shutdown.add(repo)
		return repo, nil
	}); err != nil {
		return nil, err
	}

	// Register review summarizer
	if err := container.Provide(func(f *factory.SummarizerFactory, shutdown *Shutdown) (core.ReviewSummarizer, error) {
		s, err := f.CreateSummarizer()
		if err != nil {
			return nil, err
		}
		shutdown.add(s)
		return s, nil
	}); err != nil {
		return nil, err
	}

	// Register allowlist
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.AllowlistChecker {
		return allowlist.NewChecker(cfg.GetAllowlist(), logger)
	}); err != nil {
		return nil, err
	}

	// Register integrity service
	if err := container.Provide(func(p serviceParams) (*core.IntegrityService, error) {
		evalCfg, err := p.Config.GetEvaluation()
		if err != nil {
			return nil, err
		}
		auditCfg, err := p.Config.GetAudit()
		if err != nil {
			return nil, err
		}
		return core.NewIntegrityService(
			p.Orchestrator,
			p.Policy,
			p.Audit,
			p.Summarizer,
			p.Allowlist,
			p.Logger,
			evalCfg.Timeout,
			auditCfg.Enabled,
			auditCfg.TTL,
		), nil
	}); err != nil {
		return nil, err
	}

	// Register intake
	if err := container.Provide(func(f *factory.IntakeFactory, opts *Options) (ports.SubmissionIntake, error) {
		return f.CreateCliIntake(opts.Out, opts.Verbose, opts.JSONOutput)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
