package factory

import (
	"io"

	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/adapters/intake"
	"github.com/mikey/engagement-integrity/internal/core"
	"github.com/mikey/engagement-integrity/internal/ports"
)

// IntakeFactory creates submission intakes
type IntakeFactory struct {
	logger  *zap.Logger
	service *core.IntegrityService
}

// NewIntakeFactory creates a new intake factory
func NewIntakeFactory(logger *zap.Logger, service *core.IntegrityService) *IntakeFactory {
	return &IntakeFactory{
		logger:  logger,
		service: service,
	}
}

// CreateCliIntake creates a command-line intake writing reports to out
func (f *IntakeFactory) CreateCliIntake(out io.Writer, verbose bool, jsonOutput bool) (ports.SubmissionIntake, error) {
	return intake.NewCliIntake(f.service, f.logger, out, verbose, jsonOutput)
}
