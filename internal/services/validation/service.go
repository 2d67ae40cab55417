package validation

import (
	"context"
	"fmt"

	"github.com/gravamen/contractgraph-backend/internal/domain"
	apperrors "github.com/gravamen/contractgraph-backend/internal/pkg/errors"
	"github.com/gravamen/contractgraph-backend/internal/platform/logger"
)

// ContractReader is the bounded read surface validation needs from the
// graph store: one projection per rule category.
type ContractReader interface {
	LiabilityCaps(ctx context.Context, agreementID string) ([]domain.LiabilityCapFact, error)
	Obligations(ctx context.Context, agreementID string) ([]domain.ObligationFact, error)
	ComplianceFrameworks(ctx context.Context, agreementID string) ([]domain.ComplianceFact, error)
	IPProvisions(ctx context.Context, agreementID string) ([]domain.IPFact, error)
	InsuranceTypes(ctx context.Context, agreementID string) ([]domain.InsuranceFact, error)
	DataProtection(ctx context.Context, agreementID string) ([]domain.DataProtectionFact, error)
	Termination(ctx context.Context, agreementID string) ([]domain.TerminationFact, error)
}

// Service validates contracts in the graph against registered client
// standards.
type Service struct {
	registry *Registry
	reader   ContractReader
	log      *logger.Logger
}

func NewService(registry *Registry, reader ContractReader, baseLog *logger.Logger) *Service {
	return &Service{
		registry: registry,
		reader:   reader,
		log:      baseLog.With("service", "ValidationService"),
	}
}

func (s *Service) Registry() *Registry { return s.registry }

// Validate runs every rule group over a one-shot facts snapshot and
// assembles the report. Unknown client ids error; a contract with no data
// in a category is handled by that category's absence rule, never an error.
func (s *Service) Validate(ctx context.Context, clientID, agreementID string) (*domain.Report, error) {
	standards, err := s.registry.Get(clientID)
	if err != nil {
		return nil, err
	}
	if s.reader == nil {
		return nil, fmt.Errorf("graph store not configured: %w", apperrors.ErrUnavailable)
	}

	facts, err := s.snapshot(ctx, agreementID)
	if err != nil {
		return nil, fmt.Errorf("read contract %s: %w", agreementID, err)
	}

	report := &domain.Report{
		ClientID:       clientID,
		ClientName:     standards.ClientName,
		ContractID:     agreementID,
		CriticalIssues: []domain.Issue{},
		Warnings:       []domain.Issue{},
		Info:           []domain.Issue{},
	}

	for _, group := range ruleGroups {
		for _, issue := range group(facts, standards) {
			switch issue.Severity {
			case domain.SeverityCritical:
				report.CriticalIssues = append(report.CriticalIssues, issue)
			case domain.SeverityWarning:
				report.Warnings = append(report.Warnings, issue)
			default:
				report.Info = append(report.Info, issue)
			}
		}
	}

	report.PassesValidation = len(report.CriticalIssues) == 0
	report.Compliant = report.PassesValidation

	s.log.Info("Validated contract",
		"client_id", clientID,
		"agreement_id", agreementID,
		"compliant", report.Compliant,
		"critical", len(report.CriticalIssues),
		"warnings", len(report.Warnings),
	)
	return report, nil
}

func (s *Service) snapshot(ctx context.Context, agreementID string) (contractFacts, error) {
	var (
		f   contractFacts
		err error
	)
	if f.caps, err = s.reader.LiabilityCaps(ctx, agreementID); err != nil {
		return f, err
	}
	if f.obligations, err = s.reader.Obligations(ctx, agreementID); err != nil {
		return f, err
	}
	if f.compliance, err = s.reader.ComplianceFrameworks(ctx, agreementID); err != nil {
		return f, err
	}
	if f.ip, err = s.reader.IPProvisions(ctx, agreementID); err != nil {
		return f, err
	}
	if f.insurance, err = s.reader.InsuranceTypes(ctx, agreementID); err != nil {
		return f, err
	}
	if f.dataProtection, err = s.reader.DataProtection(ctx, agreementID); err != nil {
		return f, err
	}
	if f.termination, err = s.reader.Termination(ctx, agreementID); err != nil {
		return f, err
	}
	return f, nil
}
