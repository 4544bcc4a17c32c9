package services

import (
	"github.com/salarysys/payroll-backend/internal/core/events"
	portsrepo "github.com/salarysys/payroll-backend/internal/core/ports/repositories"
	portssvc "github.com/salarysys/payroll-backend/internal/core/ports/services"
	"github.com/salarysys/payroll-backend/internal/platform/config"
)

// NewServiceContainer wires every service implementation from the repository
// provider, the status change notifier and the configured validation bounds.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider, notifier *events.Notifier) *portssvc.ServiceContainer {
	registry := NewRuleRegistry(DefaultRules(cfg.MinNetPay, cfg.GrossPayCeiling)...)

	return &portssvc.ServiceContainer{
		Workflow:         NewWorkflowService(repos.PayrollRepo, notifier),
		Validation:       NewValidationService(registry, repos.PayrollRepo),
		BatchCreation:    NewBatchService(repos.PayrollRepo, repos.EmployeeRepo),
		ContributionBase: NewContributionBaseService(repos.ContributionBaseRepo, repos.PayrollRepo, cfg.ContributionBaseCeiling),
		Export:           NewExportService(repos.ExportRepo, repos.PayrollRepo),
	}
}
