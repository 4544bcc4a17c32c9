package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salarysys/payroll-backend/internal/apperrors"
	"github.com/salarysys/payroll-backend/internal/core/domain"
	portsrepo "github.com/salarysys/payroll-backend/internal/core/ports/repositories"
	portssvc "github.com/salarysys/payroll-backend/internal/core/ports/services"
	"github.com/salarysys/payroll-backend/internal/dto"
)

var ErrMixedEffectiveDates = errors.New("all entries must share the same effective date")

// effectiveDateLayout is the wire format for effective dates.
const effectiveDateLayout = "2006-01-02"

// BaseInconsistencyError reports (employee, insuranceType) pairs left without
// an open base record after a new-base run terminated their previous records
// but failed to insert replacements. It requires manual reconciliation.
type BaseInconsistencyError struct {
	Pairs []domain.BasePair
	Err   error
}

func (e *BaseInconsistencyError) Error() string {
	return fmt.Sprintf("contribution base inconsistency: %d pair(s) left without an open base record: %v", len(e.Pairs), e.Err)
}

func (e *BaseInconsistencyError) Unwrap() error {
	return e.Err
}

// contributionBaseService manages effective-dated contribution base records.
type contributionBaseService struct {
	BaseService
	baseRepo    portsrepo.ContributionBaseRepositoryFacade
	periodRepo  portsrepo.PeriodReader
	baseCeiling decimal.Decimal
	now         func() time.Time
}

// ContributionBaseServiceOption is a functional option for the base service.
type ContributionBaseServiceOption func(*contributionBaseService)

// WithBaseClock overrides the clock, for tests.
func WithBaseClock(now func() time.Time) ContributionBaseServiceOption {
	return func(s *contributionBaseService) {
		s.now = now
	}
}

// NewContributionBaseService creates a new contribution base strategy manager.
// baseCeiling is the configured upper bound for any contribution base amount.
func NewContributionBaseService(baseRepo portsrepo.ContributionBaseRepositoryFacade, periodRepo portsrepo.PeriodReader, baseCeiling decimal.Decimal, options ...ContributionBaseServiceOption) portssvc.ContributionBaseSvcFacade {
	svc := &contributionBaseService{
		baseRepo:    baseRepo,
		periodRepo:  periodRepo,
		baseCeiling: baseCeiling,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure contributionBaseService implements the ContributionBaseSvcFacade interface
var _ portssvc.ContributionBaseSvcFacade = (*contributionBaseService)(nil)

// CarryForward validates that open base data exists to be reused from the
// source period. It mutates nothing: downstream payroll calculation reads the
// open base records directly.
func (s *contributionBaseService) CarryForward(ctx context.Context, req dto.CarryForwardRequest) (*dto.CarryForwardSummary, error) {
	if _, err := s.periodRepo.FindPeriodByID(ctx, req.SourcePeriodID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: source period %s not found", apperrors.ErrValidation, req.SourcePeriodID)
		}
		return nil, fmt.Errorf("failed to load source period %s: %w", req.SourcePeriodID, err)
	}

	openBases, err := s.baseRepo.FindOpenBasesForEmployees(ctx, req.EmployeeIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load open base records", slog.String("source_period_id", req.SourcePeriodID))
		return nil, fmt.Errorf("failed to load open base records: %w", err)
	}

	covered := make(map[string]struct{})
	for _, base := range openBases {
		covered[base.EmployeeID] = struct{}{}
	}

	summary := &dto.CarryForwardSummary{EmployeesChecked: len(req.EmployeeIDs)}
	for _, id := range req.EmployeeIDs {
		if _, ok := covered[id]; ok {
			summary.EmployeesWithBases++
		} else {
			summary.MissingEmployeeIDs = append(summary.MissingEmployeeIDs, id)
		}
	}

	s.LogInfo(ctx, "Carry-forward check completed",
		slog.String("source_period_id", req.SourcePeriodID),
		slog.Int("checked", summary.EmployeesChecked),
		slog.Int("with_bases", summary.EmployeesWithBases))
	return summary, nil
}

// ApplyNewBases terminates the open base record for every affected pair and
// inserts replacements effective from the shared date. When the store exposes
// an atomic replace it is used; otherwise every termination runs before any
// insert, and a failed insert triggers a compensating reversal.
func (s *contributionBaseService) ApplyNewBases(ctx context.Context, req dto.NewBaseRequest, actor string) (*dto.NewBaseResult, error) {
	entries, rejected, effectiveDate, err := s.validateEntries(req)
	if err != nil {
		return nil, err
	}

	result := &dto.NewBaseResult{RejectedEntries: rejected}
	if len(entries) == 0 {
		return result, nil
	}

	pairs := make([]domain.BasePair, 0, len(entries))
	for _, entry := range entries {
		pairs = append(pairs, entry.Pair())
	}

	openBases, err := s.baseRepo.FindOpenBases(ctx, pairs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load open base records for replacement")
		return nil, fmt.Errorf("failed to load open base records: %w", err)
	}

	// The previous record's validity ends the day before the new one begins.
	endDate := effectiveDate.AddDate(0, 0, -1)
	now := s.now()
	records := s.buildRecords(entries, effectiveDate, actor, now)

	affected := make([]domain.BasePair, 0, len(openBases))
	for pair := range openBases {
		affected = append(affected, pair)
	}
	sort.Slice(affected, func(i, j int) bool {
		if affected[i].EmployeeID != affected[j].EmployeeID {
			return affected[i].EmployeeID < affected[j].EmployeeID
		}
		return affected[i].InsuranceTypeID < affected[j].InsuranceTypeID
	})

	if atomicRepo, ok := s.baseRepo.(portsrepo.AtomicBaseReplacer); ok {
		if err := atomicRepo.ReplaceBasesAtomic(ctx, affected, endDate, records); err != nil {
			s.LogError(ctx, err, "Atomic base replacement failed")
			return nil, fmt.Errorf("failed to replace contribution bases: %w", err)
		}
		result.TerminatedCount = len(affected)
		result.InsertedCount = len(records)
		s.LogInfo(ctx, "New-base strategy applied atomically",
			slog.Int("terminated", result.TerminatedCount),
			slog.Int("inserted", result.InsertedCount))
		return result, nil
	}

	// Non-atomic path: terminate everything before inserting anything, so a
	// failure can never leave two open records for the same pair.
	terminated, err := s.baseRepo.TerminateBases(ctx, affected, endDate, actor, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to terminate open base records")
		return nil, fmt.Errorf("failed to terminate open base records: %w", err)
	}
	result.TerminatedCount = len(terminated)

	if err := s.baseRepo.InsertBases(ctx, records); err != nil {
		s.LogError(ctx, err, "Base insertion failed after termination, attempting compensation",
			slog.Int("terminated", len(terminated)))
		if reopenErr := s.baseRepo.ReopenBases(ctx, terminated, actor, s.now()); reopenErr != nil {
			s.LogError(ctx, reopenErr, "Compensating reversal failed, manual reconciliation required")
			return nil, &BaseInconsistencyError{Pairs: terminated, Err: err}
		}
		return nil, fmt.Errorf("failed to insert replacement base records (terminations reversed): %w", err)
	}
	result.InsertedCount = len(records)

	s.LogInfo(ctx, "New-base strategy applied",
		slog.Int("terminated", result.TerminatedCount),
		slog.Int("inserted", result.InsertedCount))
	return result, nil
}

// ListBases returns one employee's effective-dated base history.
func (s *contributionBaseService) ListBases(ctx context.Context, employeeID string) ([]domain.ContributionBaseRecord, error) {
	bases, err := s.baseRepo.FindBasesByEmployee(ctx, employeeID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load base history", slog.String("employee_id", employeeID))
		return nil, fmt.Errorf("failed to load base history for employee %s: %w", employeeID, err)
	}
	return bases, nil
}

// validateEntries parses and checks the request. A mixed or malformed
// effective date fails the whole call; amount violations reject individual
// entries only.
func (s *contributionBaseService) validateEntries(req dto.NewBaseRequest) ([]domain.NewBaseEntry, []dto.EntryError, time.Time, error) {
	var (
		entries       []domain.NewBaseEntry
		rejected      []dto.EntryError
		effectiveDate time.Time
	)

	for i, entry := range req.Entries {
		parsed, err := time.Parse(effectiveDateLayout, entry.EffectiveDate)
		if err != nil {
			return nil, nil, time.Time{}, fmt.Errorf("%w: invalid effective date %q", apperrors.ErrValidation, entry.EffectiveDate)
		}
		if i == 0 {
			effectiveDate = parsed
		} else if !parsed.Equal(effectiveDate) {
			return nil, nil, time.Time{}, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrMixedEffectiveDates)
		}

		if entry.NewBase.IsNegative() {
			rejected = append(rejected, dto.EntryError{
				EmployeeID:      entry.EmployeeID,
				InsuranceTypeID: entry.InsuranceTypeID,
				Message:         "contribution base must not be negative",
			})
			continue
		}
		if entry.NewBase.GreaterThan(s.baseCeiling) {
			rejected = append(rejected, dto.EntryError{
				EmployeeID:      entry.EmployeeID,
				InsuranceTypeID: entry.InsuranceTypeID,
				Message:         fmt.Sprintf("contribution base exceeds the configured ceiling of %s", s.baseCeiling.StringFixed(2)),
			})
			continue
		}

		entries = append(entries, domain.NewBaseEntry{
			EmployeeID:      entry.EmployeeID,
			InsuranceTypeID: entry.InsuranceTypeID,
			NewBase:         entry.NewBase,
			EffectiveDate:   parsed,
		})
	}

	return entries, rejected, effectiveDate, nil
}

func (s *contributionBaseService) buildRecords(entries []domain.NewBaseEntry, effectiveDate time.Time, actor string, now time.Time) []domain.ContributionBaseRecord {
	records := make([]domain.ContributionBaseRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, domain.ContributionBaseRecord{
			BaseID:           uuid.NewString(),
			EmployeeID:       entry.EmployeeID,
			InsuranceTypeID:  entry.InsuranceTypeID,
			ContributionBase: entry.NewBase,
			EffectiveStart:   effectiveDate,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
			},
		})
	}
	return records
}
