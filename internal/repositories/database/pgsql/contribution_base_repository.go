package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salarysys/payroll-backend/internal/core/domain"
	portsrepo "github.com/salarysys/payroll-backend/internal/core/ports/repositories"
	"github.com/salarysys/payroll-backend/internal/models"
	"github.com/salarysys/payroll-backend/internal/utils/mapping"
)

const contributionBaseColumns = `base_id, employee_id, insurance_type_id, contribution_base,
		effective_start, effective_end,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxContributionBaseRepository struct {
	BaseRepository
}

// newPgxContributionBaseRepository creates a new repository for contribution base data.
func newPgxContributionBaseRepository(pool *pgxpool.Pool) portsrepo.ContributionBaseRepositoryFacade {
	return &PgxContributionBaseRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interfaces
var (
	_ portsrepo.ContributionBaseRepositoryFacade = (*PgxContributionBaseRepository)(nil)
	_ portsrepo.AtomicBaseReplacer               = (*PgxContributionBaseRepository)(nil)
)

func scanContributionBase(row pgx.Row) (models.ContributionBase, error) {
	var m models.ContributionBase
	err := row.Scan(
		&m.BaseID,
		&m.EmployeeID,
		&m.InsuranceTypeID,
		&m.ContributionBase,
		&m.EffectiveStart,
		&m.EffectiveEnd,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// pairColumns splits pairs into parallel arrays suitable for unnest joins.
func pairColumns(pairs []domain.BasePair) ([]string, []string) {
	employeeIDs := make([]string, 0, len(pairs))
	insuranceTypeIDs := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		employeeIDs = append(employeeIDs, pair.EmployeeID)
		insuranceTypeIDs = append(insuranceTypeIDs, pair.InsuranceTypeID)
	}
	return employeeIDs, insuranceTypeIDs
}

// FindOpenBases retrieves the currently open base record for each of the given
// pairs, keyed by pair.
func (r *PgxContributionBaseRepository) FindOpenBases(ctx context.Context, pairs []domain.BasePair) (map[domain.BasePair]domain.ContributionBaseRecord, error) {
	if len(pairs) == 0 {
		return map[domain.BasePair]domain.ContributionBaseRecord{}, nil
	}

	employeeIDs, insuranceTypeIDs := pairColumns(pairs)
	query := `
		SELECT ` + contributionBaseColumns + `
		FROM contribution_bases b
		JOIN unnest($1::text[], $2::text[]) AS p(employee_id, insurance_type_id)
			ON b.employee_id = p.employee_id AND b.insurance_type_id = p.insurance_type_id
		WHERE b.effective_end IS NULL;
	`

	rows, err := r.Pool.Query(ctx, query, employeeIDs, insuranceTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query open contribution bases: %w", err)
	}
	defer rows.Close()

	modelBases, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ContributionBase, error) {
		return scanContributionBase(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan open contribution bases: %w", err)
	}

	open := make(map[domain.BasePair]domain.ContributionBaseRecord, len(modelBases))
	for _, m := range modelBases {
		record := mapping.ToDomainContributionBase(m)
		open[domain.BasePair{EmployeeID: record.EmployeeID, InsuranceTypeID: record.InsuranceTypeID}] = record
	}
	return open, nil
}

// FindOpenBasesForEmployees retrieves all open base records for the given employees.
func (r *PgxContributionBaseRepository) FindOpenBasesForEmployees(ctx context.Context, employeeIDs []string) ([]domain.ContributionBaseRecord, error) {
	if len(employeeIDs) == 0 {
		return []domain.ContributionBaseRecord{}, nil
	}

	query := `
		SELECT ` + contributionBaseColumns + `
		FROM contribution_bases
		WHERE employee_id = ANY($1) AND effective_end IS NULL
		ORDER BY employee_id, insurance_type_id;
	`

	rows, err := r.Pool.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query open contribution bases for employees: %w", err)
	}
	defer rows.Close()

	modelBases, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ContributionBase, error) {
		return scanContributionBase(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan open contribution bases for employees: %w", err)
	}

	return mapping.ToDomainContributionBaseSlice(modelBases), nil
}

// FindBasesByEmployee retrieves the full effective-dated base history for one
// employee, newest first.
func (r *PgxContributionBaseRepository) FindBasesByEmployee(ctx context.Context, employeeID string) ([]domain.ContributionBaseRecord, error) {
	query := `
		SELECT ` + contributionBaseColumns + `
		FROM contribution_bases
		WHERE employee_id = $1
		ORDER BY effective_start DESC, insurance_type_id;
	`

	rows, err := r.Pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contribution base history for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	modelBases, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ContributionBase, error) {
		return scanContributionBase(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan contribution base history for employee %s: %w", employeeID, err)
	}

	return mapping.ToDomainContributionBaseSlice(modelBases), nil
}

// TerminateBases sets the effective end date on the open record of each given
// pair. It returns the pairs that actually had an open record.
func (r *PgxContributionBaseRepository) TerminateBases(ctx context.Context, pairs []domain.BasePair, endDate time.Time, updatedBy string, updatedAt time.Time) ([]domain.BasePair, error) {
	return r.terminateBases(ctx, r.Pool, pairs, endDate, updatedBy, updatedAt)
}

// InsertBases persists new open base records.
func (r *PgxContributionBaseRepository) InsertBases(ctx context.Context, records []domain.ContributionBaseRecord) error {
	return r.insertBases(ctx, r.Pool, records)
}

// ReopenBases clears the effective end date previously set by TerminateBases,
// as a compensating action after a failed insert.
func (r *PgxContributionBaseRepository) ReopenBases(ctx context.Context, pairs []domain.BasePair, updatedBy string, updatedAt time.Time) error {
	if len(pairs) == 0 {
		return nil
	}

	employeeIDs, insuranceTypeIDs := pairColumns(pairs)
	query := `
		UPDATE contribution_bases b
		SET effective_end = NULL, last_updated_by = $3, last_updated_at = $4
		FROM unnest($1::text[], $2::text[]) AS p(employee_id, insurance_type_id)
		WHERE b.employee_id = p.employee_id
			AND b.insurance_type_id = p.insurance_type_id
			AND b.effective_end IS NOT NULL
			AND NOT EXISTS (
				SELECT 1 FROM contribution_bases o
				WHERE o.employee_id = b.employee_id
					AND o.insurance_type_id = b.insurance_type_id
					AND o.effective_end IS NULL
			)
			AND b.effective_start = (
				SELECT MAX(x.effective_start) FROM contribution_bases x
				WHERE x.employee_id = b.employee_id AND x.insurance_type_id = b.insurance_type_id
			);
	`

	if _, err := r.Pool.Exec(ctx, query, employeeIDs, insuranceTypeIDs, updatedBy, updatedAt); err != nil {
		return fmt.Errorf("failed to reopen contribution bases: %w", err)
	}
	return nil
}

// ReplaceBasesAtomic terminates the open record for every affected pair and
// inserts the replacement records inside one transaction.
func (r *PgxContributionBaseRepository) ReplaceBasesAtomic(ctx context.Context, pairs []domain.BasePair, endDate time.Time, records []domain.ContributionBaseRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	var updatedBy string
	var updatedAt time.Time
	if len(records) > 0 {
		updatedBy = records[0].LastUpdatedBy
		updatedAt = records[0].LastUpdatedAt
	}

	if _, err := r.terminateBases(ctx, tx, pairs, endDate, updatedBy, updatedAt); err != nil {
		return err
	}
	if err := r.insertBases(ctx, tx, records); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// executor is the query surface shared by *pgxpool.Pool and pgx.Tx, letting
// the write helpers run either standalone or inside a transaction.
type executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxContributionBaseRepository) terminateBases(ctx context.Context, q executor, pairs []domain.BasePair, endDate time.Time, updatedBy string, updatedAt time.Time) ([]domain.BasePair, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	employeeIDs, insuranceTypeIDs := pairColumns(pairs)
	query := `
		UPDATE contribution_bases b
		SET effective_end = $3, last_updated_by = $4, last_updated_at = $5
		FROM unnest($1::text[], $2::text[]) AS p(employee_id, insurance_type_id)
		WHERE b.employee_id = p.employee_id
			AND b.insurance_type_id = p.insurance_type_id
			AND b.effective_end IS NULL
		RETURNING b.employee_id, b.insurance_type_id;
	`

	rows, err := q.Query(ctx, query, employeeIDs, insuranceTypeIDs, endDate, updatedBy, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to terminate contribution bases: %w", err)
	}
	defer rows.Close()

	var terminated []domain.BasePair
	for rows.Next() {
		var pair domain.BasePair
		if err := rows.Scan(&pair.EmployeeID, &pair.InsuranceTypeID); err != nil {
			return nil, fmt.Errorf("failed to scan terminated contribution base: %w", err)
		}
		terminated = append(terminated, pair)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading terminated contribution bases: %w", err)
	}
	return terminated, nil
}

func (r *PgxContributionBaseRepository) insertBases(ctx context.Context, q executor, records []domain.ContributionBaseRecord) error {
	query := `
		INSERT INTO contribution_bases (` + contributionBaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`

	for _, record := range records {
		m := mapping.ToModelContributionBase(record)
		_, err := q.Exec(ctx, query,
			m.BaseID, m.EmployeeID, m.InsuranceTypeID, m.ContributionBase,
			m.EffectiveStart, m.EffectiveEnd,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert contribution base %s: %w", m.BaseID, err)
		}
	}
	return nil
}
