package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/salarysys/payroll-backend/internal/core/domain"
)

func TestPayrollStatus_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		name    string
		from    domain.PayrollStatus
		to      domain.PayrollStatus
		allowed bool
	}{
		{"draft to calculating", domain.StatusDraft, domain.StatusCalculating, true},
		{"draft to calculated", domain.StatusDraft, domain.StatusCalculated, true},
		{"draft to approved", domain.StatusDraft, domain.StatusApproved, true},
		{"draft to cancelled", domain.StatusDraft, domain.StatusCancelled, true},
		{"draft to paid", domain.StatusDraft, domain.StatusPaid, false},
		{"calculating to calculated", domain.StatusCalculating, domain.StatusCalculated, true},
		{"calculating to approved", domain.StatusCalculating, domain.StatusApproved, false},
		{"calculated to approved", domain.StatusCalculated, domain.StatusApproved, true},
		{"calculated to paid", domain.StatusCalculated, domain.StatusPaid, false},
		{"approved to paid", domain.StatusApproved, domain.StatusPaid, true},
		{"approved to cancelled", domain.StatusApproved, domain.StatusCancelled, true},
		{"approved to draft", domain.StatusApproved, domain.StatusDraft, false},
		{"paid allows nothing", domain.StatusPaid, domain.StatusCancelled, false},
		{"cancelled allows nothing", domain.StatusCancelled, domain.StatusDraft, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestPayrollStatus_IsTerminal(t *testing.T) {
	assert.True(t, domain.StatusPaid.IsTerminal())
	assert.True(t, domain.StatusCancelled.IsTerminal())
	assert.False(t, domain.StatusDraft.IsTerminal())
	assert.False(t, domain.StatusCalculating.IsTerminal())
	assert.False(t, domain.StatusCalculated.IsTerminal())
	assert.False(t, domain.StatusApproved.IsTerminal())
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{"draft", "calculating", "calculated", "approved", "paid", "cancelled"} {
		assert.True(t, domain.IsValidStatus(s), s)
	}
	assert.False(t, domain.IsValidStatus("pending"))
	assert.False(t, domain.IsValidStatus(""))
	assert.False(t, domain.IsValidStatus("DRAFT"))
}

func TestPayrollRecord_NetPayConsistent(t *testing.T) {
	record := domain.PayrollRecord{
		GrossPay:        decimal.NewFromFloat(5000),
		TotalDeductions: decimal.NewFromFloat(1200),
		NetPay:          decimal.NewFromFloat(3800),
	}
	assert.True(t, record.NetPayConsistent())

	// Within the epsilon tolerance.
	record.NetPay = decimal.NewFromFloat(3800.01)
	assert.True(t, record.NetPayConsistent())

	// Just outside the tolerance.
	record.NetPay = decimal.NewFromFloat(3800.02)
	assert.False(t, record.NetPayConsistent())

	record.NetPay = decimal.NewFromFloat(3700)
	assert.False(t, record.NetPayConsistent())
}

func TestContributionBaseRecord_IsOpen(t *testing.T) {
	record := domain.ContributionBaseRecord{}
	assert.True(t, record.IsOpen())

	end := record.EffectiveStart.AddDate(1, 0, 0)
	record.EffectiveEnd = &end
	assert.False(t, record.IsOpen())
}
