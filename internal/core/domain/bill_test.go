package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/invobook/invobook/internal/core/domain"
)

var allBillStatuses = []domain.BillStatus{
	domain.BillStatusPending,
	domain.BillStatusExtracted,
	domain.BillStatusReviewed,
	domain.BillStatusPaid,
	domain.BillStatusPaidNeedsReview,
	domain.BillStatusFailed,
}

func TestBillStatus_CanTransitionTo(t *testing.T) {
	allowed := map[domain.BillStatus][]domain.BillStatus{
		domain.BillStatusPending:         {domain.BillStatusExtracted, domain.BillStatusReviewed, domain.BillStatusFailed},
		domain.BillStatusExtracted:       {domain.BillStatusReviewed, domain.BillStatusFailed},
		domain.BillStatusReviewed:        {domain.BillStatusPaid},
		domain.BillStatusPaid:            {domain.BillStatusPaidNeedsReview},
		domain.BillStatusPaidNeedsReview: {domain.BillStatusReviewed},
		domain.BillStatusFailed:          {domain.BillStatusPending},
	}

	for _, from := range allBillStatuses {
		for _, to := range allBillStatuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBillStatus_Guards(t *testing.T) {
	tests := []struct {
		status      domain.BillStatus
		isPending   bool
		needsReview bool
		canBePaid   bool
	}{
		{domain.BillStatusPending, true, false, false},
		{domain.BillStatusExtracted, true, true, false},
		{domain.BillStatusReviewed, true, false, true},
		{domain.BillStatusPaid, false, false, false},
		{domain.BillStatusPaidNeedsReview, true, true, false},
		{domain.BillStatusFailed, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isPending, tt.status.IsPending())
			assert.Equal(t, tt.needsReview, tt.status.NeedsReview())
			assert.Equal(t, tt.canBePaid, tt.status.CanBePaid())
		})
	}
}

func TestBill_TransitionTo(t *testing.T) {
	bill := domain.Bill{Status: domain.BillStatusExtracted}

	assert.NoError(t, bill.TransitionTo(domain.BillStatusReviewed))
	assert.Equal(t, domain.BillStatusReviewed, bill.Status)

	err := bill.TransitionTo(domain.BillStatusExtracted)
	assert.Error(t, err)
	assert.True(t, domain.IsInvalidTransition(err))
	// status unchanged on rejection
	assert.Equal(t, domain.BillStatusReviewed, bill.Status)
}
