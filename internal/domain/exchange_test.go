package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gostore/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestExchangeStatus_Valid(t *testing.T) {
	assert.True(t, domain.ExchangeStatusPending.Valid())
	assert.True(t, domain.ExchangeStatusApproved.Valid())
	assert.True(t, domain.ExchangeStatusRejected.Valid())
	assert.False(t, domain.ExchangeStatus("Completed").Valid())
	assert.False(t, domain.ExchangeStatus("approved").Valid())
	assert.False(t, domain.ExchangeStatus("").Valid())
}

func TestExchangeStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to domain.ExchangeStatus
		want     bool
	}{
		{domain.ExchangeStatusPending, domain.ExchangeStatusApproved, true},
		{domain.ExchangeStatusPending, domain.ExchangeStatusRejected, true},
		{domain.ExchangeStatusApproved, domain.ExchangeStatusRejected, false},
		{domain.ExchangeStatusApproved, domain.ExchangeStatusPending, false},
		{domain.ExchangeStatusRejected, domain.ExchangeStatusApproved, false},
		{domain.ExchangeStatusRejected, domain.ExchangeStatusPending, false},
		{domain.ExchangeStatusPending, domain.ExchangeStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestExchange_ShouldAdjustStock(t *testing.T) {
	tests := []struct {
		name     string
		returned *string
		newVar   *string
		want     bool
	}{
		{"both present and different", strPtr("v-ret"), strPtr("v-new"), true},
		{"same variation", strPtr("v-1"), strPtr("v-1"), false},
		{"returned missing", nil, strPtr("v-new"), false},
		{"new missing", strPtr("v-ret"), nil, false},
		{"both missing", nil, nil, false},
		{"empty string counts as missing", strPtr(""), strPtr("v-new"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := domain.Exchange{ReturnedVariationID: tt.returned, NewVariationID: tt.newVar}
			assert.Equal(t, tt.want, ex.ShouldAdjustStock())
		})
	}
}

func TestWarrantyEndDate(t *testing.T) {
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	end := domain.WarrantyEndDate(start, 12)
	if assert.NotNil(t, end) {
		assert.Equal(t, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), *end)
	}

	assert.Nil(t, domain.WarrantyEndDate(start, 0), "duração 0 é vitalícia")
}

func TestWarranty_StatusAt(t *testing.T) {
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	w := domain.Warranty{StartDate: start, EndDate: domain.WarrantyEndDate(start, 6)}

	assert.Equal(t, domain.WarrantyStatusActive, w.StatusAt(start.AddDate(0, 3, 0)))
	assert.Equal(t, domain.WarrantyStatusExpired, w.StatusAt(start.AddDate(0, 6, 0)))

	lifetime := domain.Warranty{StartDate: start}
	assert.Equal(t, domain.WarrantyStatusActive, lifetime.StatusAt(start.AddDate(50, 0, 0)))
}
