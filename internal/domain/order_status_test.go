package domain_test

import (
	"testing"

	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToOrderStatus(t *testing.T) {
	for _, status := range domain.OrderStatuses() {
		got, err := domain.ToOrderStatus(string(status))
		require.NoError(t, err)
		assert.Equal(t, status, got)
	}

	_, err := domain.ToOrderStatus("pending")
	require.EqualError(t, err, "invalid order status")
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from domain.OrderStatus
		to   domain.OrderStatus
		want bool
	}{
		{domain.OrderStatusPending, domain.OrderStatusCompleted, true},
		{domain.OrderStatusPending, domain.OrderStatusCancelled, true},
		{domain.OrderStatusPending, domain.OrderStatusPending, false},
		{domain.OrderStatusPending, domain.OrderStatusProcessing, false},
		{domain.OrderStatusCompleted, domain.OrderStatusPending, false},
		{domain.OrderStatusCompleted, domain.OrderStatusCancelled, false},
		{domain.OrderStatusCancelled, domain.OrderStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, domain.OrderStatusCompleted.Terminal())
	assert.True(t, domain.OrderStatusCancelled.Terminal())
	assert.False(t, domain.OrderStatusPending.Terminal())
}
