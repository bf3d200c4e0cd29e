package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("uow.Do: %w", fmt.Errorf("orders.GetOrderForUpdate: %w", domain.ErrOrderNotFound))

	assert.Equal(t, domain.KindNotFound, domain.KindOf(wrapped))
	assert.Equal(t, "order not found", domain.Message(wrapped))
	assert.ErrorIs(t, wrapped, domain.ErrOrderNotFound)

	plain := errors.New("connection reset")
	assert.Equal(t, domain.KindInternal, domain.KindOf(plain))
	assert.Empty(t, domain.Message(plain))

	assert.Equal(t, domain.KindUnavailable, domain.KindOf(domain.ErrGatewayTimeout))
	assert.Equal(t, "unavailable", domain.KindUnavailable.String())
}

func TestVerdict(t *testing.T) {
	assert.True(t, domain.Allow().OK())
	require.NoError(t, domain.Allow().Err())

	forbid := domain.Forbid("forbidden")
	assert.False(t, forbid.OK())
	assert.Equal(t, domain.KindForbidden, domain.KindOf(forbid.Err()))
	assert.EqualError(t, forbid.Err(), "forbidden")

	reject := domain.Reject("cartItems[%d]: price is negative", 2)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(reject.Err()))
	assert.EqualError(t, reject.Err(), "cartItems[2]: price is negative")
}

func TestCanActFor(t *testing.T) {
	user := domain.CallerIdentity{ID: 1, Role: domain.RoleUser}
	admin := domain.CallerIdentity{ID: 2, Role: domain.RoleAdmin}

	assert.True(t, user.CanActFor(1))
	assert.False(t, user.CanActFor(3))
	assert.True(t, admin.CanActFor(3))

	_, err := domain.ToRole("ROOT")
	require.EqualError(t, err, "invalid role")
}
