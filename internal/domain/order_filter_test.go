package domain_test

import (
	"testing"
	"time"

	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestOrderFilterValidate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		filter    domain.OrderFilter
		wantError string
	}{
		{
			name:      "empty",
			filter:    domain.OrderFilter{},
			wantError: "all fields are empty",
		},
		{
			name:   "user ids only",
			filter: domain.OrderFilter{UserIDs: []int64{1}},
		},
		{
			name:      "empty time range",
			filter:    domain.OrderFilter{CreatedAt: &domain.TimeRange{}},
			wantError: "createdAt: both Before and After are nil",
		},
		{
			name: "inverted time range",
			filter: domain.OrderFilter{CreatedAt: &domain.TimeRange{
				Before: lo.ToPtr(now.Add(-time.Hour)),
				After:  lo.ToPtr(now),
			}},
			wantError: "createdAt: before is before After",
		},
		{
			name: "valid time range",
			filter: domain.OrderFilter{CreatedAt: &domain.TimeRange{
				Before: lo.ToPtr(now),
				After:  lo.ToPtr(now.Add(-time.Hour)),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}
