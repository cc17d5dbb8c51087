package github_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/manygit/domain"
	"github.com/rios0rios0/manygit/infrastructure/provider/github"
)

func TestStatusTranslation(t *testing.T) {
	t.Parallel()

	t.Run("FromVendorState", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			vendor   string
			expected domain.StatusState
		}{
			{name: "should map pending", vendor: "pending", expected: domain.StatusPending},
			{name: "should map error to failed", vendor: "error", expected: domain.StatusFailed},
			{name: "should map failure to failed", vendor: "failure", expected: domain.StatusFailed},
			{name: "should map success", vendor: "success", expected: domain.StatusSuccess},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				// when
				state, err := github.FromVendorState(tt.vendor)

				// then
				require.NoError(t, err)
				assert.Equal(t, tt.expected, state)
			})
		}

		t.Run("should fail on an unknown vendor string", func(t *testing.T) {
			t.Parallel()

			// when
			_, err := github.FromVendorState("foo")

			// then
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrManygit)
			assert.Contains(t, err.Error(), "foo")
		})
	})

	t.Run("ToVendorState", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			state    domain.StatusState
			expected string
		}{
			{name: "should map pending", state: domain.StatusPending, expected: "pending"},
			{name: "should map failed to failure", state: domain.StatusFailed, expected: "failure"},
			{name: "should map success", state: domain.StatusSuccess, expected: "success"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				// when
				vendor, err := github.ToVendorState(tt.state)

				// then
				require.NoError(t, err)
				assert.Equal(t, tt.expected, vendor)
			})
		}

		t.Run("should fail on a state outside the canonical set", func(t *testing.T) {
			t.Parallel()

			// when
			_, err := github.ToVendorState(domain.StatusState("queued"))

			// then
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrManygit)
		})
	})

	t.Run("should round-trip every canonical state", func(t *testing.T) {
		t.Parallel()

		for _, state := range []domain.StatusState{
			domain.StatusPending, domain.StatusFailed, domain.StatusSuccess,
		} {
			// when
			vendor, err := github.ToVendorState(state)
			require.NoError(t, err)
			back, err := github.FromVendorState(vendor)

			// then
			require.NoError(t, err)
			assert.Equal(t, state, back)
		}
	})
}
