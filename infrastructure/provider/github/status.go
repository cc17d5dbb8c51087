package github

import (
	"fmt"

	"github.com/rios0rios0/manygit/domain"
)

// FromVendorState translates a GitHub commit state into the canonical state.
// GitHub reports both "error" and "failure"; both fold into StatusFailed.
func FromVendorState(state string) (domain.StatusState, error) {
	switch state {
	case "pending":
		return domain.StatusPending, nil
	case "error", "failure":
		return domain.StatusFailed, nil
	case "success":
		return domain.StatusSuccess, nil
	default:
		return "", fmt.Errorf("%w: unknown github commit state %q",
			domain.ErrManygit, state)
	}
}

// ToVendorState translates a canonical state into the GitHub API string.
func ToVendorState(state domain.StatusState) (string, error) {
	switch state {
	case domain.StatusPending:
		return "pending", nil
	case domain.StatusFailed:
		return "failure", nil
	case domain.StatusSuccess:
		return "success", nil
	default:
		return "", fmt.Errorf("%w: unknown commit state %q", domain.ErrManygit, state)
	}
}
