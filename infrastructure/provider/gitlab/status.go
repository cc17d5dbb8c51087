package gitlab

import (
	"fmt"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/manygit/domain"
)

// FromVendorState translates a GitLab commit status into the canonical state.
// GitLab reports pipeline-flavored states: "running" folds into pending,
// "canceled" into failed.
func FromVendorState(state string) (domain.StatusState, error) {
	switch state {
	case "pending", "running":
		return domain.StatusPending, nil
	case "failed", "canceled":
		return domain.StatusFailed, nil
	case "success":
		return domain.StatusSuccess, nil
	default:
		return "", fmt.Errorf("%w: unknown gitlab commit status %q",
			domain.ErrManygit, state)
	}
}

// ToVendorState translates a canonical state into the GitLab build state.
func ToVendorState(state domain.StatusState) (gl.BuildStateValue, error) {
	switch state {
	case domain.StatusPending:
		return gl.Pending, nil
	case domain.StatusFailed:
		return gl.Failed, nil
	case domain.StatusSuccess:
		return gl.Success, nil
	default:
		return "", fmt.Errorf("%w: unknown commit state %q", domain.ErrManygit, state)
	}
}
