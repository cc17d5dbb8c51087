package gitea

import (
	"fmt"

	gt "code.gitea.io/sdk/gitea"

	"github.com/rios0rios0/manygit/domain"
)

// FromVendorState translates a Gitea commit state into the canonical state.
// Gitea reports "error", "failure" and "warning" flavors of failure; all
// three fold into StatusFailed.
func FromVendorState(state gt.StatusState) (domain.StatusState, error) {
	switch state {
	case gt.StatusPending:
		return domain.StatusPending, nil
	case gt.StatusError, gt.StatusFailure, gt.StatusWarning:
		return domain.StatusFailed, nil
	case gt.StatusSuccess:
		return domain.StatusSuccess, nil
	default:
		return "", fmt.Errorf("%w: unknown gitea commit state %q",
			domain.ErrManygit, state)
	}
}

// ToVendorState translates a canonical state into the Gitea status state.
func ToVendorState(state domain.StatusState) (gt.StatusState, error) {
	switch state {
	case domain.StatusPending:
		return gt.StatusPending, nil
	case domain.StatusFailed:
		return gt.StatusFailure, nil
	case domain.StatusSuccess:
		return gt.StatusSuccess, nil
	default:
		return "", fmt.Errorf("%w: unknown commit state %q", domain.ErrManygit, state)
	}
}
