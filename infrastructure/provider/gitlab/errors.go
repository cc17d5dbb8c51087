package gitlab

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/manygit/domain"
)

// normalizeError maps client-go errors onto the manygit taxonomy. Recognized
// failures wrap the matching sentinel and keep the cause in the chain;
// anything else passes through untouched.
func normalizeError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}

	if errors.Is(err, gl.ErrNotFound) {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}

	var respErr *gl.ErrorResponse
	if errors.As(err, &respErr) {
		if respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
		}
		return fmt.Errorf("%w: %w", domain.ErrVCS, err)
	}

	return err
}
