package gitea

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gt "code.gitea.io/sdk/gitea"

	"github.com/rios0rios0/manygit/domain"
)

// normalizeError maps SDK failures onto the manygit taxonomy. The Gitea SDK
// returns untyped errors, so classification leans on the HTTP response status
// and falls back to the "404 Not Found" message the SDK builds when no
// response is available. Anything unrecognized passes through untouched.
func normalizeError(resp *gt.Response, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}

	if resp != nil && resp.Response != nil {
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
		case resp.StatusCode >= http.StatusBadRequest:
			return fmt.Errorf("%w: %w", domain.ErrVCS, err)
		}
	}

	if strings.HasPrefix(err.Error(), "404") {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}

	return err
}
