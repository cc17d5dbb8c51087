package github

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	gh "github.com/google/go-github/v66/github"

	"github.com/rios0rios0/manygit/domain"
)

// normalizeError maps go-github errors onto the manygit taxonomy. Recognized
// failures wrap the matching sentinel and keep the cause in the chain;
// anything else passes through untouched.
func normalizeError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) {
		if respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
		}
		return fmt.Errorf("%w: %w", domain.ErrVCS, err)
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: %w", domain.ErrVCS, err)
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %w", domain.ErrVCS, err)
	}

	return err
}
