package domain

import "context"

// Credential is one way of authenticating against one hosting provider.
// Concrete variants live in the adapter packages (OAuth token or personal
// access token, each optionally carrying an enterprise/self-hosted URL).
// Credentials are immutable values consumed once to construct a Connection.
type Credential interface {
	// CredentialType returns the registry key identifying this variant,
	// e.g. "github/personal-access-token".
	CredentialType() string
}

// Connection owns one authenticated vendor session and one resolved host
// domain. A Connection and its underlying session are not guaranteed safe for
// concurrent use; callers needing parallel access construct independent
// Connections from the same Credential.
type Connection interface {
	// IsEligibleRepo reports whether spec identifies a repository on this
	// connection's host and, when it does, the normalized "owner/repo" form.
	IsEligibleRepo(spec string) (bool, string)

	// GetRepository fetches a Repository handle for a normalized spec.
	GetRepository(ctx context.Context, spec string) (Repository, error)
}
