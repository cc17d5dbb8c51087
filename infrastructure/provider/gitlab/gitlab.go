// Package gitlab implements the manygit connection for GitLab and self-hosted
// GitLab instances, backed by gitlab-org/api/client-go.
package gitlab

import (
	"context"
	"fmt"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/manygit/domain"
	"github.com/rios0rios0/manygit/infrastructure/provider"
)

const (
	// Host is the registry key for the GitLab provider family.
	Host = "gitlab"

	// CredTypeOAuthToken and CredTypePersonalAccessToken are the credential
	// type keys the factory dispatches on.
	CredTypeOAuthToken          = "gitlab/oauth-token"
	CredTypePersonalAccessToken = "gitlab/personal-access-token"

	defaultHost = "gitlab.com"
	perPage     = 100
)

// OAuthTokenCredential authenticates with an OAuth token. A non-empty
// EnterpriseURL points the connection at a self-hosted GitLab instance.
type OAuthTokenCredential struct {
	Token         string
	EnterpriseURL string
}

func (c OAuthTokenCredential) CredentialType() string { return CredTypeOAuthToken }

// PersonalAccessTokenCredential authenticates with a personal access token.
// GitLab personal access tokens carry their own identity, so no username is
// needed.
type PersonalAccessTokenCredential struct {
	Token         string
	EnterpriseURL string
}

func (c PersonalAccessTokenCredential) CredentialType() string {
	return CredTypePersonalAccessToken
}

var (
	_ domain.Credential = OAuthTokenCredential{}
	_ domain.Credential = PersonalAccessTokenCredential{}
	_ domain.Connection = (*Connection)(nil)
)

// Register wires the GitLab connection factory into a registry.
func Register(registry *provider.Registry) {
	registry.Register(Host, NewConnection, CredTypeOAuthToken, CredTypePersonalAccessToken)
}

// Connection implements domain.Connection against the GitLab REST API.
type Connection struct {
	client *gl.Client
	host   string
}

// NewConnection builds a GitLab connection from one of this package's
// credential types.
func NewConnection(credential domain.Credential) (domain.Connection, error) {
	var (
		client        *gl.Client
		err           error
		enterpriseURL string
	)

	switch cred := credential.(type) {
	case OAuthTokenCredential:
		client, err = gl.NewOAuthClient(cred.Token, clientOptions(cred.EnterpriseURL)...)
		enterpriseURL = cred.EnterpriseURL
	case PersonalAccessTokenCredential:
		client, err = gl.NewClient(cred.Token, clientOptions(cred.EnterpriseURL)...)
		enterpriseURL = cred.EnterpriseURL
	default:
		return nil, fmt.Errorf("%w: unexpected credential type %q for gitlab",
			domain.ErrConnection, credential.CredentialType())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build gitlab client: %w", err)
	}

	host := defaultHost
	if enterpriseURL != "" {
		host = provider.NormalizeHost(enterpriseURL)
	}

	return &Connection{client: client, host: host}, nil
}

func clientOptions(baseURL string) []gl.ClientOptionFunc {
	if baseURL == "" {
		return nil
	}
	return []gl.ClientOptionFunc{gl.WithBaseURL(baseURL)}
}

// IsEligibleRepo reports whether the spec addresses this connection's host.
func (c *Connection) IsEligibleRepo(spec string) (bool, string) {
	return provider.MatchRepoSpec(spec, c.host)
}

// GetRepository fetches the project and returns a handle bound to this
// connection. The spec doubles as the GitLab project ID path.
func (c *Connection) GetRepository(
	ctx context.Context,
	spec string,
) (domain.Repository, error) {
	project, _, err := c.client.Projects.GetProject(spec, nil, gl.WithContext(ctx))
	if err != nil {
		return nil, normalizeError(err)
	}
	return &Repository{client: c.client, pid: spec, meta: project}, nil
}
