// Package github implements the manygit connection for GitHub and GitHub
// Enterprise, backed by google/go-github.
package github

import (
	"context"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v66/github"

	"github.com/rios0rios0/manygit/domain"
	"github.com/rios0rios0/manygit/infrastructure/provider"
)

const (
	// Host is the registry key for the GitHub provider family.
	Host = "github"

	// CredTypeOAuthToken and CredTypePersonalAccessToken are the credential
	// type keys the factory dispatches on.
	CredTypeOAuthToken          = "github/oauth-token"
	CredTypePersonalAccessToken = "github/personal-access-token"

	defaultHost = "github.com"
	perPage     = 100
)

// OAuthTokenCredential authenticates with an OAuth or fine-grained token.
// A non-empty EnterpriseURL points the connection at a GitHub Enterprise
// server instead of github.com.
type OAuthTokenCredential struct {
	Token         string
	EnterpriseURL string
}

func (c OAuthTokenCredential) CredentialType() string { return CredTypeOAuthToken }

// PersonalAccessTokenCredential authenticates with a username and a classic
// personal access token over basic auth.
type PersonalAccessTokenCredential struct {
	Username      string
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

// Register wires the GitHub connection factory into a registry.
func Register(registry *provider.Registry) {
	registry.Register(Host, NewConnection, CredTypeOAuthToken, CredTypePersonalAccessToken)
}

// Connection implements domain.Connection against the GitHub REST API.
type Connection struct {
	client *gh.Client
	host   string
}

// NewConnection builds a GitHub connection from one of this package's
// credential types.
func NewConnection(credential domain.Credential) (domain.Connection, error) {
	var (
		client        *gh.Client
		enterpriseURL string
	)

	switch cred := credential.(type) {
	case OAuthTokenCredential:
		client = gh.NewClient(nil).WithAuthToken(cred.Token)
		enterpriseURL = cred.EnterpriseURL
	case PersonalAccessTokenCredential:
		transport := &gh.BasicAuthTransport{Username: cred.Username, Password: cred.Token}
		client = gh.NewClient(transport.Client())
		enterpriseURL = cred.EnterpriseURL
	default:
		return nil, fmt.Errorf("%w: unexpected credential type %q for github",
			domain.ErrConnection, credential.CredentialType())
	}

	host := defaultHost
	if enterpriseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(enterpriseURL, enterpriseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise URL %q: %w",
				enterpriseURL, err)
		}
		host = provider.NormalizeHost(enterpriseURL)
	}

	return &Connection{client: client, host: host}, nil
}

// IsEligibleRepo reports whether the spec addresses this connection's host.
func (c *Connection) IsEligibleRepo(spec string) (bool, string) {
	return provider.MatchRepoSpec(spec, c.host)
}

// GetRepository fetches repository metadata and returns a handle bound to
// this connection.
func (c *Connection) GetRepository(
	ctx context.Context,
	spec string,
) (domain.Repository, error) {
	owner, name, ok := strings.Cut(spec, "/")
	if !ok {
		return nil, fmt.Errorf("%w: malformed repository path %q",
			domain.ErrConnection, spec)
	}

	meta, _, err := c.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, normalizeError(err)
	}

	return &Repository{client: c.client, owner: owner, name: name, meta: meta}, nil
}
