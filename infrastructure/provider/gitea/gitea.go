// Package gitea implements the manygit connection for Gitea and Forgejo
// servers, backed by the official Gitea SDK.
//
// The SDK pins a single context on the client instead of accepting one per
// call, so the connection serializes calls and swaps the caller's context in
// for the duration of each request.
package gitea

import (
	"context"
	"fmt"
	"strings"
	"sync"

	gt "code.gitea.io/sdk/gitea"

	"github.com/rios0rios0/manygit/domain"
	"github.com/rios0rios0/manygit/infrastructure/provider"
)

const (
	// Host is the registry key for the Gitea provider family.
	Host = "gitea"

	// CredTypeAccessToken and CredTypeBasicAuth are the credential type keys
	// the factory dispatches on.
	CredTypeAccessToken = "gitea/access-token"
	CredTypeBasicAuth   = "gitea/basic-auth"

	defaultServerURL = "https://gitea.com"
	perPage          = 50
)

// AccessTokenCredential authenticates with a personal access token. A
// non-empty ServerURL selects a self-hosted instance instead of the public
// gitea.com.
type AccessTokenCredential struct {
	Token     string
	ServerURL string
}

func (c AccessTokenCredential) CredentialType() string { return CredTypeAccessToken }

// BasicAuthCredential authenticates with a username and password.
type BasicAuthCredential struct {
	Username  string
	Password  string
	ServerURL string
}

func (c BasicAuthCredential) CredentialType() string { return CredTypeBasicAuth }

var (
	_ domain.Credential = AccessTokenCredential{}
	_ domain.Credential = BasicAuthCredential{}
	_ domain.Connection = (*Connection)(nil)
)

// Register wires the Gitea connection factory into a registry.
func Register(registry *provider.Registry) {
	registry.Register(Host, NewConnection, CredTypeAccessToken, CredTypeBasicAuth)
}

// Connection implements domain.Connection against the Gitea API.
type Connection struct {
	client *gt.Client
	host   string
	mutex  sync.Mutex
}

// NewConnection builds a Gitea connection from one of this package's
// credential types. The SDK probes the server version during construction, so
// the server must be reachable.
func NewConnection(credential domain.Credential) (domain.Connection, error) {
	var (
		serverURL string
		auth      gt.ClientOption
	)

	switch cred := credential.(type) {
	case AccessTokenCredential:
		serverURL = cred.ServerURL
		auth = gt.SetToken(cred.Token)
	case BasicAuthCredential:
		serverURL = cred.ServerURL
		auth = gt.SetBasicAuth(cred.Username, cred.Password)
	default:
		return nil, fmt.Errorf("%w: unexpected credential type %q for gitea",
			domain.ErrConnection, credential.CredentialType())
	}

	if serverURL == "" {
		serverURL = defaultServerURL
	}

	client, err := gt.NewClient(serverURL, auth)
	if err != nil {
		return nil, fmt.Errorf("failed to reach gitea server %q: %w", serverURL, err)
	}

	return &Connection{client: client, host: provider.NormalizeHost(serverURL)}, nil
}

// withContext runs cb with ctx installed on the shared client. The context
// lives on the client rather than on each call, so the swap is held under the
// mutex and undone before the next caller proceeds.
func (c *Connection) withContext(ctx context.Context, cb func(client *gt.Client) error) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.client.SetContext(ctx)
	defer c.client.SetContext(context.Background())

	return cb(c.client)
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

	var (
		meta *gt.Repository
		resp *gt.Response
	)
	err := c.withContext(ctx, func(client *gt.Client) error {
		var err error
		meta, resp, err = client.GetRepo(owner, name)
		return err
	})
	if err != nil {
		return nil, normalizeError(resp, err)
	}

	return &Repository{conn: c, owner: owner, name: name, meta: meta}, nil
}
