// Package manygit provides a uniform client layer over Git hosting services.
// One ConnectionManager holds authenticated connections for GitHub, GitLab and
// Gitea (public or self-hosted) and routes any common repository spelling,
// such as an HTTPS or SSH URL, to the connection that can serve it.
package manygit

import (
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/manygit/config"
	"github.com/rios0rios0/manygit/domain"
	"github.com/rios0rios0/manygit/infrastructure/provider"
	"github.com/rios0rios0/manygit/infrastructure/provider/gitea"
	"github.com/rios0rios0/manygit/infrastructure/provider/github"
	"github.com/rios0rios0/manygit/infrastructure/provider/gitlab"
)

// DefaultRegistry returns a registry with every built-in provider wired in.
// Callers wanting a subset build their own Registry and register adapters
// explicitly.
func DefaultRegistry() *provider.Registry {
	registry := provider.NewRegistry()
	github.Register(registry)
	gitlab.Register(registry)
	gitea.Register(registry)
	return registry
}

// NewManager builds a ConnectionManager over the built-in providers, opening
// one connection per credential in the given order.
func NewManager(credentials ...domain.Credential) (*provider.ConnectionManager, error) {
	return provider.NewConnectionManager(DefaultRegistry(), credentials...)
}

// FromConfig maps configuration entries onto adapter credentials and builds a
// ready ConnectionManager.
func FromConfig(cfg *config.Config) (*provider.ConnectionManager, error) {
	credentials := make([]domain.Credential, 0, len(cfg.Connections))
	for i, entry := range cfg.Connections {
		credential, err := credentialFromConfig(entry)
		if err != nil {
			logger.Errorf("Failed to configure connections[%d]: %v", i, err)
			return nil, fmt.Errorf("connections[%d]: %w", i, err)
		}

		logger.Infof("Configured %s connection (%s)", entry.Provider, entry.Auth)
		credentials = append(credentials, credential)
	}

	return NewManager(credentials...)
}

// credentialFromConfig maps one configuration entry onto the matching adapter
// credential type.
func credentialFromConfig(entry config.ConnectionConfig) (domain.Credential, error) {
	switch entry.Provider {
	case github.Host:
		switch entry.Auth {
		case "oauth-token":
			return github.OAuthTokenCredential{
				Token:         entry.Token,
				EnterpriseURL: entry.URL,
			}, nil
		case "personal-access-token":
			return github.PersonalAccessTokenCredential{
				Username:      entry.Username,
				Token:         entry.Token,
				EnterpriseURL: entry.URL,
			}, nil
		}
	case gitlab.Host:
		switch entry.Auth {
		case "oauth-token":
			return gitlab.OAuthTokenCredential{
				Token:         entry.Token,
				EnterpriseURL: entry.URL,
			}, nil
		case "personal-access-token":
			return gitlab.PersonalAccessTokenCredential{
				Token:         entry.Token,
				EnterpriseURL: entry.URL,
			}, nil
		}
	case gitea.Host:
		switch entry.Auth {
		case "access-token":
			return gitea.AccessTokenCredential{
				Token:     entry.Token,
				ServerURL: entry.URL,
			}, nil
		case "basic":
			return gitea.BasicAuthCredential{
				Username:  entry.Username,
				Password:  entry.Token,
				ServerURL: entry.URL,
			}, nil
		}
	default:
		return nil, fmt.Errorf("%w: unknown provider %q",
			domain.ErrConnection, entry.Provider)
	}

	return nil, fmt.Errorf("%w: unknown auth scheme %q for provider %q",
		domain.ErrConnection, entry.Auth, entry.Provider)
}
