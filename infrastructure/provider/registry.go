package provider

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/manygit/domain"
)

// Factory is a constructor function that creates a Connection from a credential.
type Factory func(credential domain.Credential) (domain.Connection, error)

// Registry maps credential types to connection factories and hosts to the
// credential types they accept. Registries are plain values wired explicitly
// by the caller; nothing registers itself behind the scenes.
type Registry struct {
	factories map[string]Factory
	hosts     map[string][]string
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		hosts:     make(map[string][]string),
	}
}

// Register adds a factory for a host (e.g. "github") under one or more
// credential type keys (e.g. "github/oauth-token"). Registering an already
// known credential type replaces its factory.
func (r *Registry) Register(host string, factory Factory, credentialTypes ...string) {
	for _, credType := range credentialTypes {
		r.factories[credType] = factory
		if !contains(r.hosts[host], credType) {
			r.hosts[host] = append(r.hosts[host], credType)
		}
	}
}

// Connect builds a connection for the given credential by dispatching on its
// credential type.
func (r *Registry) Connect(credential domain.Credential) (domain.Connection, error) {
	credType := credential.CredentialType()
	factory, ok := r.factories[credType]
	if !ok {
		return nil, fmt.Errorf(
			"%w: no connection registered for credential type %q",
			domain.ErrConnection, credType,
		)
	}
	conn, err := factory(credential)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection for %q: %w", credType, err)
	}
	return conn, nil
}

// Hosts returns the sorted list of registered host names.
func (r *Registry) Hosts() []string {
	hosts := make([]string, 0, len(r.hosts))
	for host := range r.hosts {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}

// CredentialTypes returns the credential types registered for a host, or nil
// when the host is unknown.
func (r *Registry) CredentialTypes(host string) []string {
	return r.hosts[host]
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
