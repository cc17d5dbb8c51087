package provider

import (
	"context"
	"fmt"

	"github.com/rios0rios0/manygit/domain"
)

// heldConnection pairs a live connection with the credential type that built
// it, so host hints can restrict resolution to one provider family.
type heldConnection struct {
	conn     domain.Connection
	credType string
}

// ConnectionManager holds an ordered list of live connections and resolves
// repository specifications against them. Insertion order is significant:
// the first connection that accepts a spec wins, even when a later one would
// accept it too.
type ConnectionManager struct {
	registry    *Registry
	connections []heldConnection
}

// NewConnectionManager builds a manager over the given registry and opens one
// connection per credential, in order.
func NewConnectionManager(
	registry *Registry,
	credentials ...domain.Credential,
) (*ConnectionManager, error) {
	manager := &ConnectionManager{registry: registry}
	for _, credential := range credentials {
		if err := manager.AddConnection(credential); err != nil {
			return nil, err
		}
	}
	return manager, nil
}

// AddConnection opens a connection for the credential and appends it to the
// resolution order.
func (m *ConnectionManager) AddConnection(credential domain.Credential) error {
	conn, err := m.registry.Connect(credential)
	if err != nil {
		return err
	}
	m.connections = append(m.connections, heldConnection{
		conn:     conn,
		credType: credential.CredentialType(),
	})
	return nil
}

// Resolve finds the first connection that accepts the repository specification
// and returns the repository it yields.
func (m *ConnectionManager) Resolve(
	ctx context.Context,
	spec string,
) (domain.Repository, error) {
	return m.resolve(ctx, spec, m.connections)
}

// ResolveHost resolves a repository specification against a single provider
// family. When host names a registered host, only connections built from that
// host's credential types are candidates; an unknown host leaves the hint
// ignored and every connection is tried.
func (m *ConnectionManager) ResolveHost(
	ctx context.Context,
	spec, host string,
) (domain.Repository, error) {
	credTypes := m.registry.CredentialTypes(host)
	if credTypes == nil {
		return m.resolve(ctx, spec, m.connections)
	}

	var candidates []heldConnection
	for _, held := range m.connections {
		if contains(credTypes, held.credType) {
			candidates = append(candidates, held)
		}
	}
	return m.resolve(ctx, spec, candidates)
}

func (m *ConnectionManager) resolve(
	ctx context.Context,
	spec string,
	candidates []heldConnection,
) (domain.Repository, error) {
	for _, held := range candidates {
		eligible, normalized := held.conn.IsEligibleRepo(spec)
		if !eligible {
			continue
		}
		repo, err := held.conn.GetRepository(ctx, normalized)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	return nil, fmt.Errorf(
		"%w: no connection accepts repository specification %q",
		domain.ErrConnection, spec,
	)
}
