package domain

import (
	"errors"
	"fmt"
)

// ErrManygit is the root of the canonical error taxonomy. Every error this
// library raises on its own behalf wraps it, directly or through one of the
// specific kinds below, so errors.Is(err, ErrManygit) matches them all.
// Vendor errors the adapters do not recognize propagate unchanged and do not
// wrap it.
var ErrManygit = errors.New("manygit")

var (
	// ErrNetwork marks transport-level failures reaching the provider.
	ErrNetwork = fmt.Errorf("%w: network failure", ErrManygit)

	// ErrNotFound marks a remote object that does not exist.
	ErrNotFound = fmt.Errorf("%w: not found", ErrManygit)

	// ErrConnection marks resolution failures: an unregistered credential
	// type, or no held connection accepting a repository specification.
	ErrConnection = fmt.Errorf("%w: connection error", ErrManygit)

	// ErrVCS marks a domain error reported by the provider itself, such as a
	// rejected merge or a validation failure.
	ErrVCS = fmt.Errorf("%w: vcs error", ErrManygit)

	// ErrUnsupported marks a capability with no equivalent on the provider
	// backing the repository.
	ErrUnsupported = fmt.Errorf("%w: operation not supported", ErrManygit)
)
