package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/manygit/domain"
)

// ReleaseInputBuilder helps create release inputs with a fluent interface.
type ReleaseInputBuilder struct {
	*testkit.BaseBuilder
	name       string
	body       string
	prerelease bool
	draft      bool
}

// NewReleaseInputBuilder creates a new builder with sensible defaults.
func NewReleaseInputBuilder() *ReleaseInputBuilder {
	return &ReleaseInputBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "Version 1.0.0",
		body:        "Release notes.",
	}
}

// WithName sets the release name.
func (b *ReleaseInputBuilder) WithName(name string) *ReleaseInputBuilder {
	b.name = name
	return b
}

// WithBody sets the release body text.
func (b *ReleaseInputBuilder) WithBody(body string) *ReleaseInputBuilder {
	b.body = body
	return b
}

// WithPrerelease marks the release as a prerelease.
func (b *ReleaseInputBuilder) WithPrerelease(prerelease bool) *ReleaseInputBuilder {
	b.prerelease = prerelease
	return b
}

// WithDraft marks the release as a draft.
func (b *ReleaseInputBuilder) WithDraft(draft bool) *ReleaseInputBuilder {
	b.draft = draft
	return b
}

// Build creates the input (satisfies testkit.Builder interface).
func (b *ReleaseInputBuilder) Build() interface{} {
	return b.BuildReleaseInput()
}

// BuildReleaseInput creates the input with a concrete return type.
func (b *ReleaseInputBuilder) BuildReleaseInput() domain.ReleaseInput {
	return domain.ReleaseInput{
		Name:       b.name,
		Body:       b.body,
		Prerelease: b.prerelease,
		Draft:      b.draft,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ReleaseInputBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "Version 1.0.0"
	b.body = "Release notes."
	b.prerelease = false
	b.draft = false
	return b
}

// Clone creates a deep copy of the ReleaseInputBuilder.
func (b *ReleaseInputBuilder) Clone() testkit.Builder {
	return &ReleaseInputBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		body:        b.body,
		prerelease:  b.prerelease,
		draft:       b.draft,
	}
}
