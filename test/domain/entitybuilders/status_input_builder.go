package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/manygit/domain"
)

// CommitStatusInputBuilder helps create commit status inputs with a fluent
// interface.
type CommitStatusInputBuilder struct {
	*testkit.BaseBuilder
	state domain.StatusState
	name  string
	data  string
	url   string
}

// NewCommitStatusInputBuilder creates a new builder with sensible defaults.
func NewCommitStatusInputBuilder() *CommitStatusInputBuilder {
	return &CommitStatusInputBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		state:       domain.StatusSuccess,
		name:        "ci/build",
		data:        "Build succeeded",
		url:         "https://ci.example.com/build/1",
	}
}

// WithState sets the canonical status state.
func (b *CommitStatusInputBuilder) WithState(state domain.StatusState) *CommitStatusInputBuilder {
	b.state = state
	return b
}

// WithName sets the status name.
func (b *CommitStatusInputBuilder) WithName(name string) *CommitStatusInputBuilder {
	b.name = name
	return b
}

// WithData sets the free-text description.
func (b *CommitStatusInputBuilder) WithData(data string) *CommitStatusInputBuilder {
	b.data = data
	return b
}

// WithURL sets the details link.
func (b *CommitStatusInputBuilder) WithURL(url string) *CommitStatusInputBuilder {
	b.url = url
	return b
}

// Build creates the input (satisfies testkit.Builder interface).
func (b *CommitStatusInputBuilder) Build() interface{} {
	return b.BuildCommitStatusInput()
}

// BuildCommitStatusInput creates the input with a concrete return type.
func (b *CommitStatusInputBuilder) BuildCommitStatusInput() domain.CommitStatusInput {
	return domain.CommitStatusInput{
		State: b.state,
		Name:  b.name,
		Data:  b.data,
		URL:   b.url,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *CommitStatusInputBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.state = domain.StatusSuccess
	b.name = "ci/build"
	b.data = "Build succeeded"
	b.url = "https://ci.example.com/build/1"
	return b
}

// Clone creates a deep copy of the CommitStatusInputBuilder.
func (b *CommitStatusInputBuilder) Clone() testkit.Builder {
	return &CommitStatusInputBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		state:       b.state,
		name:        b.name,
		data:        b.data,
		url:         b.url,
	}
}
