package domain

import "context"

// CommitStatus is one status entry attached to a commit, for example one CI
// check. Vendor state strings are translated when the entry is constructed, so
// State always yields a canonical value.
type CommitStatus interface {
	// Name returns the status name (vendor "context"). Names are not unique
	// across time; multiple entries may share a name as history accrues.
	Name() string

	// State returns the canonical state of this entry.
	State() StatusState

	// Data returns the free-text description, or "" when absent.
	Data() string

	// URL returns the details link, or "" when absent.
	URL() string
}

// Commit is an immutable commit identified by its SHA, reachable only through
// its owning Repository.
type Commit interface {
	// SHA returns the commit identifier.
	SHA() string

	// Parents enumerates the direct parents of this commit.
	Parents(ctx context.Context) *Iterator[Commit]

	// Statuses enumerates the statuses currently attached to this commit.
	Statuses(ctx context.Context) *Iterator[CommitStatus]

	// SetStatus attaches a new status entry to this commit.
	SetStatus(ctx context.Context, input CommitStatusInput) error
}

// Branch is a named pointer to a head commit within a Repository. The remote
// may move it at any time; Head reflects the state observed when the Branch
// handle was fetched.
type Branch interface {
	Name() string
	Head(ctx context.Context) (Commit, error)
}

// Tag is a named pointer to a commit. Annotation returns the tag message for
// annotated tags and "" for lightweight ones.
type Tag interface {
	Name() string
	Annotation() string
	Commit(ctx context.Context) (Commit, error)
}

// Release is a published release referencing its tag by name. Providers
// without draft or prerelease concepts report false for both flags.
type Release interface {
	Name() string
	Body() string

	// Tag resolves the release's tag by name lookup at read time.
	Tag(ctx context.Context) (Tag, error)

	// Commit resolves the commit the release's tag points to.
	Commit(ctx context.Context) (Commit, error)

	IsDraft() bool
	IsPrerelease() bool
}

// PullRequest is a pull/merge request between two branches of one Repository.
type PullRequest interface {
	// ID returns the provider's number for this pull request, unique within
	// its Repository.
	ID() int64

	Title() string

	// Base resolves the branch the pull request merges into.
	Base(ctx context.Context) (Branch, error)

	// Source resolves the branch the pull request merges from.
	Source(ctx context.Context) (Branch, error)

	// Merge performs the terminal merge action on the remote.
	Merge(ctx context.Context) error
}

// Repository is a handle scoped to one Connection and one remote project. All
// child entities are obtained through it and hold a back-reference to it.
//
// Listing methods return lazy sequences; see Iterator for the consumption
// contract.
type Repository interface {
	Commits(ctx context.Context) *Iterator[Commit]
	GetCommit(ctx context.Context, sha string) (Commit, error)

	Branches(ctx context.Context) *Iterator[Branch]
	GetBranch(ctx context.Context, name string) (Branch, error)

	// DefaultBranch returns the repository's default branch.
	DefaultBranch(ctx context.Context) (Branch, error)

	Tags(ctx context.Context) *Iterator[Tag]
	GetTag(ctx context.Context, name string) (Tag, error)

	Releases(ctx context.Context) *Iterator[Release]

	// GetRelease returns the release published for the given tag name.
	GetRelease(ctx context.Context, tagName string) (Release, error)

	PullRequests(ctx context.Context) *Iterator[PullRequest]
	GetPullRequest(ctx context.Context, id int64) (PullRequest, error)

	// MergeBranches merges source into base without a pull request. Both
	// branches must belong to this Repository. Providers lacking a direct
	// branch-merge operation fail with ErrUnsupported.
	MergeBranches(ctx context.Context, base, source Branch) error

	// CreateTag creates an annotated tag named name pointing at target.
	CreateTag(ctx context.Context, name string, target Commit, message string) (Tag, error)

	// CreateRelease publishes a release for an existing tag.
	CreateRelease(ctx context.Context, tag Tag, input ReleaseInput) (Release, error)

	// CreatePullRequest opens a pull request merging source into base.
	CreatePullRequest(ctx context.Context, base, source Branch, input PullRequestInput) (PullRequest, error)

	// SetCommitStatus attaches a status entry to the commit named by sha.
	SetCommitStatus(ctx context.Context, sha string, input CommitStatusInput) error
}
