// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations, no mock frameworks.
package testdoubles

import (
	"context"
	"fmt"

	"github.com/rios0rios0/manygit/domain"
)

// ---------------------------------------------------------------------------
// StubCredential
// ---------------------------------------------------------------------------

// StubCredential is a credential with a configurable type key, for registry
// and manager tests that do not care about a concrete provider.
type StubCredential struct {
	Type string
}

var _ domain.Credential = StubCredential{}

func (c StubCredential) CredentialType() string { return c.Type }

// ---------------------------------------------------------------------------
// SpyConnection
// ---------------------------------------------------------------------------

// SpyConnection implements domain.Connection as a configurable spy.
// Configure the response fields for the methods your test exercises,
// then inspect the call-tracking fields to verify behavior.
type SpyConnection struct {
	// --- IsEligibleRepo ---
	AcceptAll  bool
	Normalized string            // returned when AcceptAll matches
	Eligible   map[string]string // spec -> normalized, consulted before AcceptAll
	// spy: specs that were checked
	CheckedSpecs []string

	// --- GetRepository ---
	Repository domain.Repository
	GetRepoErr error
	// spy: normalized specs that were fetched
	FetchedSpecs []string
}

var _ domain.Connection = (*SpyConnection)(nil)

func (c *SpyConnection) IsEligibleRepo(spec string) (bool, string) {
	c.CheckedSpecs = append(c.CheckedSpecs, spec)
	if c.Eligible != nil {
		if normalized, ok := c.Eligible[spec]; ok {
			return true, normalized
		}
	}
	if c.AcceptAll {
		if c.Normalized != "" {
			return true, c.Normalized
		}
		return true, spec
	}
	return false, ""
}

func (c *SpyConnection) GetRepository(
	_ context.Context,
	spec string,
) (domain.Repository, error) {
	c.FetchedSpecs = append(c.FetchedSpecs, spec)
	if c.GetRepoErr != nil {
		return nil, c.GetRepoErr
	}
	if c.Repository != nil {
		return c.Repository, nil
	}
	return nil, fmt.Errorf("no repository configured for %s", spec)
}

// ---------------------------------------------------------------------------
// StubRepository
// ---------------------------------------------------------------------------

// StubRepository is a minimal domain.Repository whose identity tests compare
// by pointer. Configure the fields your test needs; everything else returns
// empty sequences or the configured error.
type StubRepository struct {
	BranchesList []domain.Branch
	Err          error

	// spy: merge calls received as [base, source] name pairs
	MergeCalls [][2]string
}

var _ domain.Repository = (*StubRepository)(nil)

func (r *StubRepository) Commits(_ context.Context) *domain.Iterator[domain.Commit] {
	return domain.SliceIterator[domain.Commit](nil)
}

func (r *StubRepository) GetCommit(_ context.Context, sha string) (domain.Commit, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return &StubCommit{SHAValue: sha}, nil
}

func (r *StubRepository) Branches(_ context.Context) *domain.Iterator[domain.Branch] {
	return domain.SliceIterator(r.BranchesList)
}

func (r *StubRepository) GetBranch(_ context.Context, name string) (domain.Branch, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	for _, b := range r.BranchesList {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: branch %q", domain.ErrNotFound, name)
}

func (r *StubRepository) DefaultBranch(_ context.Context) (domain.Branch, error) {
	if len(r.BranchesList) == 0 {
		return nil, fmt.Errorf("%w: no branches configured", domain.ErrNotFound)
	}
	return r.BranchesList[0], nil
}

func (r *StubRepository) Tags(_ context.Context) *domain.Iterator[domain.Tag] {
	return domain.SliceIterator[domain.Tag](nil)
}

func (r *StubRepository) GetTag(_ context.Context, name string) (domain.Tag, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return nil, fmt.Errorf("%w: tag %q", domain.ErrNotFound, name)
}

func (r *StubRepository) Releases(_ context.Context) *domain.Iterator[domain.Release] {
	return domain.SliceIterator[domain.Release](nil)
}

func (r *StubRepository) GetRelease(_ context.Context, tagName string) (domain.Release, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return nil, fmt.Errorf("%w: release for tag %q", domain.ErrNotFound, tagName)
}

func (r *StubRepository) PullRequests(_ context.Context) *domain.Iterator[domain.PullRequest] {
	return domain.SliceIterator[domain.PullRequest](nil)
}

func (r *StubRepository) GetPullRequest(_ context.Context, id int64) (domain.PullRequest, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return nil, fmt.Errorf("%w: pull request %d", domain.ErrNotFound, id)
}

func (r *StubRepository) MergeBranches(_ context.Context, base, source domain.Branch) error {
	r.MergeCalls = append(r.MergeCalls, [2]string{base.Name(), source.Name()})
	return r.Err
}

func (r *StubRepository) CreateTag(
	_ context.Context,
	name string,
	target domain.Commit,
	message string,
) (domain.Tag, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return &StubTag{TagName: name, Message: message, SHA: target.SHA()}, nil
}

func (r *StubRepository) CreateRelease(
	_ context.Context,
	tag domain.Tag,
	input domain.ReleaseInput,
) (domain.Release, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return &StubRelease{ReleaseName: input.Name, ReleaseBody: input.Body}, nil
}

func (r *StubRepository) CreatePullRequest(
	_ context.Context,
	_, _ domain.Branch,
	input domain.PullRequestInput,
) (domain.PullRequest, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return &StubPullRequest{Number: 1, PRTitle: input.Title}, nil
}

func (r *StubRepository) SetCommitStatus(
	_ context.Context,
	_ string,
	_ domain.CommitStatusInput,
) error {
	return r.Err
}

// ---------------------------------------------------------------------------
// Child entity stubs
// ---------------------------------------------------------------------------

// StubCommit is a commit with a fixed SHA and optional parents.
type StubCommit struct {
	SHAValue   string
	ParentSHAs []string
	StatusList []domain.CommitStatus

	// spy: status inputs received
	StatusInputs []domain.CommitStatusInput
}

var _ domain.Commit = (*StubCommit)(nil)

func (c *StubCommit) SHA() string { return c.SHAValue }

func (c *StubCommit) Parents(_ context.Context) *domain.Iterator[domain.Commit] {
	parents := make([]domain.Commit, 0, len(c.ParentSHAs))
	for _, sha := range c.ParentSHAs {
		parents = append(parents, &StubCommit{SHAValue: sha})
	}
	return domain.SliceIterator(parents)
}

func (c *StubCommit) Statuses(_ context.Context) *domain.Iterator[domain.CommitStatus] {
	return domain.SliceIterator(c.StatusList)
}

func (c *StubCommit) SetStatus(_ context.Context, input domain.CommitStatusInput) error {
	c.StatusInputs = append(c.StatusInputs, input)
	return nil
}

// StubBranch is a branch with a fixed name and head commit.
type StubBranch struct {
	BranchName string
	HeadCommit domain.Commit
}

var _ domain.Branch = (*StubBranch)(nil)

func (b *StubBranch) Name() string { return b.BranchName }

func (b *StubBranch) Head(_ context.Context) (domain.Commit, error) {
	if b.HeadCommit != nil {
		return b.HeadCommit, nil
	}
	return &StubCommit{SHAValue: "0000000000000000000000000000000000000000"}, nil
}

// StubTag is a tag with fixed name, message and commit SHA.
type StubTag struct {
	TagName string
	Message string
	SHA     string
}

var _ domain.Tag = (*StubTag)(nil)

func (t *StubTag) Name() string       { return t.TagName }
func (t *StubTag) Annotation() string { return t.Message }

func (t *StubTag) Commit(_ context.Context) (domain.Commit, error) {
	return &StubCommit{SHAValue: t.SHA}, nil
}

// StubRelease is a release with fixed name and body.
type StubRelease struct {
	ReleaseName string
	ReleaseBody string
	TagValue    domain.Tag
	Draft       bool
	Prerelease  bool
}

var _ domain.Release = (*StubRelease)(nil)

func (r *StubRelease) Name() string { return r.ReleaseName }
func (r *StubRelease) Body() string { return r.ReleaseBody }

func (r *StubRelease) Tag(_ context.Context) (domain.Tag, error) {
	if r.TagValue != nil {
		return r.TagValue, nil
	}
	return nil, fmt.Errorf("%w: no tag configured", domain.ErrNotFound)
}

func (r *StubRelease) Commit(ctx context.Context) (domain.Commit, error) {
	tag, err := r.Tag(ctx)
	if err != nil {
		return nil, err
	}
	return tag.Commit(ctx)
}

func (r *StubRelease) IsDraft() bool      { return r.Draft }
func (r *StubRelease) IsPrerelease() bool { return r.Prerelease }

// StubPullRequest is a pull request with fixed number, title and branches.
type StubPullRequest struct {
	Number       int64
	PRTitle      string
	BaseBranch   domain.Branch
	SourceBranch domain.Branch
	MergeErr     error

	// spy: number of Merge calls received
	MergeCalls int
}

var _ domain.PullRequest = (*StubPullRequest)(nil)

func (p *StubPullRequest) ID() int64     { return p.Number }
func (p *StubPullRequest) Title() string { return p.PRTitle }

func (p *StubPullRequest) Base(_ context.Context) (domain.Branch, error) {
	if p.BaseBranch != nil {
		return p.BaseBranch, nil
	}
	return &StubBranch{BranchName: "main"}, nil
}

func (p *StubPullRequest) Source(_ context.Context) (domain.Branch, error) {
	if p.SourceBranch != nil {
		return p.SourceBranch, nil
	}
	return &StubBranch{BranchName: "feature"}, nil
}

func (p *StubPullRequest) Merge(_ context.Context) error {
	p.MergeCalls++
	return p.MergeErr
}

// ---------------------------------------------------------------------------
// DummyConnection
// ---------------------------------------------------------------------------

// DummyConnection is a no-op implementation of domain.Connection.
// Use it only for interface compliance tests or as a placeholder.
type DummyConnection struct{}

var _ domain.Connection = (*DummyConnection)(nil)

func (d *DummyConnection) IsEligibleRepo(_ string) (bool, string) { return false, "" }

func (d *DummyConnection) GetRepository(
	_ context.Context,
	_ string,
) (domain.Repository, error) {
	return nil, nil //nolint:nilnil // dummy no-op
}
