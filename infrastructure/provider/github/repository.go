package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v66/github"

	"github.com/rios0rios0/manygit/domain"
)

// Repository implements domain.Repository for a single GitHub repository.
type Repository struct {
	client *gh.Client
	owner  string
	name   string
	meta   *gh.Repository
}

var (
	_ domain.Repository   = (*Repository)(nil)
	_ domain.Commit       = (*Commit)(nil)
	_ domain.Branch       = (*Branch)(nil)
	_ domain.Tag          = (*Tag)(nil)
	_ domain.Release      = (*Release)(nil)
	_ domain.PullRequest  = (*PullRequest)(nil)
	_ domain.CommitStatus = (*CommitStatus)(nil)
)

func (r *Repository) Commits(ctx context.Context) *domain.Iterator[domain.Commit] {
	opts := &gh.CommitsListOptions{ListOptions: gh.ListOptions{PerPage: perPage}}
	return domain.NewIterator(func() ([]domain.Commit, bool, error) {
		commits, resp, err := r.client.Repositories.ListCommits(ctx, r.owner, r.name, opts)
		if err != nil {
			return nil, false, normalizeError(err)
		}

		page := make([]domain.Commit, 0, len(commits))
		for _, commit := range commits {
			page = append(page, newCommit(r, commit))
		}

		if resp.NextPage == 0 {
			return page, false, nil
		}
		opts.Page = resp.NextPage
		return page, true, nil
	})
}

func (r *Repository) GetCommit(ctx context.Context, sha string) (domain.Commit, error) {
	commit, _, err := r.client.Repositories.GetCommit(ctx, r.owner, r.name, sha, nil)
	if err != nil {
		return nil, normalizeError(err)
	}
	return newCommit(r, commit), nil
}

func (r *Repository) Branches(ctx context.Context) *domain.Iterator[domain.Branch] {
	opts := &gh.BranchListOptions{ListOptions: gh.ListOptions{PerPage: perPage}}
	return domain.NewIterator(func() ([]domain.Branch, bool, error) {
		branches, resp, err := r.client.Repositories.ListBranches(ctx, r.owner, r.name, opts)
		if err != nil {
			return nil, false, normalizeError(err)
		}

		page := make([]domain.Branch, 0, len(branches))
		for _, branch := range branches {
			page = append(page, &Branch{
				repo: r,
				name: branch.GetName(),
				sha:  branch.GetCommit().GetSHA(),
			})
		}

		if resp.NextPage == 0 {
			return page, false, nil
		}
		opts.Page = resp.NextPage
		return page, true, nil
	})
}

func (r *Repository) GetBranch(ctx context.Context, name string) (domain.Branch, error) {
	branch, _, err := r.client.Repositories.GetBranch(ctx, r.owner, r.name, name, 0)
	if err != nil {
		return nil, normalizeError(err)
	}
	return &Branch{repo: r, name: branch.GetName(), sha: branch.GetCommit().GetSHA()}, nil
}

func (r *Repository) DefaultBranch(ctx context.Context) (domain.Branch, error) {
	return r.GetBranch(ctx, r.meta.GetDefaultBranch())
}

func (r *Repository) Tags(ctx context.Context) *domain.Iterator[domain.Tag] {
	opts := &gh.ListOptions{PerPage: perPage}
	return domain.NewIterator(func() ([]domain.Tag, bool, error) {
		tags, resp, err := r.client.Repositories.ListTags(ctx, r.owner, r.name, opts)
		if err != nil {
			return nil, false, normalizeError(err)
		}

		page := make([]domain.Tag, 0, len(tags))
		for _, tag := range tags {
			resolved, err := r.resolveTag(ctx, tag.GetName())
			if err != nil {
				return nil, false, err
			}
			page = append(page, resolved)
		}

		if resp.NextPage == 0 {
			return page, false, nil
		}
		opts.Page = resp.NextPage
		return page, true, nil
	})
}

func (r *Repository) GetTag(ctx context.Context, name string) (domain.Tag, error) {
	return r.resolveTag(ctx, name)
}

// resolveTag loads a tag through its git ref so annotated and lightweight
// tags both come back with the right commit and annotation.
func (r *Repository) resolveTag(ctx context.Context, name string) (*Tag, error) {
	ref, _, err := r.client.Git.GetRef(ctx, r.owner, r.name, "tags/"+name)
	if err != nil {
		return nil, normalizeError(err)
	}

	if ref.GetObject().GetType() == "tag" {
		tag, _, err := r.client.Git.GetTag(ctx, r.owner, r.name, ref.GetObject().GetSHA())
		if err != nil {
			return nil, normalizeError(err)
		}
		return &Tag{
			repo:       r,
			name:       name,
			commitSHA:  tag.GetObject().GetSHA(),
			annotation: tag.GetMessage(),
		}, nil
	}

	// lightweight tag: the ref points straight at the commit
	return &Tag{repo: r, name: name, commitSHA: ref.GetObject().GetSHA()}, nil
}

func (r *Repository) Releases(ctx context.Context) *domain.Iterator[domain.Release] {
	opts := &gh.ListOptions{PerPage: perPage}
	return domain.NewIterator(func() ([]domain.Release, bool, error) {
		releases, resp, err := r.client.Repositories.ListReleases(ctx, r.owner, r.name, opts)
		if err != nil {
			return nil, false, normalizeError(err)
		}

		page := make([]domain.Release, 0, len(releases))
		for _, release := range releases {
			page = append(page, newRelease(r, release))
		}

		if resp.NextPage == 0 {
			return page, false, nil
		}
		opts.Page = resp.NextPage
		return page, true, nil
	})
}

func (r *Repository) GetRelease(ctx context.Context, tagName string) (domain.Release, error) {
	release, _, err := r.client.Repositories.GetReleaseByTag(ctx, r.owner, r.name, tagName)
	if err != nil {
		return nil, normalizeError(err)
	}
	return newRelease(r, release), nil
}

func (r *Repository) PullRequests(ctx context.Context) *domain.Iterator[domain.PullRequest] {
	opts := &gh.PullRequestListOptions{
		State:       "all",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}
	return domain.NewIterator(func() ([]domain.PullRequest, bool, error) {
		pulls, resp, err := r.client.PullRequests.List(ctx, r.owner, r.name, opts)
		if err != nil {
			return nil, false, normalizeError(err)
		}

		page := make([]domain.PullRequest, 0, len(pulls))
		for _, pull := range pulls {
			page = append(page, newPullRequest(r, pull))
		}

		if resp.NextPage == 0 {
			return page, false, nil
		}
		opts.Page = resp.NextPage
		return page, true, nil
	})
}

func (r *Repository) GetPullRequest(ctx context.Context, id int64) (domain.PullRequest, error) {
	pull, _, err := r.client.PullRequests.Get(ctx, r.owner, r.name, int(id))
	if err != nil {
		return nil, normalizeError(err)
	}
	return newPullRequest(r, pull), nil
}

// MergeBranches merges source into base. Both branches must have been
// obtained from this repository.
func (r *Repository) MergeBranches(ctx context.Context, base, source domain.Branch) error {
	baseBranch, err := r.ownBranch(base)
	if err != nil {
		return err
	}
	sourceBranch, err := r.ownBranch(source)
	if err != nil {
		return err
	}

	_, _, err = r.client.Repositories.Merge(ctx, r.owner, r.name, &gh.RepositoryMergeRequest{
		Base: gh.String(baseBranch.name),
		Head: gh.String(sourceBranch.name),
	})
	if err != nil {
		return normalizeError(err)
	}
	return nil
}

func (r *Repository) ownBranch(branch domain.Branch) (*Branch, error) {
	own, ok := branch.(*Branch)
	if !ok || own.repo != r {
		return nil, fmt.Errorf("%w: branch %q does not belong to this repository",
			domain.ErrManygit, branch.Name())
	}
	return own, nil
}

// CreateTag creates an annotated tag object on target plus the ref pointing
// at it.
func (r *Repository) CreateTag(
	ctx context.Context,
	name string,
	target domain.Commit,
	message string,
) (domain.Tag, error) {
	tag, _, err := r.client.Git.CreateTag(ctx, r.owner, r.name, &gh.Tag{
		Tag:     gh.String(name),
		Message: gh.String(message),
		Object:  &gh.GitObject{SHA: gh.String(target.SHA()), Type: gh.String("commit")},
	})
	if err != nil {
		return nil, normalizeError(err)
	}

	_, _, err = r.client.Git.CreateRef(ctx, r.owner, r.name, &gh.Reference{
		Ref:    gh.String("refs/tags/" + name),
		Object: &gh.GitObject{SHA: tag.SHA},
	})
	if err != nil {
		return nil, normalizeError(err)
	}

	return &Tag{repo: r, name: name, commitSHA: target.SHA(), annotation: message}, nil
}

func (r *Repository) CreateRelease(
	ctx context.Context,
	tag domain.Tag,
	input domain.ReleaseInput,
) (domain.Release, error) {
	release, _, err := r.client.Repositories.CreateRelease(ctx, r.owner, r.name,
		&gh.RepositoryRelease{
			TagName:    gh.String(tag.Name()),
			Name:       gh.String(input.Name),
			Body:       gh.String(input.Body),
			Draft:      gh.Bool(input.Draft),
			Prerelease: gh.Bool(input.Prerelease),
		})
	if err != nil {
		return nil, normalizeError(err)
	}
	return newRelease(r, release), nil
}

func (r *Repository) CreatePullRequest(
	ctx context.Context,
	base, source domain.Branch,
	input domain.PullRequestInput,
) (domain.PullRequest, error) {
	pull, _, err := r.client.PullRequests.Create(ctx, r.owner, r.name, &gh.NewPullRequest{
		Title: gh.String(input.Title),
		Body:  gh.String(input.Body),
		Base:  gh.String(base.Name()),
		Head:  gh.String(source.Name()),
	})
	if err != nil {
		return nil, normalizeError(err)
	}
	return newPullRequest(r, pull), nil
}

func (r *Repository) SetCommitStatus(
	ctx context.Context,
	sha string,
	input domain.CommitStatusInput,
) error {
	state, err := ToVendorState(input.State)
	if err != nil {
		return err
	}

	status := &gh.RepoStatus{
		State:   gh.String(state),
		Context: gh.String(input.Name),
	}
	if input.Data != "" {
		status.Description = gh.String(input.Data)
	}
	if input.URL != "" {
		status.TargetURL = gh.String(input.URL)
	}

	_, _, err = r.client.Repositories.CreateStatus(ctx, r.owner, r.name, sha, status)
	if err != nil {
		return normalizeError(err)
	}
	return nil
}

// --- commit ---

// Commit is a GitHub commit handle. Parent SHAs captured at load time are
// reused; otherwise they are fetched on first traversal.
type Commit struct {
	repo          *Repository
	sha           string
	parents       []string
	parentsLoaded bool
}

func newCommit(repo *Repository, commit *gh.RepositoryCommit) *Commit {
	parents := make([]string, 0, len(commit.Parents))
	for _, parent := range commit.Parents {
		parents = append(parents, parent.GetSHA())
	}
	return &Commit{repo: repo, sha: commit.GetSHA(), parents: parents, parentsLoaded: true}
}

func (c *Commit) SHA() string { return c.sha }

func (c *Commit) Parents(ctx context.Context) *domain.Iterator[domain.Commit] {
	var remaining []string
	loaded := false
	return domain.NewIterator(func() ([]domain.Commit, bool, error) {
		if !loaded {
			shas, err := c.parentSHAs(ctx)
			if err != nil {
				return nil, false, err
			}
			remaining = append([]string(nil), shas...)
			loaded = true
		}
		if len(remaining) == 0 {
			return nil, false, nil
		}

		sha := remaining[0]
		remaining = remaining[1:]
		parent, err := c.repo.GetCommit(ctx, sha)
		if err != nil {
			return nil, false, err
		}
		return []domain.Commit{parent}, len(remaining) > 0, nil
	})
}

func (c *Commit) parentSHAs(ctx context.Context) ([]string, error) {
	if c.parentsLoaded {
		return c.parents, nil
	}

	full, _, err := c.repo.client.Repositories.GetCommit(
		ctx, c.repo.owner, c.repo.name, c.sha, nil,
	)
	if err != nil {
		return nil, normalizeError(err)
	}

	c.parents = make([]string, 0, len(full.Parents))
	for _, parent := range full.Parents {
		c.parents = append(c.parents, parent.GetSHA())
	}
	c.parentsLoaded = true
	return c.parents, nil
}

func (c *Commit) Statuses(ctx context.Context) *domain.Iterator[domain.CommitStatus] {
	opts := &gh.ListOptions{PerPage: perPage}
	return domain.NewIterator(func() ([]domain.CommitStatus, bool, error) {
		statuses, resp, err := c.repo.client.Repositories.ListStatuses(
			ctx, c.repo.owner, c.repo.name, c.sha, opts,
		)
		if err != nil {
			return nil, false, normalizeError(err)
		}

		page := make([]domain.CommitStatus, 0, len(statuses))
		for _, status := range statuses {
			state, err := FromVendorState(status.GetState())
			if err != nil {
				return nil, false, err
			}
			page = append(page, &CommitStatus{
				name:  status.GetContext(),
				state: state,
				data:  status.GetDescription(),
				url:   status.GetTargetURL(),
			})
		}

		if resp.NextPage == 0 {
			return page, false, nil
		}
		opts.Page = resp.NextPage
		return page, true, nil
	})
}

func (c *Commit) SetStatus(ctx context.Context, input domain.CommitStatusInput) error {
	return c.repo.SetCommitStatus(ctx, c.sha, input)
}

// --- branch ---

// Branch is a GitHub branch pinned to the head SHA observed at load time.
type Branch struct {
	repo *Repository
	name string
	sha  string
}

func (b *Branch) Name() string { return b.name }

func (b *Branch) Head(_ context.Context) (domain.Commit, error) {
	return &Commit{repo: b.repo, sha: b.sha}, nil
}

// --- tag ---

// Tag is a GitHub tag. Annotation is empty for lightweight tags.
type Tag struct {
	repo       *Repository
	name       string
	commitSHA  string
	annotation string
}

func (t *Tag) Name() string       { return t.name }
func (t *Tag) Annotation() string { return t.annotation }

func (t *Tag) Commit(ctx context.Context) (domain.Commit, error) {
	return t.repo.GetCommit(ctx, t.commitSHA)
}

// --- release ---

// Release is a GitHub release keyed by its tag name.
type Release struct {
	repo       *Repository
	tagName    string
	name       string
	body       string
	draft      bool
	prerelease bool
}

func newRelease(repo *Repository, release *gh.RepositoryRelease) *Release {
	return &Release{
		repo:       repo,
		tagName:    release.GetTagName(),
		name:       release.GetName(),
		body:       release.GetBody(),
		draft:      release.GetDraft(),
		prerelease: release.GetPrerelease(),
	}
}

func (r *Release) Name() string { return r.name }
func (r *Release) Body() string { return r.body }

func (r *Release) Tag(ctx context.Context) (domain.Tag, error) {
	return r.repo.GetTag(ctx, r.tagName)
}

func (r *Release) Commit(ctx context.Context) (domain.Commit, error) {
	tag, err := r.Tag(ctx)
	if err != nil {
		return nil, err
	}
	return tag.Commit(ctx)
}

func (r *Release) IsDraft() bool      { return r.draft }
func (r *Release) IsPrerelease() bool { return r.prerelease }

// --- pull request ---

// PullRequest is a GitHub pull request keyed by number.
type PullRequest struct {
	repo   *Repository
	number int
	title  string
	base   string
	source string
}

func newPullRequest(repo *Repository, pull *gh.PullRequest) *PullRequest {
	return &PullRequest{
		repo:   repo,
		number: pull.GetNumber(),
		title:  pull.GetTitle(),
		base:   pull.GetBase().GetRef(),
		source: pull.GetHead().GetRef(),
	}
}

func (p *PullRequest) ID() int64     { return int64(p.number) }
func (p *PullRequest) Title() string { return p.title }

func (p *PullRequest) Base(ctx context.Context) (domain.Branch, error) {
	return p.repo.GetBranch(ctx, p.base)
}

func (p *PullRequest) Source(ctx context.Context) (domain.Branch, error) {
	return p.repo.GetBranch(ctx, p.source)
}

func (p *PullRequest) Merge(ctx context.Context) error {
	_, _, err := p.repo.client.PullRequests.Merge(
		ctx, p.repo.owner, p.repo.name, p.number, "", nil,
	)
	if err != nil {
		return normalizeError(err)
	}
	return nil
}

// --- commit status ---

// CommitStatus is an immutable snapshot of one status check on a commit.
type CommitStatus struct {
	name  string
	state domain.StatusState
	data  string
	url   string
}

func (s *CommitStatus) Name() string              { return s.name }
func (s *CommitStatus) State() domain.StatusState { return s.state }
func (s *CommitStatus) Data() string              { return s.data }
func (s *CommitStatus) URL() string               { return s.url }
