package gitlab

import (
	"context"
	"fmt"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/manygit/domain"
)

// Repository implements domain.Repository for a single GitLab project.
type Repository struct {
	client *gl.Client
	pid    string
	meta   *gl.Project
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
	opts := &gl.ListCommitsOptions{ListOptions: gl.ListOptions{PerPage: perPage}}
	return domain.NewIterator(func() ([]domain.Commit, bool, error) {
		commits, resp, err := r.client.Commits.ListCommits(r.pid, opts, gl.WithContext(ctx))
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
	commit, _, err := r.client.Commits.GetCommit(r.pid, sha, nil, gl.WithContext(ctx))
	if err != nil {
		return nil, normalizeError(err)
	}
	return newCommit(r, commit), nil
}

func (r *Repository) Branches(ctx context.Context) *domain.Iterator[domain.Branch] {
	opts := &gl.ListBranchesOptions{ListOptions: gl.ListOptions{PerPage: perPage}}
	return domain.NewIterator(func() ([]domain.Branch, bool, error) {
		branches, resp, err := r.client.Branches.ListBranches(r.pid, opts, gl.WithContext(ctx))
		if err != nil {
			return nil, false, normalizeError(err)
		}

		page := make([]domain.Branch, 0, len(branches))
		for _, branch := range branches {
			page = append(page, newBranch(r, branch))
		}

		if resp.NextPage == 0 {
			return page, false, nil
		}
		opts.Page = resp.NextPage
		return page, true, nil
	})
}

func (r *Repository) GetBranch(ctx context.Context, name string) (domain.Branch, error) {
	branch, _, err := r.client.Branches.GetBranch(r.pid, name, gl.WithContext(ctx))
	if err != nil {
		return nil, normalizeError(err)
	}
	return newBranch(r, branch), nil
}

func (r *Repository) DefaultBranch(ctx context.Context) (domain.Branch, error) {
	return r.GetBranch(ctx, r.meta.DefaultBranch)
}

func (r *Repository) Tags(ctx context.Context) *domain.Iterator[domain.Tag] {
	opts := &gl.ListTagsOptions{ListOptions: gl.ListOptions{PerPage: perPage}}
	return domain.NewIterator(func() ([]domain.Tag, bool, error) {
		tags, resp, err := r.client.Tags.ListTags(r.pid, opts, gl.WithContext(ctx))
		if err != nil {
			return nil, false, normalizeError(err)
		}

		page := make([]domain.Tag, 0, len(tags))
		for _, tag := range tags {
			page = append(page, newTag(r, tag))
		}

		if resp.NextPage == 0 {
			return page, false, nil
		}
		opts.Page = resp.NextPage
		return page, true, nil
	})
}

func (r *Repository) GetTag(ctx context.Context, name string) (domain.Tag, error) {
	tag, _, err := r.client.Tags.GetTag(r.pid, name, gl.WithContext(ctx))
	if err != nil {
		return nil, normalizeError(err)
	}
	return newTag(r, tag), nil
}

func (r *Repository) Releases(ctx context.Context) *domain.Iterator[domain.Release] {
	opts := &gl.ListReleasesOptions{ListOptions: gl.ListOptions{PerPage: perPage}}
	return domain.NewIterator(func() ([]domain.Release, bool, error) {
		releases, resp, err := r.client.Releases.ListReleases(r.pid, opts, gl.WithContext(ctx))
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
	release, _, err := r.client.Releases.GetRelease(r.pid, tagName, gl.WithContext(ctx))
	if err != nil {
		return nil, normalizeError(err)
	}
	return newRelease(r, release), nil
}

func (r *Repository) PullRequests(ctx context.Context) *domain.Iterator[domain.PullRequest] {
	opts := &gl.ListProjectMergeRequestsOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
	}
	return domain.NewIterator(func() ([]domain.PullRequest, bool, error) {
		mrs, resp, err := r.client.MergeRequests.ListProjectMergeRequests(
			r.pid, opts, gl.WithContext(ctx),
		)
		if err != nil {
			return nil, false, normalizeError(err)
		}

		page := make([]domain.PullRequest, 0, len(mrs))
		for _, mr := range mrs {
			page = append(page, &PullRequest{
				repo:   r,
				iid:    mr.IID,
				title:  mr.Title,
				base:   mr.TargetBranch,
				source: mr.SourceBranch,
			})
		}

		if resp.NextPage == 0 {
			return page, false, nil
		}
		opts.Page = resp.NextPage
		return page, true, nil
	})
}

func (r *Repository) GetPullRequest(ctx context.Context, id int64) (domain.PullRequest, error) {
	mr, _, err := r.client.MergeRequests.GetMergeRequest(r.pid, id, nil, gl.WithContext(ctx))
	if err != nil {
		return nil, normalizeError(err)
	}
	return &PullRequest{
		repo:   r,
		iid:    mr.IID,
		title:  mr.Title,
		base:   mr.TargetBranch,
		source: mr.SourceBranch,
	}, nil
}

// MergeBranches is not supported: GitLab has no API for merging branches
// outside of a merge request.
func (r *Repository) MergeBranches(_ context.Context, _, source domain.Branch) error {
	return fmt.Errorf("%w: gitlab cannot merge branch %q without a merge request",
		domain.ErrUnsupported, source.Name())
}

func (r *Repository) CreateTag(
	ctx context.Context,
	name string,
	target domain.Commit,
	message string,
) (domain.Tag, error) {
	tag, _, err := r.client.Tags.CreateTag(r.pid, &gl.CreateTagOptions{
		TagName: gl.Ptr(name),
		Ref:     gl.Ptr(target.SHA()),
		Message: gl.Ptr(message),
	}, gl.WithContext(ctx))
	if err != nil {
		return nil, normalizeError(err)
	}
	return newTag(r, tag), nil
}

// CreateRelease publishes a release for the tag. GitLab has no draft or
// prerelease concept, so those input flags are ignored.
func (r *Repository) CreateRelease(
	ctx context.Context,
	tag domain.Tag,
	input domain.ReleaseInput,
) (domain.Release, error) {
	release, _, err := r.client.Releases.CreateRelease(r.pid, &gl.CreateReleaseOptions{
		Name:        gl.Ptr(input.Name),
		TagName:     gl.Ptr(tag.Name()),
		Description: gl.Ptr(input.Body),
	}, gl.WithContext(ctx))
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
	mr, _, err := r.client.MergeRequests.CreateMergeRequest(r.pid,
		&gl.CreateMergeRequestOptions{
			Title:        gl.Ptr(input.Title),
			Description:  gl.Ptr(input.Body),
			SourceBranch: gl.Ptr(source.Name()),
			TargetBranch: gl.Ptr(base.Name()),
		}, gl.WithContext(ctx))
	if err != nil {
		return nil, normalizeError(err)
	}
	return &PullRequest{
		repo:   r,
		iid:    mr.IID,
		title:  mr.Title,
		base:   mr.TargetBranch,
		source: mr.SourceBranch,
	}, nil
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

	opts := &gl.SetCommitStatusOptions{
		State: state,
		Name:  gl.Ptr(input.Name),
	}
	if input.Data != "" {
		opts.Description = gl.Ptr(input.Data)
	}
	if input.URL != "" {
		opts.TargetURL = gl.Ptr(input.URL)
	}

	_, _, err = r.client.Commits.SetCommitStatus(r.pid, sha, opts, gl.WithContext(ctx))
	if err != nil {
		return normalizeError(err)
	}
	return nil
}

// --- commit ---

// Commit is a GitLab commit handle. Parent IDs come with every commit
// payload, so no separate load step is needed.
type Commit struct {
	repo    *Repository
	sha     string
	parents []string
}

func newCommit(repo *Repository, commit *gl.Commit) *Commit {
	return &Commit{repo: repo, sha: commit.ID, parents: commit.ParentIDs}
}

func (c *Commit) SHA() string { return c.sha }

func (c *Commit) Parents(ctx context.Context) *domain.Iterator[domain.Commit] {
	remaining := append([]string(nil), c.parents...)
	return domain.NewIterator(func() ([]domain.Commit, bool, error) {
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

func (c *Commit) Statuses(ctx context.Context) *domain.Iterator[domain.CommitStatus] {
	opts := &gl.GetCommitStatusesOptions{ListOptions: gl.ListOptions{PerPage: perPage}}
	return domain.NewIterator(func() ([]domain.CommitStatus, bool, error) {
		statuses, resp, err := c.repo.client.Commits.GetCommitStatuses(
			c.repo.pid, c.sha, opts, gl.WithContext(ctx),
		)
		if err != nil {
			return nil, false, normalizeError(err)
		}

		page := make([]domain.CommitStatus, 0, len(statuses))
		for _, status := range statuses {
			state, err := FromVendorState(status.Status)
			if err != nil {
				return nil, false, err
			}
			page = append(page, &CommitStatus{
				name:  status.Name,
				state: state,
				data:  status.Description,
				url:   status.TargetURL,
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

// Branch is a GitLab branch pinned to the head SHA observed at load time.
type Branch struct {
	repo *Repository
	name string
	sha  string
}

func newBranch(repo *Repository, branch *gl.Branch) *Branch {
	sha := ""
	if branch.Commit != nil {
		sha = branch.Commit.ID
	}
	return &Branch{repo: repo, name: branch.Name, sha: sha}
}

func (b *Branch) Name() string { return b.name }

func (b *Branch) Head(ctx context.Context) (domain.Commit, error) {
	return b.repo.GetCommit(ctx, b.sha)
}

// --- tag ---

// Tag is a GitLab tag. The message is part of the tag payload, so lightweight
// tags simply carry an empty annotation.
type Tag struct {
	repo       *Repository
	name       string
	commitSHA  string
	annotation string
}

func newTag(repo *Repository, tag *gl.Tag) *Tag {
	sha := ""
	if tag.Commit != nil {
		sha = tag.Commit.ID
	}
	return &Tag{repo: repo, name: tag.Name, commitSHA: sha, annotation: tag.Message}
}

func (t *Tag) Name() string       { return t.name }
func (t *Tag) Annotation() string { return t.annotation }

func (t *Tag) Commit(ctx context.Context) (domain.Commit, error) {
	return t.repo.GetCommit(ctx, t.commitSHA)
}

// --- release ---

// Release is a GitLab release keyed by its tag name. GitLab releases are
// never drafts or prereleases.
type Release struct {
	repo    *Repository
	tagName string
	name    string
	body    string
}

func newRelease(repo *Repository, release *gl.Release) *Release {
	return &Release{
		repo:    repo,
		tagName: release.TagName,
		name:    release.Name,
		body:    release.Description,
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

func (r *Release) IsDraft() bool      { return false }
func (r *Release) IsPrerelease() bool { return false }

// --- pull request ---

// PullRequest is a GitLab merge request keyed by its project-scoped IID.
type PullRequest struct {
	repo   *Repository
	iid    int64
	title  string
	base   string
	source string
}

func (p *PullRequest) ID() int64     { return p.iid }
func (p *PullRequest) Title() string { return p.title }

func (p *PullRequest) Base(ctx context.Context) (domain.Branch, error) {
	return p.repo.GetBranch(ctx, p.base)
}

func (p *PullRequest) Source(ctx context.Context) (domain.Branch, error) {
	return p.repo.GetBranch(ctx, p.source)
}

func (p *PullRequest) Merge(ctx context.Context) error {
	_, _, err := p.repo.client.MergeRequests.AcceptMergeRequest(
		p.repo.pid, p.iid, nil, gl.WithContext(ctx),
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
