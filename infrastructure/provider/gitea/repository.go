package gitea

import (
	"context"
	"fmt"
	"strconv"

	gt "code.gitea.io/sdk/gitea"

	"github.com/rios0rios0/manygit/domain"
)

// Repository implements domain.Repository for a single Gitea repository.
type Repository struct {
	conn  *Connection
	owner string
	name  string
	meta  *gt.Repository
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

// morePages reports whether the X-Total-Count header promises results beyond
// the fetched count. Gitea listing endpoints expose their totals this way.
func morePages(resp *gt.Response, fetched int) bool {
	if resp == nil || resp.Response == nil {
		return false
	}
	total, err := strconv.Atoi(resp.Header.Get("X-Total-Count"))
	if err != nil {
		return false
	}
	return fetched < total
}

func (r *Repository) Commits(ctx context.Context) *domain.Iterator[domain.Commit] {
	opts := gt.ListCommitOptions{ListOptions: gt.ListOptions{Page: 1, PageSize: perPage}}
	fetched := 0
	return domain.NewIterator(func() ([]domain.Commit, bool, error) {
		var (
			commits []*gt.Commit
			resp    *gt.Response
		)
		err := r.conn.withContext(ctx, func(client *gt.Client) error {
			var err error
			commits, resp, err = client.ListRepoCommits(r.owner, r.name, opts)
			return err
		})
		if err != nil {
			return nil, false, normalizeError(resp, err)
		}

		fetched += len(commits)
		page := make([]domain.Commit, 0, len(commits))
		for _, commit := range commits {
			page = append(page, newCommit(r, commit))
		}

		if !morePages(resp, fetched) {
			return page, false, nil
		}
		opts.Page++
		return page, true, nil
	})
}

func (r *Repository) GetCommit(ctx context.Context, sha string) (domain.Commit, error) {
	var (
		commit *gt.Commit
		resp   *gt.Response
	)
	err := r.conn.withContext(ctx, func(client *gt.Client) error {
		var err error
		commit, resp, err = client.GetSingleCommit(r.owner, r.name, sha)
		return err
	})
	if err != nil {
		return nil, normalizeError(resp, err)
	}
	return newCommit(r, commit), nil
}

func (r *Repository) Branches(ctx context.Context) *domain.Iterator[domain.Branch] {
	opts := gt.ListRepoBranchesOptions{ListOptions: gt.ListOptions{Page: 1, PageSize: perPage}}
	fetched := 0
	return domain.NewIterator(func() ([]domain.Branch, bool, error) {
		var (
			branches []*gt.Branch
			resp     *gt.Response
		)
		err := r.conn.withContext(ctx, func(client *gt.Client) error {
			var err error
			branches, resp, err = client.ListRepoBranches(r.owner, r.name, opts)
			return err
		})
		if err != nil {
			return nil, false, normalizeError(resp, err)
		}

		fetched += len(branches)
		page := make([]domain.Branch, 0, len(branches))
		for _, branch := range branches {
			page = append(page, newBranch(r, branch))
		}

		if !morePages(resp, fetched) {
			return page, false, nil
		}
		opts.Page++
		return page, true, nil
	})
}

func (r *Repository) GetBranch(ctx context.Context, name string) (domain.Branch, error) {
	var (
		branch *gt.Branch
		resp   *gt.Response
	)
	err := r.conn.withContext(ctx, func(client *gt.Client) error {
		var err error
		branch, resp, err = client.GetRepoBranch(r.owner, r.name, name)
		return err
	})
	if err != nil {
		return nil, normalizeError(resp, err)
	}
	return newBranch(r, branch), nil
}

func (r *Repository) DefaultBranch(ctx context.Context) (domain.Branch, error) {
	return r.GetBranch(ctx, r.meta.DefaultBranch)
}

func (r *Repository) Tags(ctx context.Context) *domain.Iterator[domain.Tag] {
	opts := gt.ListRepoTagsOptions{ListOptions: gt.ListOptions{Page: 1, PageSize: perPage}}
	fetched := 0
	return domain.NewIterator(func() ([]domain.Tag, bool, error) {
		var (
			tags []*gt.Tag
			resp *gt.Response
		)
		err := r.conn.withContext(ctx, func(client *gt.Client) error {
			var err error
			tags, resp, err = client.ListRepoTags(r.owner, r.name, opts)
			return err
		})
		if err != nil {
			return nil, false, normalizeError(resp, err)
		}

		fetched += len(tags)
		page := make([]domain.Tag, 0, len(tags))
		for _, tag := range tags {
			page = append(page, newTag(r, tag))
		}

		if !morePages(resp, fetched) {
			return page, false, nil
		}
		opts.Page++
		return page, true, nil
	})
}

func (r *Repository) GetTag(ctx context.Context, name string) (domain.Tag, error) {
	var (
		tag  *gt.Tag
		resp *gt.Response
	)
	err := r.conn.withContext(ctx, func(client *gt.Client) error {
		var err error
		tag, resp, err = client.GetTag(r.owner, r.name, name)
		return err
	})
	if err != nil {
		return nil, normalizeError(resp, err)
	}
	return newTag(r, tag), nil
}

func (r *Repository) Releases(ctx context.Context) *domain.Iterator[domain.Release] {
	opts := gt.ListReleasesOptions{ListOptions: gt.ListOptions{Page: 1, PageSize: perPage}}
	fetched := 0
	return domain.NewIterator(func() ([]domain.Release, bool, error) {
		var (
			releases []*gt.Release
			resp     *gt.Response
		)
		err := r.conn.withContext(ctx, func(client *gt.Client) error {
			var err error
			releases, resp, err = client.ListReleases(r.owner, r.name, opts)
			return err
		})
		if err != nil {
			return nil, false, normalizeError(resp, err)
		}

		fetched += len(releases)
		page := make([]domain.Release, 0, len(releases))
		for _, release := range releases {
			page = append(page, newRelease(r, release))
		}

		if !morePages(resp, fetched) {
			return page, false, nil
		}
		opts.Page++
		return page, true, nil
	})
}

func (r *Repository) GetRelease(ctx context.Context, tagName string) (domain.Release, error) {
	var (
		release *gt.Release
		resp    *gt.Response
	)
	err := r.conn.withContext(ctx, func(client *gt.Client) error {
		var err error
		release, resp, err = client.GetReleaseByTag(r.owner, r.name, tagName)
		return err
	})
	if err != nil {
		return nil, normalizeError(resp, err)
	}
	return newRelease(r, release), nil
}

func (r *Repository) PullRequests(ctx context.Context) *domain.Iterator[domain.PullRequest] {
	opts := gt.ListPullRequestsOptions{
		ListOptions: gt.ListOptions{Page: 1, PageSize: perPage},
		State:       gt.StateAll,
	}
	fetched := 0
	return domain.NewIterator(func() ([]domain.PullRequest, bool, error) {
		var (
			pulls []*gt.PullRequest
			resp  *gt.Response
		)
		err := r.conn.withContext(ctx, func(client *gt.Client) error {
			var err error
			pulls, resp, err = client.ListRepoPullRequests(r.owner, r.name, opts)
			return err
		})
		if err != nil {
			return nil, false, normalizeError(resp, err)
		}

		fetched += len(pulls)
		page := make([]domain.PullRequest, 0, len(pulls))
		for _, pull := range pulls {
			page = append(page, newPullRequest(r, pull))
		}

		if !morePages(resp, fetched) {
			return page, false, nil
		}
		opts.Page++
		return page, true, nil
	})
}

func (r *Repository) GetPullRequest(ctx context.Context, id int64) (domain.PullRequest, error) {
	var (
		pull *gt.PullRequest
		resp *gt.Response
	)
	err := r.conn.withContext(ctx, func(client *gt.Client) error {
		var err error
		pull, resp, err = client.GetPullRequest(r.owner, r.name, id)
		return err
	})
	if err != nil {
		return nil, normalizeError(resp, err)
	}
	return newPullRequest(r, pull), nil
}

// MergeBranches is not supported: the Gitea API only merges through pull
// requests.
func (r *Repository) MergeBranches(_ context.Context, _, source domain.Branch) error {
	return fmt.Errorf("%w: gitea cannot merge branch %q without a pull request",
		domain.ErrUnsupported, source.Name())
}

func (r *Repository) CreateTag(
	ctx context.Context,
	name string,
	target domain.Commit,
	message string,
) (domain.Tag, error) {
	var (
		tag  *gt.Tag
		resp *gt.Response
	)
	err := r.conn.withContext(ctx, func(client *gt.Client) error {
		var err error
		tag, resp, err = client.CreateTag(r.owner, r.name, gt.CreateTagOption{
			TagName: name,
			Message: message,
			Target:  target.SHA(),
		})
		return err
	})
	if err != nil {
		return nil, normalizeError(resp, err)
	}
	return newTag(r, tag), nil
}

func (r *Repository) CreateRelease(
	ctx context.Context,
	tag domain.Tag,
	input domain.ReleaseInput,
) (domain.Release, error) {
	var (
		release *gt.Release
		resp    *gt.Response
	)
	err := r.conn.withContext(ctx, func(client *gt.Client) error {
		var err error
		release, resp, err = client.CreateRelease(r.owner, r.name, gt.CreateReleaseOption{
			TagName:      tag.Name(),
			Title:        input.Name,
			Note:         input.Body,
			IsDraft:      input.Draft,
			IsPrerelease: input.Prerelease,
		})
		return err
	})
	if err != nil {
		return nil, normalizeError(resp, err)
	}
	return newRelease(r, release), nil
}

func (r *Repository) CreatePullRequest(
	ctx context.Context,
	base, source domain.Branch,
	input domain.PullRequestInput,
) (domain.PullRequest, error) {
	var (
		pull *gt.PullRequest
		resp *gt.Response
	)
	err := r.conn.withContext(ctx, func(client *gt.Client) error {
		var err error
		pull, resp, err = client.CreatePullRequest(r.owner, r.name, gt.CreatePullRequestOption{
			Head:  source.Name(),
			Base:  base.Name(),
			Title: input.Title,
			Body:  input.Body,
		})
		return err
	})
	if err != nil {
		return nil, normalizeError(resp, err)
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

	var resp *gt.Response
	err = r.conn.withContext(ctx, func(client *gt.Client) error {
		var err error
		_, resp, err = client.CreateStatus(r.owner, r.name, sha, gt.CreateStatusOption{
			State:       state,
			Context:     input.Name,
			Description: input.Data,
			TargetURL:   input.URL,
		})
		return err
	})
	if err != nil {
		return normalizeError(resp, err)
	}
	return nil
}

// --- commit ---

// Commit is a Gitea commit handle. Parent SHAs come with every commit
// payload, so no separate load step is needed.
type Commit struct {
	repo    *Repository
	sha     string
	parents []string
}

func newCommit(repo *Repository, commit *gt.Commit) *Commit {
	sha := ""
	if commit.CommitMeta != nil {
		sha = commit.SHA
	}
	parents := make([]string, 0, len(commit.Parents))
	for _, parent := range commit.Parents {
		if parent != nil {
			parents = append(parents, parent.SHA)
		}
	}
	return &Commit{repo: repo, sha: sha, parents: parents}
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
	opts := gt.ListStatusesOption{ListOptions: gt.ListOptions{Page: 1, PageSize: perPage}}
	fetched := 0
	return domain.NewIterator(func() ([]domain.CommitStatus, bool, error) {
		var (
			statuses []*gt.Status
			resp     *gt.Response
		)
		err := c.repo.conn.withContext(ctx, func(client *gt.Client) error {
			var err error
			statuses, resp, err = client.ListStatuses(c.repo.owner, c.repo.name, c.sha, opts)
			return err
		})
		if err != nil {
			return nil, false, normalizeError(resp, err)
		}

		fetched += len(statuses)
		page := make([]domain.CommitStatus, 0, len(statuses))
		for _, status := range statuses {
			state, err := FromVendorState(status.State)
			if err != nil {
				return nil, false, err
			}
			page = append(page, &CommitStatus{
				name:  status.Context,
				state: state,
				data:  status.Description,
				url:   status.TargetURL,
			})
		}

		if !morePages(resp, fetched) {
			return page, false, nil
		}
		opts.Page++
		return page, true, nil
	})
}

func (c *Commit) SetStatus(ctx context.Context, input domain.CommitStatusInput) error {
	return c.repo.SetCommitStatus(ctx, c.sha, input)
}

// --- branch ---

// Branch is a Gitea branch pinned to the head SHA observed at load time.
type Branch struct {
	repo *Repository
	name string
	sha  string
}

func newBranch(repo *Repository, branch *gt.Branch) *Branch {
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

// Tag is a Gitea tag. The message is part of the tag payload, so lightweight
// tags simply carry an empty annotation.
type Tag struct {
	repo       *Repository
	name       string
	commitSHA  string
	annotation string
}

func newTag(repo *Repository, tag *gt.Tag) *Tag {
	sha := ""
	if tag.Commit != nil {
		sha = tag.Commit.SHA
	}
	return &Tag{repo: repo, name: tag.Name, commitSHA: sha, annotation: tag.Message}
}

func (t *Tag) Name() string       { return t.name }
func (t *Tag) Annotation() string { return t.annotation }

func (t *Tag) Commit(ctx context.Context) (domain.Commit, error) {
	return t.repo.GetCommit(ctx, t.commitSHA)
}

// --- release ---

// Release is a Gitea release keyed by its tag name.
type Release struct {
	repo       *Repository
	tagName    string
	name       string
	body       string
	draft      bool
	prerelease bool
}

func newRelease(repo *Repository, release *gt.Release) *Release {
	return &Release{
		repo:       repo,
		tagName:    release.TagName,
		name:       release.Title,
		body:       release.Note,
		draft:      release.IsDraft,
		prerelease: release.IsPrerelease,
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

// PullRequest is a Gitea pull request keyed by its repository-scoped index.
type PullRequest struct {
	repo   *Repository
	index  int64
	title  string
	base   string
	source string
}

func newPullRequest(repo *Repository, pull *gt.PullRequest) *PullRequest {
	base, source := "", ""
	if pull.Base != nil {
		base = pull.Base.Ref
	}
	if pull.Head != nil {
		source = pull.Head.Ref
	}
	return &PullRequest{
		repo:   repo,
		index:  pull.Index,
		title:  pull.Title,
		base:   base,
		source: source,
	}
}

func (p *PullRequest) ID() int64     { return p.index }
func (p *PullRequest) Title() string { return p.title }

func (p *PullRequest) Base(ctx context.Context) (domain.Branch, error) {
	return p.repo.GetBranch(ctx, p.base)
}

func (p *PullRequest) Source(ctx context.Context) (domain.Branch, error) {
	return p.repo.GetBranch(ctx, p.source)
}

func (p *PullRequest) Merge(ctx context.Context) error {
	var (
		merged bool
		resp   *gt.Response
	)
	err := p.repo.conn.withContext(ctx, func(client *gt.Client) error {
		var err error
		merged, resp, err = client.MergePullRequest(p.repo.owner, p.repo.name, p.index,
			gt.MergePullRequestOption{Style: gt.MergeStyleMerge})
		return err
	})
	if err != nil {
		return normalizeError(resp, err)
	}
	if !merged {
		return fmt.Errorf("%w: pull request %d was not merged", domain.ErrVCS, p.index)
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
