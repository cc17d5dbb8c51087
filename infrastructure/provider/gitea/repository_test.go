package gitea_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/manygit/domain"
	"github.com/rios0rios0/manygit/infrastructure/provider/gitea"
	testdoubles "github.com/rios0rios0/manygit/test"
)

const repoRoot = "/api/v1/repos/gtorg/gtrepo"

func route(r *http.Request) string {
	return r.Method + " " + r.URL.Path
}

// newTestRepository spins up a fake Gitea server and returns a repository
// handle connected to it. The version probe and the repository fetch are
// answered by the wrapper; everything else goes to handler.
func newTestRepository(t *testing.T, handler http.HandlerFunc) domain.Repository {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch route(r) {
		case "GET /api/v1/version":
			fmt.Fprint(w, `{"version": "1.24.0"}`)
		case "GET " + repoRoot:
			fmt.Fprint(w, `{"name": "gtrepo", "full_name": "gtorg/gtrepo", "default_branch": "main"}`)
		default:
			handler(w, r)
		}
	}))
	t.Cleanup(server.Close)

	conn, err := gitea.NewConnection(gitea.AccessTokenCredential{
		Token:     "gta_test",
		ServerURL: server.URL,
	})
	require.NoError(t, err)

	repo, err := conn.GetRepository(context.Background(), "gtorg/gtrepo")
	require.NoError(t, err)
	return repo
}

func TestGiteaRepository(t *testing.T) {
	t.Parallel()

	t.Run("should send the access token with every request", func(t *testing.T) {
		t.Parallel()

		// given
		var authHeader string
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			authHeader = r.Header.Get("Authorization")
			fmt.Fprint(w, `{"name": "main", "commit": {"id": "abc123"}}`)
		})

		// when
		_, err := repo.GetBranch(context.Background(), "main")

		// then
		require.NoError(t, err)
		assert.Equal(t, "token gta_test", authHeader)
	})

	t.Run("should authenticate with basic auth", func(t *testing.T) {
		t.Parallel()

		// given
		var user, pass string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch route(r) {
			case "GET /api/v1/version":
				fmt.Fprint(w, `{"version": "1.24.0"}`)
			case "GET " + repoRoot:
				user, pass, _ = r.BasicAuth()
				fmt.Fprint(w, `{"name": "gtrepo", "full_name": "gtorg/gtrepo", "default_branch": "main"}`)
			default:
				t.Errorf("unexpected request: %s", route(r))
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		t.Cleanup(server.Close)

		conn, err := gitea.NewConnection(gitea.BasicAuthCredential{
			Username:  "octocat",
			Password:  "secret",
			ServerURL: server.URL,
		})
		require.NoError(t, err)

		// when
		_, err = conn.GetRepository(context.Background(), "gtorg/gtrepo")

		// then
		require.NoError(t, err)
		assert.Equal(t, "octocat", user)
		assert.Equal(t, "secret", pass)
	})

	t.Run("should resolve the default branch and its head", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			switch route(r) {
			case "GET " + repoRoot + "/branches/main":
				fmt.Fprint(w, `{"name": "main", "commit": {"id": "abc123"}}`)
			case "GET " + repoRoot + "/git/commits/abc123":
				fmt.Fprint(w, `{"sha": "abc123", "parents": [{"sha": "p1"}]}`)
			default:
				t.Errorf("unexpected request: %s", route(r))
				w.WriteHeader(http.StatusNotFound)
			}
		})

		// when
		branch, err := repo.DefaultBranch(context.Background())
		require.NoError(t, err)
		head, err := branch.Head(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, "main", branch.Name())
		assert.Equal(t, "abc123", head.SHA())
	})

	t.Run("should list commits across pages", func(t *testing.T) {
		t.Parallel()

		// given a total of three commits split over two pages
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Total-Count", "3")
			if r.URL.Query().Get("page") == "2" {
				fmt.Fprint(w, `[{"sha": "c3", "parents": []}]`)
				return
			}
			fmt.Fprint(w, `[{"sha": "c1", "parents": [{"sha": "c0"}]}, {"sha": "c2", "parents": []}]`)
		})

		// when
		commits, err := repo.Commits(context.Background()).Collect()

		// then
		require.NoError(t, err)
		require.Len(t, commits, 3)
		assert.Equal(t, "c1", commits[0].SHA())
		assert.Equal(t, "c3", commits[2].SHA())
	})

	t.Run("should walk commit parents", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			switch route(r) {
			case "GET " + repoRoot + "/git/commits/merge1":
				fmt.Fprint(w, `{"sha": "merge1", "parents": [{"sha": "p1"}, {"sha": "p2"}]}`)
			case "GET " + repoRoot + "/git/commits/p1":
				fmt.Fprint(w, `{"sha": "p1", "parents": []}`)
			case "GET " + repoRoot + "/git/commits/p2":
				fmt.Fprint(w, `{"sha": "p2", "parents": []}`)
			default:
				t.Errorf("unexpected request: %s", route(r))
				w.WriteHeader(http.StatusNotFound)
			}
		})

		commit, err := repo.GetCommit(context.Background(), "merge1")
		require.NoError(t, err)

		// when
		parents, err := commit.Parents(context.Background()).Collect()

		// then
		require.NoError(t, err)
		require.Len(t, parents, 2)
		assert.Equal(t, "p1", parents[0].SHA())
		assert.Equal(t, "p2", parents[1].SHA())
	})

	t.Run("should list annotated and lightweight tags", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			switch route(r) {
			case "GET " + repoRoot + "/tags":
				fmt.Fprint(w, `[
					{"name": "v1.0.0", "message": "This is the tag message.",
					 "commit": {"sha": "commit1"}},
					{"name": "v0.9.0", "message": "", "commit": {"sha": "c9"}}
				]`)
			case "GET " + repoRoot + "/git/commits/commit1":
				fmt.Fprint(w, `{"sha": "commit1", "parents": []}`)
			default:
				t.Errorf("unexpected request: %s", route(r))
				w.WriteHeader(http.StatusNotFound)
			}
		})

		// when
		tags, err := repo.Tags(context.Background()).Collect()

		// then
		require.NoError(t, err)
		require.Len(t, tags, 2)
		assert.Equal(t, "v1.0.0", tags[0].Name())
		assert.Equal(t, "This is the tag message.", tags[0].Annotation())
		assert.Empty(t, tags[1].Annotation())

		commit, err := tags[0].Commit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "commit1", commit.SHA())
	})

	t.Run("should get a single tag", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			switch route(r) {
			case "GET " + repoRoot + "/tags/v1.0.0":
				fmt.Fprint(w, `{"name": "v1.0.0", "message": "This is the tag message.",
					"commit": {"sha": "commit1"}}`)
			default:
				t.Errorf("unexpected request: %s", route(r))
				w.WriteHeader(http.StatusNotFound)
			}
		})

		// when
		tag, err := repo.GetTag(context.Background(), "v1.0.0")

		// then
		require.NoError(t, err)
		assert.Equal(t, "v1.0.0", tag.Name())
		assert.Equal(t, "This is the tag message.", tag.Annotation())
	})

	t.Run("should create a tag", func(t *testing.T) {
		t.Parallel()

		// given
		var tagBody map[string]any
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			switch route(r) {
			case "POST " + repoRoot + "/tags":
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&tagBody))
				fmt.Fprint(w, `{"name": "v2.0.0", "message": "Version 2.0.0.",
					"commit": {"sha": "target1"}}`)
			default:
				t.Errorf("unexpected request: %s", route(r))
				w.WriteHeader(http.StatusNotFound)
			}
		})
		target := &testdoubles.StubCommit{SHAValue: "target1"}

		// when
		tag, err := repo.CreateTag(context.Background(), "v2.0.0", target, "Version 2.0.0.")

		// then
		require.NoError(t, err)
		assert.Equal(t, "v2.0.0", tagBody["tag_name"])
		assert.Equal(t, "target1", tagBody["target"])
		assert.Equal(t, "Version 2.0.0.", tagBody["message"])
		assert.Equal(t, "v2.0.0", tag.Name())
	})

	t.Run("should list, get and create releases", func(t *testing.T) {
		t.Parallel()

		// given
		const releaseJSON = `{"tag_name": "v1.0.0", "name": "First", "body": "notes",
			"draft": true, "prerelease": false}`
		var createBody map[string]any
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			switch route(r) {
			case "GET " + repoRoot + "/releases":
				fmt.Fprint(w, `[`+releaseJSON+`]`)
			case "GET " + repoRoot + "/releases/tags/v1.0.0":
				fmt.Fprint(w, releaseJSON)
			case "POST " + repoRoot + "/releases":
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&createBody))
				fmt.Fprint(w, `{"tag_name": "v2.0.0", "name": "Second", "body": "more",
					"draft": false, "prerelease": true}`)
			default:
				t.Errorf("unexpected request: %s", route(r))
				w.WriteHeader(http.StatusNotFound)
			}
		})

		// when listing
		releases, err := repo.Releases(context.Background()).Collect()

		// then
		require.NoError(t, err)
		require.Len(t, releases, 1)
		assert.Equal(t, "First", releases[0].Name())
		assert.Equal(t, "notes", releases[0].Body())
		assert.True(t, releases[0].IsDraft())
		assert.False(t, releases[0].IsPrerelease())

		// when getting by tag
		release, err := repo.GetRelease(context.Background(), "v1.0.0")

		// then
		require.NoError(t, err)
		assert.Equal(t, "First", release.Name())

		// when creating
		created, err := repo.CreateRelease(context.Background(),
			&testdoubles.StubTag{TagName: "v2.0.0"},
			domain.ReleaseInput{Name: "Second", Body: "more", Prerelease: true})

		// then
		require.NoError(t, err)
		assert.Equal(t, "Second", created.Name())
		assert.True(t, created.IsPrerelease())
		assert.Equal(t, "v2.0.0", createBody["tag_name"])
		assert.Equal(t, "Second", createBody["name"])
		assert.Equal(t, "more", createBody["body"])
		assert.Equal(t, false, createBody["draft"])
		assert.Equal(t, true, createBody["prerelease"])
	})

	t.Run("should list, get, create and merge pull requests", func(t *testing.T) {
		t.Parallel()

		// given
		const pullJSON = `{"number": 7, "title": "Add feature",
			"base": {"ref": "main"}, "head": {"ref": "feature"}}`
		var createBody, mergeBody map[string]any
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			switch route(r) {
			case "GET " + repoRoot + "/pulls":
				fmt.Fprint(w, `[`+pullJSON+`]`)
			case "GET " + repoRoot + "/pulls/7":
				fmt.Fprint(w, pullJSON)
			case "POST " + repoRoot + "/pulls":
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&createBody))
				fmt.Fprint(w, `{"number": 8, "title": "Add docs",
					"base": {"ref": "main"}, "head": {"ref": "docs"}}`)
			case "POST " + repoRoot + "/pulls/7/merge":
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&mergeBody))
				fmt.Fprint(w, `{}`)
			case "GET " + repoRoot + "/branches/main":
				fmt.Fprint(w, `{"name": "main", "commit": {"id": "abc123"}}`)
			case "GET " + repoRoot + "/branches/docs":
				fmt.Fprint(w, `{"name": "docs", "commit": {"id": "d0c5"}}`)
			default:
				t.Errorf("unexpected request: %s", route(r))
				w.WriteHeader(http.StatusNotFound)
			}
		})

		// when listing
		pulls, err := repo.PullRequests(context.Background()).Collect()

		// then
		require.NoError(t, err)
		require.Len(t, pulls, 1)
		assert.Equal(t, int64(7), pulls[0].ID())
		assert.Equal(t, "Add feature", pulls[0].Title())

		// when getting one and walking its base branch
		pull, err := repo.GetPullRequest(context.Background(), 7)
		require.NoError(t, err)
		base, err := pull.Base(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "main", base.Name())

		// when creating
		baseBranch, err := repo.GetBranch(context.Background(), "main")
		require.NoError(t, err)
		sourceBranch, err := repo.GetBranch(context.Background(), "docs")
		require.NoError(t, err)
		created, err := repo.CreatePullRequest(context.Background(), baseBranch, sourceBranch,
			domain.PullRequestInput{Title: "Add docs", Body: "docs body"})

		// then
		require.NoError(t, err)
		assert.Equal(t, int64(8), created.ID())
		assert.Equal(t, "Add docs", createBody["title"])
		assert.Equal(t, "docs body", createBody["body"])
		assert.Equal(t, "docs", createBody["head"])
		assert.Equal(t, "main", createBody["base"])

		// when merging
		err = pull.Merge(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, "merge", mergeBody["Do"])
	})

	t.Run("should report branch merging as unsupported", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected request: %s", route(r))
			w.WriteHeader(http.StatusNotFound)
		})

		// when
		err := repo.MergeBranches(context.Background(),
			&testdoubles.StubBranch{BranchName: "main"},
			&testdoubles.StubBranch{BranchName: "feature"})

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnsupported)
		assert.ErrorIs(t, err, domain.ErrManygit)
	})

	t.Run("should set a commit status", func(t *testing.T) {
		t.Parallel()

		// given
		var statusBody map[string]any
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			switch route(r) {
			case "POST " + repoRoot + "/statuses/abc123":
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&statusBody))
				fmt.Fprint(w, `{"context": "ci/test", "status": "failure"}`)
			default:
				t.Errorf("unexpected request: %s", route(r))
				w.WriteHeader(http.StatusNotFound)
			}
		})

		// when
		err := repo.SetCommitStatus(context.Background(), "abc123", domain.CommitStatusInput{
			State: domain.StatusFailed,
			Name:  "ci/test",
			Data:  "Build failed",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "failure", statusBody["state"])
		assert.Equal(t, "ci/test", statusBody["context"])
		assert.Equal(t, "Build failed", statusBody["description"])
	})

	t.Run("should list commit statuses with translated states", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			switch route(r) {
			case "GET " + repoRoot + "/git/commits/abc123":
				fmt.Fprint(w, `{"sha": "abc123", "parents": []}`)
			case "GET " + repoRoot + "/commits/abc123/statuses":
				fmt.Fprint(w, `[
					{"context": "ci/build", "status": "success",
					 "description": "ok", "target_url": "https://ci.example.com/1"},
					{"context": "ci/lint", "status": "warning"}
				]`)
			default:
				t.Errorf("unexpected request: %s", route(r))
				w.WriteHeader(http.StatusNotFound)
			}
		})

		commit, err := repo.GetCommit(context.Background(), "abc123")
		require.NoError(t, err)

		// when
		statuses, err := commit.Statuses(context.Background()).Collect()

		// then
		require.NoError(t, err)
		require.Len(t, statuses, 2)
		assert.Equal(t, "ci/build", statuses[0].Name())
		assert.Equal(t, domain.StatusSuccess, statuses[0].State())
		assert.Equal(t, "https://ci.example.com/1", statuses[0].URL())
		assert.Equal(t, domain.StatusFailed, statuses[1].State())
	})

	t.Run("should fail loudly on an unknown vendor status", func(t *testing.T) {
		t.Parallel()

		// given
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			switch route(r) {
			case "GET " + repoRoot + "/git/commits/abc123":
				fmt.Fprint(w, `{"sha": "abc123", "parents": []}`)
			case "GET " + repoRoot + "/commits/abc123/statuses":
				fmt.Fprint(w, `[{"context": "ci/build", "status": "scheduled"}]`)
			default:
				t.Errorf("unexpected request: %s", route(r))
				w.WriteHeader(http.StatusNotFound)
			}
		})

		commit, err := repo.GetCommit(context.Background(), "abc123")
		require.NoError(t, err)

		// when
		_, err = commit.Statuses(context.Background()).Collect()

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrManygit)
		assert.Contains(t, err.Error(), "scheduled")
	})

	t.Run("should normalize a missing repository into not found", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if route(r) == "GET /api/v1/version" {
				fmt.Fprint(w, `{"version": "1.24.0"}`)
				return
			}
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "The target couldn't be found."}`)
		}))
		t.Cleanup(server.Close)

		conn, err := gitea.NewConnection(gitea.AccessTokenCredential{
			Token:     "gta_test",
			ServerURL: server.URL,
		})
		require.NoError(t, err)

		// when
		repo, err := conn.GetRepository(context.Background(), "gtorg/missing")

		// then
		require.Error(t, err)
		assert.Nil(t, repo)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, err, domain.ErrManygit)
	})
}
