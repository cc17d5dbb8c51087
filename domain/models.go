package domain

// CommitStatusInput contains the data needed to attach a status to a commit.
type CommitStatusInput struct {
	State StatusState
	Name  string
	Data  string // Optional free-text description
	URL   string // Optional details link
}

// ReleaseInput contains the data needed to create a release from a tag.
type ReleaseInput struct {
	Name       string
	Body       string
	Prerelease bool
	Draft      bool
}

// PullRequestInput contains the data needed to open a pull/merge request.
type PullRequestInput struct {
	Title string
	Body  string
}
