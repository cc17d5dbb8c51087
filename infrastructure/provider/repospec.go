package provider

import "strings"

// MatchRepoSpec reports whether a repository specification refers to the given
// host and, when it does, returns the normalized "owner/name" path.
//
// Accepted forms for host "github.com":
//
//	https://github.com/owner/name
//	https://github.com/owner/name.git
//	ssh://github.com/owner/name
//	git@github.com:owner/name.git
//	github.com/owner/name
//	owner/name
//
// The bare shorthand is only accepted when it contains no colon and exactly
// two path segments, so SSH specs for other hosts never match.
func MatchRepoSpec(spec, host string) (bool, string) {
	spec = strings.TrimPrefix(spec, "https://")
	spec = strings.TrimPrefix(spec, "ssh://")
	spec = strings.TrimSuffix(spec, ".git")

	if rest, ok := strings.CutPrefix(spec, "git@"+host+":"); ok {
		return true, rest
	}
	if rest, ok := strings.CutPrefix(spec, host); ok {
		return true, strings.TrimPrefix(rest, "/")
	}
	if !strings.Contains(spec, ":") && strings.Count(spec, "/") == 1 {
		return true, spec
	}
	return false, ""
}

// NormalizeHost reduces a server URL to its bare hostname for repo-spec
// matching: the scheme and everything from the first slash are dropped.
// "https://git.example.com/" becomes "git.example.com".
func NormalizeHost(raw string) string {
	raw = strings.TrimPrefix(raw, "https://")
	raw = strings.TrimPrefix(raw, "http://")
	raw = strings.TrimPrefix(raw, "ssh://")
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
