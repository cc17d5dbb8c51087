package config

// Test exports for the unexported resolution helpers.
//
//nolint:gochecknoglobals // test exports
var (
	ResolveToken = resolveToken
	Validate     = validate
)
