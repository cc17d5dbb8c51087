package gitlab

// NormalizeError exports normalizeError for testing.
var NormalizeError = normalizeError //nolint:gochecknoglobals // test export
