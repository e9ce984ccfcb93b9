package git

// Classify exports classify for testing.
var Classify = classify //nolint:gochecknoglobals // test export
