package platform

// Package platform contains OS/platform integration: per-platform cache
// directory resolution and filesystem helpers.
