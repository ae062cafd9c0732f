package model

// Package model defines domain data structures shared across the app: saved
// WebDAV server configurations, remote listing entries, resolved playable
// tracks, and the connection state enum. Structures are designed for direct
// binding in the UI and explicit state transitions.
