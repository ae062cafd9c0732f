package remote

// Package remote manages the single authenticated WebDAV session: connection
// lifecycle with liveness probing, startup recovery, bounded directory
// listing, and the advisory classification of transport failures into the
// short messages the UI shows.
