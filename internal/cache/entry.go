package cache

// Entry is the stored value of one timestamp record
type Entry struct {
	// Timestamp is the unix time embedded in versioned file names.
	// Zero marks an entry invalidated for a rebuild.
	Timestamp int64 `json:"timestamp"`
}
