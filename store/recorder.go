package store

// Recorder observes store activity. Implementations live in the metrics
// package; the store only calls them.
type Recorder interface {
	// Accepted is called after a value is stored under key.
	Accepted(schema, key string)
	// Rejected is called when a write to key is refused.
	Rejected(schema, key string, reason Reason)
	// Saved is called after SaveTo wrote n entries.
	Saved(schema string, n int)
	// Restored is called after RestoreFrom; failed reports whether the
	// restore was refused as a whole.
	Restored(schema string, n int, failed bool)
}

type nopRecorder struct{}

func (nopRecorder) Accepted(string, string)         {}
func (nopRecorder) Rejected(string, string, Reason) {}
func (nopRecorder) Saved(string, int)               {}
func (nopRecorder) Restored(string, int, bool)      {}
