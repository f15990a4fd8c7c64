package domain

// Domain contains core models shared by the watch pipeline.

// Finding is a single credential exposure extracted from an API response.
// Raw keeps the untouched record so sinks can forward fields the pipeline
// does not model.
type Finding struct {
	ID       string
	LeakID   int64
	Username string
	Origin   string
	Raw      map[string]any
}
