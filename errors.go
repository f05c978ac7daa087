package gshapes

import "errors"

// ErrNoFont wraps failures to fetch or parse the font of a text entry.
var ErrNoFont = errors.New("gshapes: font unavailable")

// ResourceError is an asynchronous catalog entry that failed to load.
// No node is created for it and the rest of the scene is unaffected.
type ResourceError struct {
	Name string
	Err  error
}

func (e *ResourceError) Error() string {
	return "load " + e.Name + ": " + e.Err.Error()
}

func (e *ResourceError) Unwrap() error { return e.Err }
