package pkiobject

import "time"

// nowFunc is overridable in tests; production code always uses time.Now.
var nowFunc = time.Now

// Time is a thin wrapper over a monotonic wall-clock instant (component
// G), the Go stand-in for the source's PRTime-bearing NSSTime.
type Time struct {
	t time.Time
}

// Now returns a Time set to the current instant.
func Now() Time {
	return Time{t: nowFunc()}
}

// At returns a Time wrapping t, for callers that already have one (tests,
// deterministic replays).
func At(t time.Time) Time {
	return Time{t: t}
}

// Value returns the wrapped time.Time.
func (v Time) Value() time.Time { return v.t }

// Before reports whether v is strictly before o.
func (v Time) Before(o Time) bool { return v.t.Before(o.t) }

// After reports whether v is strictly after o.
func (v Time) After(o Time) bool { return v.t.After(o.t) }
