// Package pricing implements per-night rate-plan resolution, itemized
// quote calculation and bulk rate-plan updates.  All money values are
// integers in minor currency units; percentage steps round half-up and
// only at aggregate boundaries, never per night.
package pricing

import (
    "errors"
    "fmt"
)

// ErrNotApplicable is returned by Resolve when no candidate plan covers
// the requested date and no active default exists for the room type.
var ErrNotApplicable = errors.New("no rate plan applicable")

// ErrNoRateAvailable is returned by the calculator when at least one
// night of the stay cannot be resolved.  No partial quotes are produced.
var ErrNoRateAvailable = errors.New("no rate available for stay")

// ValidationError reports malformed caller input (bad dates, guest
// counts, empty bulk batches).  It is rejected before any store write
// and is never retried.
type ValidationError struct {
    Field   string
    Message string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// AsValidation returns the *ValidationError wrapped in err, or nil.
func AsValidation(err error) *ValidationError {
    var ve *ValidationError
    if errors.As(err, &ve) {
        return ve
    }
    return nil
}
