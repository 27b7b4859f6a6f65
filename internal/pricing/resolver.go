package pricing

import (
    "time"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// Resolve selects the winning rate plan for a single night of a stay.
// Candidates must all belong to the same room type; the caller supplies
// the total stay length so plans with a higher minimum stay can be
// skipped in favour of the next-best candidate.
//
// Selection order among plans that are active, cover the date (validity
// window plus optional day-of-week restriction) and whose minimum stay
// is satisfied:
//
//  1. highest priority wins;
//  2. on a priority tie, a plan with a day-of-week restriction beats an
//     unrestricted one (more specific wins);
//  3. on a remaining tie, the smallest id wins, keeping resolution
//     deterministic under overlapping operator-defined plans.
//
// When no dated plan survives, the room type's active default plan is
// used if present and itself eligible; otherwise ErrNotApplicable is
// returned.  A multi-night stay must call Resolve once per night: a
// weekend plan and a standard plan can both win inside one stay.
func Resolve(date time.Time, plans []model.RatePlan, stayNights int) (*model.RatePlan, error) {
    var best *model.RatePlan
    for i := range plans {
        p := &plans[i]
        if !p.IsActive || p.IsDefault {
            continue
        }
        if p.MinStayNights > stayNights {
            continue
        }
        if !p.CoversDate(date) {
            continue
        }
        if beats(p, best) {
            best = p
        }
    }
    if best != nil {
        return best, nil
    }
    // Fall back to the default plan. At most one active default exists
    // per room type; tolerate duplicates by lowest id anyway.
    var def *model.RatePlan
    for i := range plans {
        p := &plans[i]
        if !p.IsActive || !p.IsDefault {
            continue
        }
        if p.MinStayNights > stayNights {
            continue
        }
        if def == nil || p.ID < def.ID {
            def = p
        }
    }
    if def == nil {
        return nil, ErrNotApplicable
    }
    return def, nil
}

// beats reports whether plan a should replace the current best b.
func beats(a, b *model.RatePlan) bool {
    if b == nil {
        return true
    }
    if a.Priority != b.Priority {
        return a.Priority > b.Priority
    }
    aRestricted := a.DaysOfWeek != nil
    bRestricted := b.DaysOfWeek != nil
    if aRestricted != bRestricted {
        return aRestricted
    }
    return a.ID < b.ID
}
