package model

import (
    "strings"
    "time"
)

// Weekdays is a set of days of the week stored as a bitmask.  Bit 0
// corresponds to Sunday, matching time.Weekday numbering.  A rate plan
// with a nil restriction applies to every day; an empty mask would match
// nothing and is rejected at the boundary.
type Weekdays uint8

// Has reports whether the given weekday is included in the set.
func (w Weekdays) Has(d time.Weekday) bool { return w&(1<<uint(d)) != 0 }

// Add returns the set with the given weekday included.
func (w Weekdays) Add(d time.Weekday) Weekdays { return w | 1<<uint(d) }

var weekdayNames = map[string]time.Weekday{
    "SUN": time.Sunday, "MON": time.Monday, "TUE": time.Tuesday, "WED": time.Wednesday,
    "THU": time.Thursday, "FRI": time.Friday, "SAT": time.Saturday,
}

// ParseWeekdays parses a comma-separated list of three-letter day codes
// (e.g. "FRI,SAT") as stored in the rate_plans.days_of_week column.  An
// empty string yields nil, meaning no restriction.
func ParseWeekdays(s string) (*Weekdays, bool) {
    s = strings.TrimSpace(s)
    if s == "" {
        return nil, true
    }
    var w Weekdays
    for _, p := range strings.Split(s, ",") {
        d, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(p))]
        if !ok {
            return nil, false
        }
        w = w.Add(d)
    }
    return &w, true
}

// String renders the set back to the comma-separated column format in
// Sunday-first order.
func (w Weekdays) String() string {
    order := []struct {
        d time.Weekday
        n string
    }{
        {time.Sunday, "SUN"}, {time.Monday, "MON"}, {time.Tuesday, "TUE"}, {time.Wednesday, "WED"},
        {time.Thursday, "THU"}, {time.Friday, "FRI"}, {time.Saturday, "SAT"},
    }
    parts := make([]string, 0, 7)
    for _, o := range order {
        if w.Has(o.d) {
            parts = append(parts, o.n)
        }
    }
    return strings.Join(parts, ",")
}

// RatePlan is a pricing rule for a room type.  Several active plans may
// overlap in dates and days; per-night resolution picks a single winner
// by priority and specificity.  Prices are integer minor currency units.
//
// Fields:
//  ID               – primary key identifier.
//  HotelID          – hotel owning the room type (denormalized for
//                     ownership checks on bulk updates).
//  RoomTypeID       – room type this plan prices.
//  Name             – operator-facing label.
//  NightlyRateCents – price per night in cents.
//  ValidFrom        – first date (inclusive) the plan applies.
//  ValidTo          – last date (inclusive) the plan applies.
//  DaysOfWeek       – optional day-of-week restriction; nil means all days.
//  Priority         – higher wins during resolution.
//  MinStayNights    – minimum stay length for the plan to be eligible.
//  IsDefault        – fallback plan used when no dated plan matches.
//  IsActive         – inactive plans are ignored by resolution.
type RatePlan struct {
    ID               uint64    // rate_plans.id
    HotelID          uint64    // hotels.id via room_types join
    RoomTypeID       uint64    // rate_plans.room_type_id
    Name             string    // rate_plans.name
    NightlyRateCents int64     // rate_plans.nightly_rate_cents
    ValidFrom        time.Time // rate_plans.valid_from (DATE)
    ValidTo          time.Time // rate_plans.valid_to (DATE)
    DaysOfWeek       *Weekdays // rate_plans.days_of_week (nullable)
    Priority         int       // rate_plans.priority
    MinStayNights    int       // rate_plans.min_stay_nights
    IsDefault        bool      // rate_plans.is_default
    IsActive         bool      // rate_plans.is_active
    CreatedAt        time.Time // rate_plans.created_at
    UpdatedAt        time.Time // rate_plans.updated_at
}

// CoversDate reports whether the date falls inside [ValidFrom, ValidTo]
// and, when a day-of-week restriction is present, whether the date's
// weekday is permitted.  The comparison is done on calendar dates in UTC.
func (p *RatePlan) CoversDate(d time.Time) bool {
    day := DateOnly(d)
    if day.Before(DateOnly(p.ValidFrom)) || day.After(DateOnly(p.ValidTo)) {
        return false
    }
    if p.DaysOfWeek != nil && !p.DaysOfWeek.Has(day.Weekday()) {
        return false
    }
    return true
}

// DateOnly truncates a timestamp to its UTC calendar date.  All nightly
// pricing arithmetic operates on these midnight-aligned values.
func DateOnly(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
