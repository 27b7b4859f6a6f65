package model

import (
    "testing"
    "time"
)

func TestParseWeekdays(t *testing.T) {
    w, ok := ParseWeekdays("FRI,SAT")
    if !ok || w == nil {
        t.Fatal("expected FRI,SAT to parse")
    }
    if !w.Has(time.Friday) || !w.Has(time.Saturday) || w.Has(time.Sunday) {
        t.Fatalf("mask = %b", *w)
    }
    if w.String() != "FRI,SAT" {
        t.Fatalf("String() = %q, want FRI,SAT", w.String())
    }

    if w, ok := ParseWeekdays(""); !ok || w != nil {
        t.Fatal("empty string must yield nil restriction")
    }
    if w, ok := ParseWeekdays(" mon , wed "); !ok || w == nil || !w.Has(time.Monday) || !w.Has(time.Wednesday) {
        t.Fatal("case and whitespace must be tolerated")
    }
    if _, ok := ParseWeekdays("FRI,XYZ"); ok {
        t.Fatal("unknown day code must be rejected")
    }
}

func TestCoversDate(t *testing.T) {
    days, _ := ParseWeekdays("FRI")
    p := RatePlan{
        ValidFrom:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
        ValidTo:    time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
        DaysOfWeek: days,
    }
    friday := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
    if !p.CoversDate(friday) {
        t.Fatal("in-window Friday must be covered")
    }
    if p.CoversDate(friday.AddDate(0, 0, 1)) {
        t.Fatal("Saturday must be excluded by the FRI restriction")
    }
    if p.CoversDate(time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)) {
        t.Fatal("dates past ValidTo must be excluded")
    }
    // Boundary days are inclusive.
    p.DaysOfWeek = nil
    if !p.CoversDate(p.ValidFrom) || !p.CoversDate(p.ValidTo) {
        t.Fatal("ValidFrom and ValidTo are inclusive")
    }
}

func TestDateOnly(t *testing.T) {
    loc := time.FixedZone("UTC+5", 5*3600)
    in := time.Date(2026, 9, 5, 2, 30, 0, 0, loc) // 2026-09-04T21:30Z
    got := DateOnly(in)
    want := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("DateOnly = %v, want %v", got, want)
    }
}
