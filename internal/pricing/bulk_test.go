package pricing

import (
    "context"
    "testing"
    "time"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
)

// memBulkStore is an in-memory BulkStore keyed by plan id.
type memBulkStore struct {
    plans map[uint64]*model.RatePlan
}

func newMemBulkStore(plans ...model.RatePlan) *memBulkStore {
    s := &memBulkStore{plans: make(map[uint64]*model.RatePlan)}
    for i := range plans {
        p := plans[i]
        s.plans[p.ID] = &p
    }
    return s
}

func (s *memBulkStore) PlanByID(_ context.Context, id uint64) (*model.RatePlan, error) {
    p, ok := s.plans[id]
    if !ok {
        return nil, repository.ErrNotFound
    }
    cp := *p
    return &cp, nil
}

func (s *memBulkStore) UpdatePlanPricing(_ context.Context, id uint64, nightlyRateCents int64, validFrom, validTo time.Time) error {
    p, ok := s.plans[id]
    if !ok {
        return repository.ErrNotFound
    }
    p.NightlyRateCents = nightlyRateCents
    p.ValidFrom = validFrom
    p.ValidTo = validTo
    return nil
}

func ownedPlan(id, hotelID uint64) model.RatePlan {
    p := plan(id, 10000, 0, nil)
    p.HotelID = hotelID
    return p
}

func bulkWindow() (time.Time, time.Time) {
    return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
        time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)
}

func TestBulkApplyPartialSuccess(t *testing.T) {
    store := newMemBulkStore(ownedPlan(1, 5), ownedPlan(3, 5))
    u := NewBulkUpdater(store)
    start, end := bulkWindow()

    res, err := u.Apply(context.Background(), BulkRequest{
        HotelID:   5,
        StartDate: start,
        EndDate:   end,
        Items: []BulkItem{
            {RatePlanID: 1, NewPriceCents: 12000},
            {RatePlanID: 2, NewPriceCents: 13000}, // does not exist
            {RatePlanID: 3, NewPriceCents: 14000},
        },
    })
    if err != nil {
        t.Fatalf("Apply: %v", err)
    }
    if res.UpdatedCount != 2 {
        t.Fatalf("updated = %d, want 2", res.UpdatedCount)
    }
    if len(res.Results) != 3 {
        t.Fatalf("results = %d entries, want 3", len(res.Results))
    }
    if len(res.Errors) != 1 || res.Errors[0].RatePlanID != 2 || res.Errors[0].Error != "rate plan not found" {
        t.Fatalf("errors = %+v, want one not-found entry for plan 2", res.Errors)
    }
    got, _ := store.PlanByID(context.Background(), 1)
    if got.NightlyRateCents != 12000 || !got.ValidFrom.Equal(start) || !got.ValidTo.Equal(end) {
        t.Fatalf("plan 1 after apply = %+v", got)
    }
    got, _ = store.PlanByID(context.Background(), 3)
    if got.NightlyRateCents != 14000 {
        t.Fatalf("plan 3 price = %d, want 14000", got.NightlyRateCents)
    }
}

func TestBulkApplyRejectsForeignPlan(t *testing.T) {
    store := newMemBulkStore(ownedPlan(1, 5), ownedPlan(2, 9))
    u := NewBulkUpdater(store)
    start, end := bulkWindow()

    res, err := u.Apply(context.Background(), BulkRequest{
        HotelID:   5,
        StartDate: start,
        EndDate:   end,
        Items: []BulkItem{
            {RatePlanID: 1, NewPriceCents: 12000},
            {RatePlanID: 2, NewPriceCents: 12000},
        },
    })
    if err != nil {
        t.Fatalf("Apply: %v", err)
    }
    if res.UpdatedCount != 1 {
        t.Fatalf("updated = %d, want 1", res.UpdatedCount)
    }
    if len(res.Errors) != 1 || res.Errors[0].Error != "forbidden" {
        t.Fatalf("errors = %+v, want a forbidden entry", res.Errors)
    }
    foreign, _ := store.PlanByID(context.Background(), 2)
    if foreign.NightlyRateCents != 10000 {
        t.Fatalf("foreign plan was modified: %+v", foreign)
    }
}

func TestBulkApplyRejectsNonPositivePrice(t *testing.T) {
    store := newMemBulkStore(ownedPlan(1, 5))
    u := NewBulkUpdater(store)
    start, end := bulkWindow()

    res, err := u.Apply(context.Background(), BulkRequest{
        HotelID:   5,
        StartDate: start,
        EndDate:   end,
        Items:     []BulkItem{{RatePlanID: 1, NewPriceCents: 0}},
    })
    if err != nil {
        t.Fatalf("Apply: %v", err)
    }
    if res.UpdatedCount != 0 || len(res.Errors) != 1 || res.Errors[0].Error != "price must be positive" {
        t.Fatalf("result = %+v, want one price error", res)
    }
}

func TestBulkApplyStructuralValidation(t *testing.T) {
    u := NewBulkUpdater(newMemBulkStore(ownedPlan(1, 5)))
    start, end := bulkWindow()

    if _, err := u.Apply(context.Background(), BulkRequest{HotelID: 5, StartDate: start, EndDate: end}); AsValidation(err) == nil {
        t.Fatalf("empty batch err = %v, want validation error", err)
    }
    _, err := u.Apply(context.Background(), BulkRequest{
        HotelID:   5,
        StartDate: end,
        EndDate:   start,
        Items:     []BulkItem{{RatePlanID: 1, NewPriceCents: 12000}},
    })
    if AsValidation(err) == nil {
        t.Fatalf("inverted window err = %v, want validation error", err)
    }
}
