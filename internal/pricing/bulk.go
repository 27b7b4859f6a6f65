package pricing

import (
    "context"
    "errors"
    "time"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
)

// BulkStore is the persistence surface the bulk updater needs: fetch a
// plan and rewrite its price and validity window.  Each update is an
// independent row write, not part of a batch transaction.
type BulkStore interface {
    PlanByID(ctx context.Context, id uint64) (*model.RatePlan, error)
    UpdatePlanPricing(ctx context.Context, id uint64, nightlyRateCents int64, validFrom, validTo time.Time) error
}

// BulkItem is one requested price change.
type BulkItem struct {
    RatePlanID    uint64 `json:"rate_plan_id"`
    NewPriceCents int64  `json:"new_price_cents"`
}

// BulkRequest applies a new price and validity window to a set of rate
// plans owned by one hotel.
type BulkRequest struct {
    HotelID   uint64
    StartDate time.Time
    EndDate   time.Time
    Items     []BulkItem
}

// BulkItemResult records the outcome for a single plan.
type BulkItemResult struct {
    RatePlanID uint64 `json:"rate_plan_id"`
    Updated    bool   `json:"updated"`
    Error      string `json:"error,omitempty"`
}

// BulkResult aggregates the per-item outcomes.  Partial success is the
// expected shape; callers must report it, never collapse it to a single
// pass/fail.
type BulkResult struct {
    UpdatedCount int              `json:"updated_count"`
    Results      []BulkItemResult `json:"results"`
    Errors       []BulkItemResult `json:"errors"`
}

// BulkUpdater applies batches of rate-plan changes with per-item
// isolation: one plan failing (missing, foreign, bad value) never aborts
// the remaining items.
type BulkUpdater struct {
    Store BulkStore
}

// NewBulkUpdater constructs a BulkUpdater. Store must be non-nil.
func NewBulkUpdater(store BulkStore) *BulkUpdater {
    if store == nil {
        panic("nil store passed to NewBulkUpdater")
    }
    return &BulkUpdater{Store: store}
}

// Apply validates the batch structure, then processes every item
// independently.  Structural problems (empty batch, inverted window)
// reject the whole request before any write; everything else is recorded
// per item.
func (u *BulkUpdater) Apply(ctx context.Context, req BulkRequest) (*BulkResult, error) {
    if len(req.Items) == 0 {
        return nil, &ValidationError{Field: "updates", Message: "must not be empty"}
    }
    start := model.DateOnly(req.StartDate)
    end := model.DateOnly(req.EndDate)
    if !start.Before(end) {
        return nil, &ValidationError{Field: "end_date", Message: "must be after start_date"}
    }

    res := &BulkResult{Results: make([]BulkItemResult, 0, len(req.Items))}
    for _, item := range req.Items {
        outcome := u.applyOne(ctx, req.HotelID, item, start, end)
        res.Results = append(res.Results, outcome)
        if outcome.Updated {
            res.UpdatedCount++
        } else {
            res.Errors = append(res.Errors, outcome)
        }
    }
    return res, nil
}

func (u *BulkUpdater) applyOne(ctx context.Context, hotelID uint64, item BulkItem, start, end time.Time) BulkItemResult {
    out := BulkItemResult{RatePlanID: item.RatePlanID}
    if item.NewPriceCents <= 0 {
        out.Error = "price must be positive"
        return out
    }
    plan, err := u.Store.PlanByID(ctx, item.RatePlanID)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrNotFound):
            out.Error = "rate plan not found"
        default:
            out.Error = "failed to load rate plan"
        }
        return out
    }
    if plan.HotelID != hotelID {
        out.Error = "forbidden"
        return out
    }
    if err := u.Store.UpdatePlanPricing(ctx, item.RatePlanID, item.NewPriceCents, start, end); err != nil {
        out.Error = "failed to update rate plan"
        return out
    }
    out.Updated = true
    return out
}
