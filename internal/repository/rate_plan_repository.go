package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// RatePlanRepo provides read access to rate plans for pricing and the
// per-row writes used by bulk updates.  Rate plans are read-mostly:
// resolution works off whatever row version is visible at read time,
// and bulk writers never block readers.
type RatePlanRepo struct {
    db *sql.DB
}

// NewRatePlanRepo returns a new RatePlanRepo bound to the given database.
func NewRatePlanRepo(db *sql.DB) *RatePlanRepo { return &RatePlanRepo{db: db} }

const ratePlanColumns = `p.id, rt.hotel_id, p.room_type_id, p.name, p.nightly_rate_cents,
    p.valid_from, p.valid_to, p.days_of_week, p.priority, p.min_stay_nights,
    p.is_default, p.is_active, p.created_at, p.updated_at`

func scanRatePlan(scan func(dest ...interface{}) error) (*model.RatePlan, error) {
    var p model.RatePlan
    var days sql.NullString
    err := scan(
        &p.ID, &p.HotelID, &p.RoomTypeID, &p.Name, &p.NightlyRateCents,
        &p.ValidFrom, &p.ValidTo, &days, &p.Priority, &p.MinStayNights,
        &p.IsDefault, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if days.Valid && days.String != "" {
        w, ok := model.ParseWeekdays(days.String)
        if !ok {
            // Treat an unparseable restriction as matching nothing rather
            // than silently widening the plan to all days.
            empty := model.Weekdays(0)
            w = &empty
        }
        p.DaysOfWeek = w
    }
    return &p, nil
}

// ActivePlansByRoomType returns every active plan for a room type,
// defaults included.  Resolution filters and ranks in memory.
func (r *RatePlanRepo) ActivePlansByRoomType(ctx context.Context, roomTypeID uint64) ([]model.RatePlan, error) {
    const q = `SELECT ` + ratePlanColumns + `
               FROM rate_plans p
               JOIN room_types rt ON rt.id = p.room_type_id
               WHERE p.room_type_id = ? AND p.is_active = 1
               ORDER BY p.id`
    rows, err := r.db.QueryContext(ctx, q, roomTypeID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    plans := make([]model.RatePlan, 0)
    for rows.Next() {
        p, err := scanRatePlan(rows.Scan)
        if err != nil {
            return nil, err
        }
        plans = append(plans, *p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return plans, nil
}

// PlanByID loads a single rate plan, active or not.  ErrNotFound is
// returned when no row exists.
func (r *RatePlanRepo) PlanByID(ctx context.Context, id uint64) (*model.RatePlan, error) {
    const q = `SELECT ` + ratePlanColumns + `
               FROM rate_plans p
               JOIN room_types rt ON rt.id = p.room_type_id
               WHERE p.id = ?`
    p, err := scanRatePlan(r.db.QueryRowContext(ctx, q, id).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    return p, nil
}

// UpdatePlanPricing rewrites a plan's nightly price and validity window.
// Each call is one independent row write; bulk updates call it per plan
// and report per-item outcomes instead of wrapping a batch transaction.
func (r *RatePlanRepo) UpdatePlanPricing(ctx context.Context, id uint64, nightlyRateCents int64, validFrom, validTo time.Time) error {
    const q = `UPDATE rate_plans
               SET nightly_rate_cents = ?, valid_from = ?, valid_to = ?
               WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q, nightlyRateCents,
        model.DateOnly(validFrom), model.DateOnly(validTo), id)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}
