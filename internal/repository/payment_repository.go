package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// PaymentRepo writes the append-only payments audit trail.  Rows are
// never updated or deleted; gateway retries for the same booking simply
// accumulate.
type PaymentRepo struct {
    db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Append inserts one recorded gateway attempt and populates the
// generated ID on the provided model.
func (r *PaymentRepo) Append(ctx context.Context, p *model.Payment) error {
    const q = `INSERT INTO payments
        (booking_id, provider_ref, amount_cents, currency, status, failure_reason)
        VALUES (?, ?, ?, ?, ?, ?)`
    var reason interface{}
    if p.FailureReason != nil {
        reason = *p.FailureReason
    }
    result, err := r.db.ExecContext(ctx, q,
        p.BookingID, p.ProviderRef, p.AmountCents, p.Currency, string(p.Status), reason)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    return nil
}

// ListByBooking returns the audit trail for one booking, oldest first.
func (r *PaymentRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.Payment, error) {
    const q = `SELECT id, booking_id, provider_ref, amount_cents, currency, status, failure_reason, created_at
               FROM payments WHERE booking_id = ? ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q, bookingID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Payment, 0)
    for rows.Next() {
        var p model.Payment
        var status string
        var reason sql.NullString
        if err := rows.Scan(&p.ID, &p.BookingID, &p.ProviderRef, &p.AmountCents, &p.Currency, &status, &reason, &p.CreatedAt); err != nil {
            return nil, err
        }
        p.Status = model.PaymentOutcome(status)
        if reason.Valid {
            v := reason.String
            p.FailureReason = &v
        }
        out = append(out, p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
