package booking

import (
    "context"
    "sort"
    "sync"
    "time"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
)

// memStore is an in-memory Store used by the tests in this package.  It
// mirrors the SQL repository's semantics: every transition method is a
// compare-and-set on the current status executed under one lock, which
// is exactly the atomicity the relational store provides per statement.
type memStore struct {
    mu     sync.Mutex
    nextID uint64
    rows   map[uint64]*model.Booking
}

func newMemStore() *memStore {
    return &memStore{nextID: 1, rows: make(map[uint64]*model.Booking)}
}

func (s *memStore) Create(_ context.Context, b *model.Booking) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    b.ID = s.nextID
    s.nextID++
    b.CreatedAt = time.Now().UTC()
    b.UpdatedAt = b.CreatedAt
    cp := *b
    s.rows[b.ID] = &cp
    return nil
}

func (s *memStore) ByID(_ context.Context, id uint64) (*model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.rows[id]
    if !ok {
        return nil, repository.ErrNotFound
    }
    cp := *b
    return &cp, nil
}

func (s *memStore) ByCode(_ context.Context, code string) (*model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, b := range s.rows {
        if b.Code == code {
            cp := *b
            return &cp, nil
        }
    }
    return nil, repository.ErrNotFound
}

func (s *memStore) ConfirmIfPending(_ context.Context, id uint64, paymentRef string) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.rows[id]
    if !ok || b.Status != model.BookingPending {
        return false, nil
    }
    b.Status = model.BookingConfirmed
    b.PaymentStatus = model.PaymentPaid
    b.PaymentRef = &paymentRef
    b.SoftHoldExpiresAt = nil
    return true, nil
}

func (s *memStore) ExpireIfPending(_ context.Context, id uint64, now time.Time) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.rows[id]
    if !ok || b.Status != model.BookingPending {
        return false, nil
    }
    if b.SoftHoldExpiresAt == nil || b.SoftHoldExpiresAt.After(now) {
        return false, nil
    }
    b.Status = model.BookingExpired
    b.SoftHoldExpiresAt = nil
    return true, nil
}

func (s *memStore) CancelIfStatus(_ context.Context, id uint64, from model.BookingStatus, reason string) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.rows[id]
    if !ok || b.Status != from {
        return false, nil
    }
    b.Status = model.BookingCancelled
    b.CancelReason = &reason
    b.SoftHoldExpiresAt = nil
    return true, nil
}

func (s *memStore) SetStatusIf(_ context.Context, id uint64, from, to model.BookingStatus) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.rows[id]
    if !ok || b.Status != from {
        return false, nil
    }
    b.Status = to
    return true, nil
}

func (s *memStore) ListExpiredPending(_ context.Context, now time.Time) ([]model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.Booking
    for _, b := range s.rows {
        if b.Status == model.BookingPending && b.SoftHoldExpiresAt != nil && b.SoftHoldExpiresAt.Before(now) {
            out = append(out, *b)
        }
    }
    sort.Slice(out, func(i, j int) bool {
        return out[i].SoftHoldExpiresAt.Before(*out[j].SoftHoldExpiresAt)
    })
    return out, nil
}

func (s *memStore) CountOverlapping(_ context.Context, roomID uint64, checkIn, checkOut time.Time) (int, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    n := 0
    for _, b := range s.rows {
        if b.RoomID != roomID {
            continue
        }
        if b.Status != model.BookingPending && b.Status != model.BookingConfirmed {
            continue
        }
        if b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
            n++
        }
    }
    return n, nil
}

func (s *memStore) ExpireOverdueForRoom(_ context.Context, roomID uint64, now time.Time) (int, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    n := 0
    for _, b := range s.rows {
        if b.RoomID == roomID && b.Status == model.BookingPending &&
            b.SoftHoldExpiresAt != nil && !b.SoftHoldExpiresAt.After(now) {
            b.Status = model.BookingExpired
            b.SoftHoldExpiresAt = nil
            n++
        }
    }
    return n, nil
}

// memPayments records appended payment rows.
type memPayments struct {
    mu   sync.Mutex
    rows []model.Payment
}

func (p *memPayments) Append(_ context.Context, row *model.Payment) error {
    p.mu.Lock()
    defer p.mu.Unlock()
    row.ID = uint64(len(p.rows) + 1)
    p.rows = append(p.rows, *row)
    return nil
}

func (p *memPayments) count() int {
    p.mu.Lock()
    defer p.mu.Unlock()
    return len(p.rows)
}

// fixedPolicy returns the same cancellation cutoff for every hotel.
type fixedPolicy time.Duration

func (p fixedPolicy) CancelCutoff(context.Context, uint64) (time.Duration, error) {
    return time.Duration(p), nil
}
