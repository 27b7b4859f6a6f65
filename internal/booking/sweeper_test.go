package booking

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "testing"
    "time"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// seedPending inserts a pending hold directly into the store with the
// given deadline.
func seedPending(t *testing.T, store *memStore, roomID uint64, expires time.Time) *model.Booking {
    t.Helper()
    b := &model.Booking{
        Code:              fmt.Sprintf("code-%d-%d", roomID, expires.UnixNano()),
        HotelID:           1,
        RoomID:            roomID,
        GuestEmail:        "guest@example.com",
        CheckIn:           time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
        CheckOut:          time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
        Status:            model.BookingPending,
        PaymentStatus:     model.PaymentPending,
        SoftHoldExpiresAt: &expires,
    }
    if err := store.Create(context.Background(), b); err != nil {
        t.Fatalf("seed: %v", err)
    }
    return b
}

func TestSweepExpiresOverdueHolds(t *testing.T) {
    store := newMemStore()
    m := newTestMachine(store, 24*time.Hour)
    now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
    m.Now = func() time.Time { return now }

    overdue1 := seedPending(t, store, 1, now.Add(-time.Minute))
    overdue2 := seedPending(t, store, 2, now.Add(-time.Hour))
    fresh := seedPending(t, store, 3, now.Add(time.Minute))

    res, err := NewSweeper(m).Run(context.Background())
    if err != nil {
        t.Fatalf("Run: %v", err)
    }
    if res.Scanned != 2 || res.Expired != 2 || len(res.Errors) != 0 {
        t.Fatalf("result = %+v, want scanned=2 expired=2", res)
    }
    for _, id := range []uint64{overdue1.ID, overdue2.ID} {
        b, _ := store.ByID(context.Background(), id)
        if b.Status != model.BookingExpired {
            t.Fatalf("booking %d status = %s, want EXPIRED", id, b.Status)
        }
        if b.SoftHoldExpiresAt != nil {
            t.Fatalf("booking %d hold timestamp not cleared", id)
        }
    }
    b, _ := store.ByID(context.Background(), fresh.ID)
    if b.Status != model.BookingPending {
        t.Fatalf("fresh hold status = %s, want PENDING", b.Status)
    }
}

func TestSweepCountsRacedConfirmAsNeither(t *testing.T) {
    store := newMemStore()
    m := newTestMachine(store, 24*time.Hour)
    now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
    m.Now = func() time.Time { return now }

    raced := seedPending(t, store, 1, now.Add(-time.Minute))
    overdue := seedPending(t, store, 2, now.Add(-time.Minute))

    // Confirm lands between the scan and the expire.  The guarded update
    // makes the order irrelevant, so confirming before Run models it.
    if _, err := m.Confirm(context.Background(), raced.ID, "pi_raced"); err != nil {
        t.Fatalf("confirm: %v", err)
    }
    res, err := NewSweeper(m).Run(context.Background())
    if err != nil {
        t.Fatalf("Run: %v", err)
    }
    if res.Expired != 1 || len(res.Errors) != 0 {
        t.Fatalf("result = %+v, want expired=1 errors=0", res)
    }
    b, _ := store.ByID(context.Background(), raced.ID)
    if b.Status != model.BookingConfirmed {
        t.Fatalf("raced booking status = %s, want CONFIRMED", b.Status)
    }
    b, _ = store.ByID(context.Background(), overdue.ID)
    if b.Status != model.BookingExpired {
        t.Fatalf("overdue booking status = %s, want EXPIRED", b.Status)
    }
}

// failOnceStore wraps memStore and fails ExpireIfPending for one id.
type failOnceStore struct {
    *memStore
    failID uint64
}

func (s *failOnceStore) ExpireIfPending(ctx context.Context, id uint64, now time.Time) (bool, error) {
    if id == s.failID {
        return false, errors.New("deadlock victim")
    }
    return s.memStore.ExpireIfPending(ctx, id, now)
}

func TestSweepIsolatesPerBookingFailures(t *testing.T) {
    inner := newMemStore()
    now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

    bad := seedPending(t, inner, 1, now.Add(-time.Minute))
    good := seedPending(t, inner, 2, now.Add(-time.Minute))

    store := &failOnceStore{memStore: inner, failID: bad.ID}
    m := newTestMachine(store, 24*time.Hour)
    m.Now = func() time.Time { return now }

    res, err := NewSweeper(m).Run(context.Background())
    if err != nil {
        t.Fatalf("Run: %v", err)
    }
    if res.Scanned != 2 || res.Expired != 1 {
        t.Fatalf("result = %+v, want scanned=2 expired=1", res)
    }
    if len(res.Errors) != 1 || res.Errors[0].BookingID != bad.ID {
        t.Fatalf("errors = %+v, want one entry for booking %d", res.Errors, bad.ID)
    }
    b, _ := inner.ByID(context.Background(), good.ID)
    if b.Status != model.BookingExpired {
        t.Fatalf("good booking status = %s, want EXPIRED", b.Status)
    }
}

func TestConcurrentSweepAndConfirm(t *testing.T) {
    store := newMemStore()
    m := newTestMachine(store, 24*time.Hour)
    now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
    m.Now = func() time.Time { return now }
    sweeper := NewSweeper(m)

    for i := 0; i < 50; i++ {
        b := seedPending(t, store, uint64(100+i), now.Add(-time.Minute))

        var wg sync.WaitGroup
        var confirmOutcome Outcome
        var confirmErr, sweepErr error
        wg.Add(2)
        go func() {
            defer wg.Done()
            confirmOutcome, confirmErr = m.Confirm(context.Background(), b.ID, "pi_race")
        }()
        go func() {
            defer wg.Done()
            _, sweepErr = sweeper.Run(context.Background())
        }()
        wg.Wait()

        if confirmErr != nil || sweepErr != nil {
            t.Fatalf("race errors: confirm=%v sweep=%v", confirmErr, sweepErr)
        }
        got, _ := store.ByID(context.Background(), b.ID)
        switch got.Status {
        case model.BookingConfirmed:
            if confirmOutcome != OutcomeApplied {
                t.Fatalf("booking confirmed but confirm reported %v", confirmOutcome)
            }
        case model.BookingExpired:
            if confirmOutcome != OutcomeNoOp {
                t.Fatalf("booking expired but confirm reported %v", confirmOutcome)
            }
        default:
            t.Fatalf("booking ended in %s, want CONFIRMED or EXPIRED", got.Status)
        }
    }
}
