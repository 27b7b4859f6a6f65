package booking

import (
    "context"
    "log"
)

// SweepError is one booking the sweep could not process.  Guard misses
// are not errors; only store failures land here.
type SweepError struct {
    BookingID uint64 `json:"booking_id"`
    Error     string `json:"error"`
}

// SweepResult summarizes a single sweep run.
type SweepResult struct {
    Scanned int          `json:"scanned"`
    Expired int          `json:"expired"`
    Errors  []SweepError `json:"errors,omitempty"`
}

// Sweeper retires stale unpaid holds.  It owns no schedule of its own:
// an external timer (or an operator) invokes Run, and overlapping runs
// are harmless because every expiry goes through the state machine's
// conditional update.  A booking confirmed between the scan and the
// expire simply produces a no-op.
type Sweeper struct {
    Machine *StateMachine
}

// NewSweeper constructs a Sweeper over the given state machine.
func NewSweeper(machine *StateMachine) *Sweeper {
    if machine == nil {
        panic("nil state machine passed to NewSweeper")
    }
    return &Sweeper{Machine: machine}
}

// Run scans pending bookings whose hold deadline has passed, oldest
// first, and expires each one independently.  One booking's failure
// never aborts the batch; failures are collected in the result.
func (s *Sweeper) Run(ctx context.Context) (*SweepResult, error) {
    overdue, err := s.Machine.Store.ListExpiredPending(ctx, s.Machine.Now())
    if err != nil {
        return nil, err
    }
    res := &SweepResult{Scanned: len(overdue)}
    for _, b := range overdue {
        outcome, err := s.Machine.Expire(ctx, b.ID)
        if err != nil {
            res.Errors = append(res.Errors, SweepError{BookingID: b.ID, Error: err.Error()})
            continue
        }
        if outcome == OutcomeApplied {
            res.Expired++
        }
        // OutcomeNoOp: someone confirmed or cancelled it after the scan.
    }
    if res.Expired > 0 || len(res.Errors) > 0 {
        log.Printf("sweep: scanned=%d expired=%d errors=%d", res.Scanned, res.Expired, len(res.Errors))
    }
    return res, nil
}
