package pricing

import (
    "context"
    "sort"
    "strconv"
    "strings"
    "time"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// PlanSource loads the candidate rate plans for a room type.  The SQL
// repository implements it for production; tests supply fixtures.
type PlanSource interface {
    ActivePlansByRoomType(ctx context.Context, roomTypeID uint64) ([]model.RatePlan, error)
}

// DiscountTier is one step of the length-of-stay discount function: a
// stay of at least MinNights receives Bps basis points off the subtotal.
// Tiers are evaluated longest-stay-first and only the first match applies.
type DiscountTier struct {
    MinNights int   `json:"min_nights"`
    Bps       int64 `json:"bps"`
}

// ParseTiers parses the DISCOUNT_TIERS environment format, a
// comma-separated list of "nights:bps" pairs such as "7:1500,3:500".
// Malformed pairs are skipped; the result is sorted by MinNights
// descending so the steepest applicable tier is found first.
func ParseTiers(s string) []DiscountTier {
    var tiers []DiscountTier
    for _, part := range strings.Split(s, ",") {
        fields := strings.SplitN(strings.TrimSpace(part), ":", 2)
        if len(fields) != 2 {
            continue
        }
        nights, err1 := strconv.Atoi(fields[0])
        bps, err2 := strconv.ParseInt(fields[1], 10, 64)
        if err1 != nil || err2 != nil || nights <= 0 || bps < 0 {
            continue
        }
        tiers = append(tiers, DiscountTier{MinNights: nights, Bps: bps})
    }
    sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinNights > tiers[j].MinNights })
    return tiers
}

// NightRate is a single resolved night inside a quote.
type NightRate struct {
    Date       string `json:"date"`
    RatePlanID uint64 `json:"rate_plan_id"`
    AmountCents int64 `json:"amount_cents"`
}

// LineItem is one row of the itemized breakdown.  Discounts carry a
// negative amount.
type LineItem struct {
    Kind        string `json:"kind"`
    Label       string `json:"label"`
    AmountCents int64  `json:"amount_cents"`
}

// Quote is the itemized result of pricing a stay.  It is serialized
// verbatim into the booking's immutable price snapshot at hold creation.
type Quote struct {
    RoomTypeID      uint64      `json:"room_type_id"`
    CheckIn         string      `json:"check_in"`
    CheckOut        string      `json:"check_out"`
    Guests          int         `json:"guests"`
    NightCount      int         `json:"nights"`
    NightRates      []NightRate `json:"night_rates"`
    SubtotalCents   int64       `json:"subtotal_cents"`
    DiscountCents   int64       `json:"discount_cents"`
    TaxCents        int64       `json:"tax_cents"`
    ServiceFeeCents int64       `json:"service_fee_cents"`
    TotalCents      int64       `json:"total_cents"`
    LineItems       []LineItem  `json:"line_items"`
}

// Calculator prices stays by resolving every night independently and
// composing the aggregate breakdown.  Tax rate, service fee and the
// discount step function are injected configuration, not constants.
type Calculator struct {
    Plans           PlanSource
    TaxRateBps      int64
    ServiceFeeCents int64
    Tiers           []DiscountTier
}

// NewCalculator constructs a Calculator.  Plans must be non-nil.
func NewCalculator(plans PlanSource, taxRateBps int64, serviceFeeCents int64, tiers []DiscountTier) *Calculator {
    if plans == nil {
        panic("nil plan source passed to NewCalculator")
    }
    return &Calculator{Plans: plans, TaxRateBps: taxRateBps, ServiceFeeCents: serviceFeeCents, Tiers: tiers}
}

const dateLayout = "2006-01-02"

// Quote prices a stay for [checkIn, checkOut).  Every night must resolve
// to a rate plan or the whole quote fails with ErrNoRateAvailable; there
// are no partial quotes.  Percentages are applied to aggregates and
// rounded half-up once, so per-night rounding drift cannot accumulate.
func (c *Calculator) Quote(ctx context.Context, roomTypeID uint64, checkIn, checkOut time.Time, guests int) (*Quote, error) {
    in := model.DateOnly(checkIn)
    out := model.DateOnly(checkOut)
    if !out.After(in) {
        return nil, &ValidationError{Field: "check_out", Message: "must be after check_in"}
    }
    if guests < 1 {
        return nil, &ValidationError{Field: "guests", Message: "must be at least 1"}
    }
    nights := int(out.Sub(in) / (24 * time.Hour))

    plans, err := c.Plans.ActivePlansByRoomType(ctx, roomTypeID)
    if err != nil {
        return nil, err
    }

    q := &Quote{
        RoomTypeID: roomTypeID,
        CheckIn:    in.Format(dateLayout),
        CheckOut:   out.Format(dateLayout),
        Guests:     guests,
        NightCount: nights,
        NightRates: make([]NightRate, 0, nights),
    }
    for d := in; d.Before(out); d = d.AddDate(0, 0, 1) {
        plan, err := Resolve(d, plans, nights)
        if err != nil {
            return nil, ErrNoRateAvailable
        }
        q.NightRates = append(q.NightRates, NightRate{
            Date:        d.Format(dateLayout),
            RatePlanID:  plan.ID,
            AmountCents: plan.NightlyRateCents,
        })
        q.SubtotalCents += plan.NightlyRateCents
    }

    for _, tier := range c.Tiers {
        if nights >= tier.MinNights {
            q.DiscountCents = roundBps(q.SubtotalCents, tier.Bps)
            break
        }
    }
    discounted := q.SubtotalCents - q.DiscountCents
    q.TaxCents = roundBps(discounted, c.TaxRateBps)
    q.ServiceFeeCents = c.ServiceFeeCents
    q.TotalCents = discounted + q.TaxCents + q.ServiceFeeCents

    q.LineItems = append(q.LineItems, LineItem{Kind: "room", Label: "Room charge", AmountCents: q.SubtotalCents})
    if q.DiscountCents > 0 {
        q.LineItems = append(q.LineItems, LineItem{Kind: "discount", Label: "Length-of-stay discount", AmountCents: -q.DiscountCents})
    }
    q.LineItems = append(q.LineItems,
        LineItem{Kind: "tax", Label: "Tax", AmountCents: q.TaxCents},
        LineItem{Kind: "fee", Label: "Service fee", AmountCents: q.ServiceFeeCents},
    )
    return q, nil
}

// roundBps applies a basis-point percentage to an amount, rounding
// half-up to the nearest minor unit.  Amounts are non-negative here.
func roundBps(amount, bps int64) int64 {
    return (amount*bps + 5000) / 10000
}
