package drain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/sendflow/internal/domain"
)

// DimThreshold is the progress below which the receiver amount renders muted
// ("not yet arrived").
const DimThreshold = 0.02

var hundred = decimal.NewFromInt(100)

// Amounts are the per-card display values at one point of the drain.
type Amounts struct {
	Sender      decimal.Decimal // currency units
	Receiver    decimal.Decimal // currency units
	WholeUnits  bool            // display without cents
	DimReceiver bool
}

// EaseInOutCubic maps an elapsed-time fraction onto a progress fraction.
// Input is clamped to [0,1].
func EaseInOutCubic(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 4 * t * t * t
	default:
		u := -2*t + 2
		return 1 - u*u*u/2
	}
}

// Progress returns the eased drain progress after elapsed of duration.
func Progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	return EaseInOutCubic(float64(elapsed) / float64(duration))
}

// Split calculates how much of the draft amount each card shows at progress.
// Logic:
//  1. Receiver gets full × progress, sender keeps full × (1 − progress)
//  2. If the full amount has no cents, the receiver value is rounded to whole
//     units so counters never show spurious cents
//  3. The sender value is derived as full − receiver
//
// Safety: sender + receiver always equals the full amount exactly
func Split(draft domain.TransferDraft, progress float64) (Amounts, error) {
	fullMinorUnits := draft.AmountMinorUnits
	if fullMinorUnits < 0 {
		return Amounts{}, errors.New("full amount cannot be negative")
	}
	if progress < 0 || progress > 1 {
		return Amounts{}, errors.New("progress must be between 0 and 1")
	}

	full := decimal.NewFromInt(fullMinorUnits).Div(hundred)
	wholeUnits := draft.HasWholeUnits()

	receiver := full.Mul(decimal.NewFromFloat(progress))
	if wholeUnits {
		receiver = receiver.Round(0)
	} else {
		receiver = receiver.Round(2)
	}
	sender := full.Sub(receiver)

	if !sender.Add(receiver).Equal(full) {
		return Amounts{}, errors.New("drain split does not equal full amount")
	}

	return Amounts{
		Sender:      sender,
		Receiver:    receiver,
		WholeUnits:  wholeUnits,
		DimReceiver: progress < DimThreshold,
	}, nil
}

// Places is the number of fractional digits the amounts display with.
func (a Amounts) Places() int32 {
	if a.WholeUnits {
		return 0
	}
	return 2
}
