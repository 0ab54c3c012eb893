package domain

import "errors"

// TransferDraft represents the editable proposal before sending.
// References point into the Catalog by id.
type TransferDraft struct {
	AmountMinorUnits int64  `json:"amount_minor_units"`
	SenderID         string `json:"sender_id"`
	ReceiverID       string `json:"receiver_id"`
	MethodID         string `json:"method_id"`
	Rail             Rail   `json:"rail"`
	Note             string `json:"note,omitempty"`
}

// Validate ensures the draft adheres to domain rules
// Returns an error if validation fails
func (d TransferDraft) Validate() error {
	if d.AmountMinorUnits < 0 {
		return errors.New("draft amount cannot be negative")
	}
	if d.SenderID == "" {
		return errors.New("draft must have a sender")
	}
	if d.ReceiverID == "" {
		return errors.New("draft must have a receiver")
	}
	if d.MethodID == "" {
		return errors.New("draft must have a funding method")
	}
	if !d.Rail.Valid() {
		return errors.New("draft rail is invalid")
	}
	return nil
}

// Reviewable reports whether the draft may advance to review.
func (d TransferDraft) Reviewable() bool {
	return d.AmountMinorUnits > 0
}

// HasWholeUnits reports whether the amount has no fractional minor units
// (e.g. $2,000.00), in which case animated counters show whole units only.
func (d TransferDraft) HasWholeUnits() bool {
	return d.AmountMinorUnits%100 == 0
}
