package flow

import (
	"errors"
	"time"

	"github.com/simaogato/sendflow/internal/domain"
)

// Timing holds the send animation schedule, measured from the moment the
// flow enters sending. Only the ordering is load-bearing.
type Timing struct {
	SendingDelay  time.Duration // card full -> sending, status text appears
	MinimalDelay  time.Duration // card sending -> minimal, progress snaps to 1
	CompleteDelay time.Duration // card minimal -> complete, flow -> sent
	DrainDuration time.Duration // length of the eased drain animation
	FrameInterval time.Duration // drain tick period
}

// DefaultTiming returns the stock 600ms / 3s / 4s schedule.
func DefaultTiming() Timing {
	return Timing{
		SendingDelay:  600 * time.Millisecond,
		MinimalDelay:  3000 * time.Millisecond,
		CompleteDelay: 4000 * time.Millisecond,
		DrainDuration: 3000 * time.Millisecond,
		FrameInterval: 16 * time.Millisecond,
	}
}

// Validate ensures the delays keep the card sequence in order
func (t Timing) Validate() error {
	if t.SendingDelay <= 0 {
		return errors.New("sending delay must be positive")
	}
	if t.MinimalDelay <= t.SendingDelay {
		return errors.New("minimal delay must be after sending delay")
	}
	if t.CompleteDelay <= t.MinimalDelay {
		return errors.New("complete delay must be after minimal delay")
	}
	if t.DrainDuration <= 0 {
		return errors.New("drain duration must be positive")
	}
	if t.FrameInterval <= 0 {
		return errors.New("frame interval must be positive")
	}
	return nil
}

// State is everything a flow owns. It is a plain value: Reduce returns a
// new State and never mutates its input.
type State struct {
	Host       domain.HostConfig
	Flow       domain.FlowState
	Card       domain.CardAnimationState
	Progress   float64
	Epoch      uint64
	Phase      domain.UIPhase
	Profile    domain.ProfilePhase
	ReviewOpen bool
	Editing    domain.Clause
	AmountText string
	Draft      domain.TransferDraft
}

// NewState builds the state of a freshly mounted flow from host config.
func NewState(cat domain.Catalog, host domain.HostConfig) State {
	if !host.Layout.Valid() {
		host.Layout = domain.LayoutCompany
	}
	if !host.Surface.Valid() {
		host.Surface = domain.SurfaceInlinePanel
	}
	if host.AmountMinorUnits < 0 {
		host.AmountMinorUnits = 0
	}

	s := State{
		Host:       host,
		Flow:       domain.FlowSelect,
		Card:       domain.CardFull,
		Phase:      domain.PhaseIdle,
		Profile:    domain.ProfileLanding,
		AmountText: domain.FormatMinorUnits(host.AmountMinorUnits),
		Draft: domain.TransferDraft{
			AmountMinorUnits: host.AmountMinorUnits,
			SenderID:         host.SenderID,
			ReceiverID:       host.ReceiverID,
			MethodID:         host.MethodID,
			Rail:             domain.RailNetworkInstant,
		},
	}

	if personInvolved(cat, s.Draft) {
		s.Draft.Rail = domain.RailBankTransfer
	} else {
		lockToInstant(cat, &s)
	}

	return s
}

// PersonInvolved reports whether the draft has an individual on either side.
func (s State) PersonInvolved(cat domain.Catalog) bool {
	return personInvolved(cat, s.Draft)
}

func personInvolved(cat domain.Catalog, d domain.TransferDraft) bool {
	sender, _ := cat.Party(d.SenderID)
	receiver, _ := cat.Party(d.ReceiverID)
	return domain.PersonInvolved(sender, receiver)
}

// lockToInstant pins business-to-business drafts to the default instant
// method and the instant network rail.
func lockToInstant(cat domain.Catalog, s *State) {
	if m, ok := cat.DefaultInstantMethod(); ok {
		s.Draft.MethodID = m.ID
	}
	s.Draft.Rail = domain.RailNetworkInstant
	if s.Editing == domain.ClauseRail || s.Editing == domain.ClauseSource {
		s.Editing = domain.ClauseNone
	}
}
