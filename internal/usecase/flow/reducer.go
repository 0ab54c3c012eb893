package flow

import (
	"github.com/simaogato/sendflow/internal/domain"
)

// Action is an input to Reduce. User intents and timer callbacks share the
// same path so every transition goes through one place.
type Action interface {
	isAction()
}

type (
	// RequestReview moves select -> review when the amount is positive.
	RequestReview struct{}
	// ConfirmSend moves review -> sending and starts the card timers.
	ConfirmSend struct{}
	// Back steps one flow state back. Leaving sending or sent invalidates
	// pending timers.
	Back struct{}
	// CloseDialog dismisses the dialog. The draft survives; the flow does not.
	CloseDialog struct{}
	// OpenPopover opens the recipient picker, closing the dialog.
	OpenPopover struct{}
	// OpenDialog opens the send dialog, closing the popover.
	OpenDialog struct{}
	// PickRecipient selects a receiver from the popover and opens the dialog.
	PickRecipient struct{ ID string }
	// PressEscape resolves the innermost open layer.
	PressEscape struct{}
	// ClickOutside collapses whatever surface is open.
	ClickOutside struct{}
	// OpenReview expands the landing-page card into its review form.
	OpenReview struct{}
	// CloseReview collapses the landing-page review form.
	CloseReview struct{}
	// ChooseProfileOption picks a landing-page payment option.
	ChooseProfileOption struct{ Rail domain.Rail }
	// BackToProfile returns the landing page to its profile step.
	BackToProfile struct{}
	// OpenClause starts editing one summary clause.
	OpenClause struct{ Clause domain.Clause }
	// CommitClause ends editing of the open clause.
	CommitClause struct{}
	// EditAmount feeds raw typed amount text.
	EditAmount struct{ Text string }
	SetSender  struct{ ID string }
	// SetReceiver changes the receiver.
	SetReceiver struct{ ID string }
	SetMethod   struct{ ID string }
	SetRail     struct{ Rail domain.Rail }
	SetNote     struct{ Text string }
	SetLayout   struct{ Layout domain.CardLayout }
	// Reset rebuilds the flow from host config, invalidating everything pending.
	Reset struct{ Host domain.HostConfig }
	// CardTimerFired is delivered by a send timer scheduled at Epoch.
	CardTimerFired struct {
		Epoch uint64
		To    domain.CardAnimationState
	}
	// ProgressTick is delivered by a drain frame scheduled at Epoch.
	ProgressTick struct {
		Epoch    uint64
		Progress float64
	}
)

func (RequestReview) isAction()       {}
func (ConfirmSend) isAction()         {}
func (Back) isAction()                {}
func (CloseDialog) isAction()         {}
func (OpenPopover) isAction()         {}
func (OpenDialog) isAction()          {}
func (PickRecipient) isAction()       {}
func (PressEscape) isAction()         {}
func (ClickOutside) isAction()        {}
func (OpenReview) isAction()          {}
func (CloseReview) isAction()         {}
func (ChooseProfileOption) isAction() {}
func (BackToProfile) isAction()       {}
func (OpenClause) isAction()          {}
func (CommitClause) isAction()        {}
func (EditAmount) isAction()          {}
func (SetSender) isAction()           {}
func (SetReceiver) isAction()         {}
func (SetMethod) isAction()           {}
func (SetRail) isAction()             {}
func (SetNote) isAction()             {}
func (SetLayout) isAction()           {}
func (Reset) isAction()               {}
func (CardTimerFired) isAction()      {}
func (ProgressTick) isAction()        {}

// Effect is work Reduce asks the caller to perform.
type Effect interface {
	isEffect()
}

type (
	// StartSendTimers schedules the card sequence for Epoch.
	StartSendTimers struct{ Epoch uint64 }
	// StartDrain starts the drain frame loop for Epoch.
	StartDrain struct{ Epoch uint64 }
	// Emit publishes a lifecycle event built from the new state.
	Emit struct{ Type domain.FlowEventType }
)

func (StartSendTimers) isEffect() {}
func (StartDrain) isEffect()      {}
func (Emit) isEffect()            {}

// Reduce applies a to s. Actions that are not allowed in the current state
// return s unchanged with no effects.
func Reduce(cat domain.Catalog, s State, a Action) (State, []Effect) {
	switch a := a.(type) {
	case RequestReview:
		if s.Flow != domain.FlowSelect || !s.Draft.Reviewable() {
			return s, nil
		}
		s = commitEditing(s)
		s.Flow = domain.FlowReview
		return s, []Effect{Emit{Type: domain.EventReviewRequested}}

	case ConfirmSend:
		if s.Flow != domain.FlowReview || !s.Draft.Reviewable() || s.Draft.Validate() != nil {
			return s, nil
		}
		s = commitEditing(s)
		s.Flow = domain.FlowSending
		s.Card = domain.CardFull
		s.Progress = 0
		s.ReviewOpen = false
		return s, []Effect{StartSendTimers{Epoch: s.Epoch}, Emit{Type: domain.EventSendStarted}}

	case Back:
		switch s.Flow {
		case domain.FlowReview:
			s.Flow = domain.FlowSelect
			s.ReviewOpen = false
		case domain.FlowSending, domain.FlowSent:
			s = resetAnimation(s)
			s.Flow = domain.FlowSelect
		}
		return s, nil

	case CloseDialog:
		if s.Phase != domain.PhaseDialog {
			return s, nil
		}
		return closeDialog(s), []Effect{Emit{Type: domain.EventDialogClosed}}

	case OpenPopover:
		var effects []Effect
		if s.Phase == domain.PhaseDialog {
			s = closeDialog(s)
			effects = append(effects, Emit{Type: domain.EventDialogClosed})
		}
		s.Phase = domain.PhasePopover
		return s, effects

	case OpenDialog:
		s.Phase = domain.PhaseDialog
		return s, nil

	case PickRecipient:
		if s.Phase != domain.PhasePopover {
			return s, nil
		}
		if _, ok := cat.Party(a.ID); !ok {
			return s, nil
		}
		s = setParties(cat, s, s.Draft.SenderID, a.ID)
		s.Flow = domain.FlowSelect
		s.Phase = domain.PhaseDialog
		return s, nil

	case PressEscape:
		switch {
		case s.Editing != domain.ClauseNone:
			return commitEditing(s), nil
		case s.Phase == domain.PhasePopover:
			s.Phase = domain.PhaseIdle
			return s, nil
		case s.Phase == domain.PhaseDialog:
			return closeDialog(s), []Effect{Emit{Type: domain.EventDialogClosed}}
		}
		return s, nil

	case ClickOutside:
		s = commitEditing(s)
		switch s.Phase {
		case domain.PhasePopover:
			s.Phase = domain.PhaseIdle
		case domain.PhaseDialog:
			return closeDialog(s), []Effect{Emit{Type: domain.EventDialogClosed}}
		}
		return s, nil

	case OpenReview:
		if s.Flow != domain.FlowSelect || !s.Draft.Reviewable() {
			return s, nil
		}
		s = commitEditing(s)
		s.Flow = domain.FlowReview
		s.ReviewOpen = true
		return s, []Effect{Emit{Type: domain.EventReviewRequested}}

	case CloseReview:
		if !s.ReviewOpen {
			return s, nil
		}
		s.ReviewOpen = false
		if s.Flow == domain.FlowReview {
			s.Flow = domain.FlowSelect
		}
		return s, nil

	case ChooseProfileOption:
		if s.Profile != domain.ProfileLanding {
			return s, nil
		}
		s.Profile = domain.ProfilePayment
		s.Flow = domain.FlowSelect
		if a.Rail.Valid() && s.PersonInvolved(cat) {
			s.Draft.Rail = a.Rail
		}
		return s, nil

	case BackToProfile:
		if s.Profile == domain.ProfileLanding {
			return s, nil
		}
		s = resetAnimation(s)
		s.Profile = domain.ProfileLanding
		s.Flow = domain.FlowSelect
		s.Phase = domain.PhaseIdle
		s.ReviewOpen = false
		s.Editing = domain.ClauseNone
		return s, nil

	case OpenClause:
		if !s.Flow.Editable() {
			return s, nil
		}
		switch a.Clause {
		case domain.ClauseAmount, domain.ClauseRecipient:
		case domain.ClauseSource, domain.ClauseRail:
			if !s.PersonInvolved(cat) {
				return s, nil
			}
		default:
			return s, nil
		}
		if s.Editing == a.Clause {
			return s, nil
		}
		s = commitEditing(s)
		s.Editing = a.Clause
		return s, nil

	case CommitClause:
		return commitEditing(s), nil

	case EditAmount:
		if !s.Flow.Editable() {
			return s, nil
		}
		in := domain.SanitizeAmountInput(a.Text)
		s.AmountText = in.Text
		s.Draft.AmountMinorUnits = in.MinorUnits
		return s, nil

	case SetSender:
		if !s.Flow.Editable() {
			return s, nil
		}
		if _, ok := cat.Party(a.ID); !ok {
			return s, nil
		}
		return setParties(cat, s, a.ID, s.Draft.ReceiverID), nil

	case SetReceiver:
		if !s.Flow.Editable() {
			return s, nil
		}
		if _, ok := cat.Party(a.ID); !ok {
			return s, nil
		}
		s = setParties(cat, s, s.Draft.SenderID, a.ID)
		if s.Editing == domain.ClauseRecipient {
			s.Editing = domain.ClauseNone
		}
		return s, nil

	case SetMethod:
		if !s.Flow.Editable() || !s.PersonInvolved(cat) {
			return s, nil
		}
		if _, ok := cat.Method(a.ID); !ok {
			return s, nil
		}
		s.Draft.MethodID = a.ID
		if s.Editing == domain.ClauseSource {
			s.Editing = domain.ClauseNone
		}
		return s, nil

	case SetRail:
		if !s.Flow.Editable() || !s.PersonInvolved(cat) || !a.Rail.Valid() {
			return s, nil
		}
		s.Draft.Rail = a.Rail
		if s.Editing == domain.ClauseRail {
			s.Editing = domain.ClauseNone
		}
		return s, nil

	case SetNote:
		if !s.Flow.Editable() {
			return s, nil
		}
		s.Draft.Note = a.Text
		return s, nil

	case SetLayout:
		if a.Layout.Valid() {
			s.Host.Layout = a.Layout
		}
		return s, nil

	case Reset:
		next := NewState(cat, a.Host)
		next.Epoch = s.Epoch + 1
		return next, []Effect{Emit{Type: domain.EventFlowReset}}

	case CardTimerFired:
		if a.Epoch != s.Epoch || s.Flow != domain.FlowSending {
			return s, nil
		}
		if a.To.Rank() <= s.Card.Rank() {
			return s, nil
		}
		s.Card = a.To
		effects := []Effect{Emit{Type: domain.EventCardAdvanced}}
		switch a.To {
		case domain.CardSending:
			effects = append(effects, StartDrain{Epoch: s.Epoch})
		case domain.CardMinimal:
			s.Progress = 1
		case domain.CardComplete:
			s.Progress = 1
			s.Flow = domain.FlowSent
			effects = append(effects, Emit{Type: domain.EventSent})
		}
		return s, effects

	case ProgressTick:
		if a.Epoch != s.Epoch || s.Card != domain.CardSending {
			return s, nil
		}
		p := a.Progress
		if p > 1 {
			p = 1
		}
		if p > s.Progress {
			s.Progress = p
		}
		return s, nil
	}

	return s, nil
}

// commitEditing closes the open clause, canonicalizing amount text.
func commitEditing(s State) State {
	if s.Editing == domain.ClauseAmount {
		in := domain.CommitAmountInput(s.AmountText)
		s.AmountText = in.Text
		s.Draft.AmountMinorUnits = in.MinorUnits
	}
	s.Editing = domain.ClauseNone
	return s
}

// resetAnimation rewinds the card sequence and invalidates anything
// scheduled under the current epoch.
func resetAnimation(s State) State {
	s.Card = domain.CardFull
	s.Progress = 0
	s.Epoch++
	return s
}

func closeDialog(s State) State {
	s = commitEditing(s)
	s = resetAnimation(s)
	s.Phase = domain.PhaseIdle
	s.Flow = domain.FlowSelect
	s.ReviewOpen = false
	return s
}

// setParties applies a sender/receiver change and the rail locking rule:
// without an individual the draft is pinned to the instant method and rail;
// when an individual becomes involved the rail defaults to bank transfer.
func setParties(cat domain.Catalog, s State, senderID, receiverID string) State {
	was := s.PersonInvolved(cat)
	s.Draft.SenderID = senderID
	s.Draft.ReceiverID = receiverID
	now := s.PersonInvolved(cat)

	switch {
	case !now:
		lockToInstant(cat, &s)
	case !was:
		s.Draft.Rail = domain.RailBankTransfer
	}
	if was != now {
		s.ReviewOpen = false
	}
	return s
}
