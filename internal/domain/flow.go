package domain

// FlowState is the transfer lifecycle step
type FlowState string

const (
	FlowSelect  FlowState = "select"
	FlowReview  FlowState = "review"
	FlowSending FlowState = "sending"
	FlowSent    FlowState = "sent"
)

// Editable reports whether the draft may be mutated in this state.
func (f FlowState) Editable() bool {
	return f == FlowSelect || f == FlowReview
}

// CardAnimationState drives the visual transition of the two cards during a
// send. It only advances forward until a back or reset event.
type CardAnimationState string

const (
	CardFull     CardAnimationState = "full"
	CardSending  CardAnimationState = "sending"
	CardMinimal  CardAnimationState = "minimal"
	CardComplete CardAnimationState = "complete"
)

// Rank orders card states along the forward sequence.
func (c CardAnimationState) Rank() int {
	switch c {
	case CardFull:
		return 0
	case CardSending:
		return 1
	case CardMinimal:
		return 2
	case CardComplete:
		return 3
	default:
		return -1
	}
}

// SendingState is the coarse status handed to card views
type SendingState string

const (
	SendingIdle SendingState = "idle"
	SendingBusy SendingState = "sending"
	SendingSent SendingState = "sent"
)

// SendingState maps the card animation onto the status a card renders.
func (c CardAnimationState) SendingState() SendingState {
	switch c {
	case CardSending:
		return SendingBusy
	case CardMinimal, CardComplete:
		return SendingSent
	default:
		return SendingIdle
	}
}

// UIPhase is the transient surface on top of the page. A single value makes
// the popover and the dialog mutually exclusive.
type UIPhase string

const (
	PhaseIdle    UIPhase = "idle"
	PhasePopover UIPhase = "popover"
	PhaseDialog  UIPhase = "dialog"
)

// Surface is the large-scale layout chosen by the host
type Surface string

const (
	SurfaceInlinePanel Surface = "inline-panel"
	SurfaceModal       Surface = "modal"
	SurfaceLandingPage Surface = "landing-page"
)

// Valid reports whether s is a known surface
func (s Surface) Valid() bool {
	switch s {
	case SurfaceInlinePanel, SurfaceModal, SurfaceLandingPage:
		return true
	default:
		return false
	}
}

// CardLayout picks which of party or funding method is the card header
type CardLayout string

const (
	LayoutCompany CardLayout = "company"
	LayoutPayment CardLayout = "payment"
)

// Valid reports whether l is a known layout
func (l CardLayout) Valid() bool {
	return l == LayoutCompany || l == LayoutPayment
}

// ProfilePhase is the landing-page step
type ProfilePhase string

const (
	ProfileLanding ProfilePhase = "profile"
	ProfilePayment ProfilePhase = "payment"
)

// Clause is one independently editable part of the transfer summary
type Clause string

const (
	ClauseNone      Clause = ""
	ClauseAmount    Clause = "amount"
	ClauseSource    Clause = "source"
	ClauseRecipient Clause = "recipient"
	ClauseRail      Clause = "rail"
)

// HostConfig is the configuration the presentation shell feeds a flow.
type HostConfig struct {
	AmountMinorUnits int64      `json:"amount_minor_units"`
	SenderID         string     `json:"sender_id"`
	ReceiverID       string     `json:"receiver_id"`
	MethodID         string     `json:"method_id"`
	Layout           CardLayout `json:"layout"`
	Surface          Surface    `json:"surface"`
}
