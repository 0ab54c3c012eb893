package flow

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/sendflow/internal/domain"
	"github.com/simaogato/sendflow/internal/usecase/drain"
)

// View is everything a presentation shell needs to render a flow.
// It is derived from State and never stored.
type View struct {
	Flow         domain.FlowState          `json:"flow"`
	Card         domain.CardAnimationState `json:"card"`
	SendingState domain.SendingState       `json:"sending_state"`
	Progress     float64                   `json:"progress"`
	Epoch        uint64                    `json:"epoch"`
	SurfaceKey   string                    `json:"surface_key"`

	Surface    domain.Surface      `json:"surface"`
	Layout     domain.CardLayout   `json:"layout"`
	Phase      domain.UIPhase      `json:"phase"`
	Profile    domain.ProfilePhase `json:"profile"`
	ReviewOpen bool                `json:"review_open"`
	Editing    domain.Clause       `json:"editing,omitempty"`

	Draft      domain.TransferDraft `json:"draft"`
	AmountText string               `json:"amount_text"`
	Amount     string               `json:"amount"`
	Sender     domain.Party         `json:"sender"`
	Receiver   domain.Party         `json:"receiver"`
	Method     domain.FundingMethod `json:"method"`
	Rail       domain.RailOption    `json:"rail"`
	Currency   string               `json:"currency"`

	// SenderCard is nil once the sender card has collapsed away.
	SenderCard   *CardProps `json:"sender_card,omitempty"`
	ReceiverCard CardProps  `json:"receiver_card"`

	Title           string  `json:"title"`
	Subtitle        string  `json:"subtitle,omitempty"`
	PrimaryButton   Button  `json:"primary_button"`
	SecondaryButton *Button `json:"secondary_button,omitempty"`

	PersonInvolved        bool                   `json:"person_involved"`
	EditingEnabled        bool                   `json:"editing_enabled"`
	MethodSelectorEnabled bool                   `json:"method_selector_enabled"`
	RailSelectorEnabled   bool                   `json:"rail_selector_enabled"`
	NoteVisible           bool                   `json:"note_visible"`
	ProfileOptions        []domain.ProfileOption `json:"profile_options,omitempty"`
	Summary               Summary                `json:"summary"`
}

// CardProps describes one party card.
type CardProps struct {
	Party      domain.Party         `json:"party"`
	Method     domain.FundingMethod `json:"method"`
	IsReceiver bool                 `json:"is_receiver"`
	Layout     domain.CardLayout    `json:"layout"`
	Header     string               `json:"header"`
	// PlainHeader is set for individuals, whose card has no colored band.
	PlainHeader bool `json:"plain_header"`

	Amount          decimal.Decimal     `json:"amount"`
	DisplayAmount   string              `json:"display_amount"`
	Currency        string              `json:"currency"`
	Status          domain.SendingState `json:"status"`
	StatusText      string              `json:"status_text,omitempty"`
	DeliveryText    string              `json:"delivery_text"`
	Dimmed          bool                `json:"dimmed"`
	ShowFullContent bool                `json:"show_full_content"`
	HeightLocked    bool                `json:"height_locked"`
}

// Button is a rendered action button. Action is the wire name of the
// action it dispatches.
type Button struct {
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Action  string `json:"action,omitempty"`
}

// Derive computes the view for s.
func Derive(cat domain.Catalog, s State) View {
	sender, _ := cat.Party(s.Draft.SenderID)
	receiver, _ := cat.Party(s.Draft.ReceiverID)
	method, _ := cat.Method(s.Draft.MethodID)
	rail := s.Draft.Rail.Option()
	person := domain.PersonInvolved(sender, receiver)
	editable := s.Flow.Editable()

	v := View{
		Flow:         s.Flow,
		Card:         s.Card,
		SendingState: s.Card.SendingState(),
		Progress:     s.Progress,
		Epoch:        s.Epoch,
		SurfaceKey:   fmt.Sprintf("send-panel-%d", s.Epoch),

		Surface:    s.Host.Surface,
		Layout:     s.Host.Layout,
		Phase:      s.Phase,
		Profile:    s.Profile,
		ReviewOpen: s.ReviewOpen,
		Editing:    s.Editing,

		Draft:      s.Draft,
		AmountText: s.AmountText,
		Amount:     domain.FormatCurrency(s.Draft.AmountMinorUnits),
		Sender:     sender,
		Receiver:   receiver,
		Method:     method,
		Rail:       rail,
		Currency:   rail.Currency,

		PersonInvolved:        person,
		EditingEnabled:        editable,
		MethodSelectorEnabled: editable && person,
		RailSelectorEnabled:   editable && person,
		NoteVisible:           s.Flow == domain.FlowReview,
		Summary:               BuildSummary(cat, s),
	}

	if s.Host.Surface == domain.SurfaceLandingPage && s.Profile == domain.ProfileLanding && person {
		v.ProfileOptions = domain.ProfileOptions()
	}

	senderCard, receiverCard := cardProps(s, sender, receiver, method, rail)
	if s.Card != domain.CardComplete {
		v.SenderCard = &senderCard
	}
	v.ReceiverCard = receiverCard

	v.Title, v.Subtitle = titles(s.Flow)
	v.PrimaryButton, v.SecondaryButton = buttons(s)

	return v
}

func cardProps(s State, sender, receiver domain.Party, method domain.FundingMethod, rail domain.RailOption) (CardProps, CardProps) {
	full := decimal.New(s.Draft.AmountMinorUnits, -2)
	senderAmount, receiverAmount := full, full
	places := int32(2)
	dim := false

	if s.Card != domain.CardFull {
		split, err := drain.Split(s.Draft, clamp01(s.Progress))
		if err == nil {
			senderAmount, receiverAmount = split.Sender, split.Receiver
			places = split.Places()
			dim = s.Card == domain.CardSending && split.DimReceiver
		}
		if s.Card == domain.CardComplete {
			receiverAmount, places = full, 2
		}
	}

	status := s.Card.SendingState()
	showFull := s.Card == domain.CardFull || s.Card == domain.CardSending
	locked := s.Card == domain.CardSending || s.Card == domain.CardMinimal

	base := CardProps{
		Method:          method,
		Layout:          s.Host.Layout,
		Currency:        rail.Currency,
		Status:          status,
		DeliveryText:    rail.DeliveryText,
		ShowFullContent: showFull,
		HeightLocked:    locked,
	}

	sc := base
	sc.Party = sender
	sc.Header = header(s.Host.Layout, sender, method)
	sc.PlainHeader = sender.IsIndividual && s.Host.Layout == domain.LayoutCompany
	sc.Amount = senderAmount
	sc.DisplayAmount = domain.FormatDecimal(senderAmount, places)
	sc.StatusText = statusText(s.Card, false, sender, rail)

	rc := base
	rc.Party = receiver
	rc.IsReceiver = true
	rc.Header = header(s.Host.Layout, receiver, method)
	rc.PlainHeader = receiver.IsIndividual && s.Host.Layout == domain.LayoutCompany
	rc.Amount = receiverAmount
	rc.DisplayAmount = domain.FormatDecimal(receiverAmount, places)
	rc.StatusText = statusText(s.Card, true, receiver, rail)
	rc.Dimmed = dim

	return sc, rc
}

func header(layout domain.CardLayout, p domain.Party, m domain.FundingMethod) string {
	if layout == domain.LayoutPayment && m.DisplayName != "" {
		if m.Last4 != "" {
			return m.DisplayName + " •••• " + m.Last4
		}
		return m.DisplayName
	}
	return p.DisplayName
}

// statusText is the line a card shows under its amount. An individual
// receiver always shows the delivery estimate instead.
func statusText(card domain.CardAnimationState, receiver bool, p domain.Party, rail domain.RailOption) string {
	if receiver && p.IsIndividual {
		return rail.DeliveryText + " in " + rail.Currency
	}
	switch card {
	case domain.CardSending:
		if receiver {
			return "Receiving..."
		}
		return "Sending"
	case domain.CardMinimal, domain.CardComplete:
		if receiver {
			return "Received"
		}
		return "Sent"
	}
	return ""
}

func titles(f domain.FlowState) (string, string) {
	switch f {
	case domain.FlowReview:
		return "Review payment", "Confirm the details below before sending"
	case domain.FlowSending:
		return "Sending payment...", "Please wait while we process your payment"
	case domain.FlowSent:
		return "Payment Sent!", "Your payment has been successfully sent"
	default:
		return "Send money", ""
	}
}

func buttons(s State) (Button, *Button) {
	switch s.Flow {
	case domain.FlowReview:
		return Button{Label: "Confirm and send", Enabled: s.Draft.Reviewable(), Action: ActionConfirmSend},
			&Button{Label: "Back", Enabled: true, Action: ActionBack}
	case domain.FlowSending:
		return Button{Label: "Sending...", Enabled: false},
			&Button{Label: "Back", Enabled: true, Action: ActionBack}
	case domain.FlowSent:
		return Button{Label: "Done", Enabled: true, Action: ActionBack}, nil
	default:
		return Button{Label: "Review", Enabled: s.Draft.Reviewable(), Action: ActionRequestReview}, nil
	}
}

func clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
