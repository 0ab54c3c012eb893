package flow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/sendflow/internal/domain"
)

func testCatalog() domain.Catalog {
	return domain.Catalog{
		Parties: []domain.Party{
			{ID: "greenfield", Name: "Greenfield", DisplayName: "Greenfield", Color: "#4E9B7C"},
			{ID: "cactuspractice", Name: "Cactus Practice", DisplayName: "Cactus Practice", Color: "#2F6B4F"},
			{ID: "openai", Name: "OpenAI", DisplayName: "OpenAI", Color: "#000000"},
			{ID: "priya-anand", Name: "Priya Anand", DisplayName: "Priya Anand", Color: "#2E9E5B", IsIndividual: true, Email: "priya.anand@gmail.com"},
		},
		Methods: []domain.FundingMethod{
			{ID: "usdc", Name: "USDC", DisplayName: "USDC", Color: "#1485FF", Last4: "0451"},
			{ID: "stripe", Name: "Stripe balance", DisplayName: "Stripe balance", Color: "#7B4EFF"},
			{ID: "wells-fargo", Name: "Wells Fargo", DisplayName: "Wells Fargo", Color: "#454E5D", Last4: "7702"},
		},
	}
}

func businessHost() domain.HostConfig {
	return domain.HostConfig{
		AmountMinorUnits: 200000,
		SenderID:         "greenfield",
		ReceiverID:       "cactuspractice",
		MethodID:         "usdc",
		Layout:           domain.LayoutCompany,
		Surface:          domain.SurfaceModal,
	}
}

func newTestMachine(t *testing.T, host domain.HostConfig) (*Machine, *ManualScheduler) {
	t.Helper()
	sched := NewManualScheduler(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	m := NewMachine(uuid.New(), testCatalog(), host, WithScheduler(sched))
	t.Cleanup(m.Close)
	return m, sched
}

func startSend(t *testing.T, m *Machine) {
	t.Helper()
	m.Dispatch(OpenDialog{})
	v := m.Dispatch(RequestReview{})
	require.Equal(t, domain.FlowReview, v.Flow)
	v = m.Dispatch(ConfirmSend{})
	require.Equal(t, domain.FlowSending, v.Flow)
}

func TestMachine_HappyPathSend(t *testing.T) {
	m, sched := newTestMachine(t, businessHost())
	startSend(t, m)

	v := m.View()
	assert.Equal(t, domain.CardFull, v.Card)
	assert.Equal(t, "", v.ReceiverCard.StatusText)
	assert.Equal(t, "2,000.00", v.SenderCard.DisplayAmount)
	assert.Equal(t, "2,000.00", v.ReceiverCard.DisplayAmount)
	assert.Equal(t, "Sending payment...", v.Title)

	sched.Advance(600 * time.Millisecond)
	v = m.View()
	assert.Equal(t, domain.CardSending, v.Card)
	assert.Equal(t, "Sending", v.SenderCard.StatusText)
	assert.Equal(t, "Receiving...", v.ReceiverCard.StatusText)
	assert.True(t, v.ReceiverCard.HeightLocked)
	assert.True(t, v.ReceiverCard.Dimmed)

	sched.Advance(1500 * time.Millisecond)
	v = m.View()
	assert.Equal(t, domain.CardSending, v.Card)
	assert.InDelta(t, 0.5, v.Progress, 0.05)
	assert.False(t, v.ReceiverCard.Dimmed)
	total := v.SenderCard.Amount.Add(v.ReceiverCard.Amount)
	assert.Equal(t, "2000", total.String())

	sched.Advance(900 * time.Millisecond)
	v = m.View()
	assert.Equal(t, domain.CardMinimal, v.Card)
	assert.Equal(t, 1.0, v.Progress)
	assert.False(t, v.ReceiverCard.ShowFullContent)
	assert.Equal(t, "Sent", v.SenderCard.StatusText)
	assert.Equal(t, "Received", v.ReceiverCard.StatusText)

	sched.Advance(1000 * time.Millisecond)
	v = m.View()
	assert.Equal(t, domain.FlowSent, v.Flow)
	assert.Equal(t, domain.CardComplete, v.Card)
	assert.Nil(t, v.SenderCard)
	assert.Equal(t, "2,000.00", v.ReceiverCard.DisplayAmount)
	assert.Equal(t, "Payment Sent!", v.Title)
	assert.Equal(t, "Done", v.PrimaryButton.Label)
	assert.Equal(t, 0, sched.Pending())
}

func TestMachine_ProgressIsMonotonic(t *testing.T) {
	m, sched := newTestMachine(t, businessHost())
	startSend(t, m)
	sched.Advance(600 * time.Millisecond)

	prev := 0.0
	for i := 0; i < 200; i++ {
		sched.Advance(16 * time.Millisecond)
		p := m.View().Progress
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}
}

func TestMachine_BackDuringSendCancelsTimers(t *testing.T) {
	m, sched := newTestMachine(t, businessHost())
	startSend(t, m)

	sched.Advance(1000 * time.Millisecond)
	require.Equal(t, domain.CardSending, m.View().Card)

	v := m.Dispatch(Back{})
	assert.Equal(t, domain.FlowSelect, v.Flow)
	assert.Equal(t, domain.CardFull, v.Card)
	assert.Equal(t, 0.0, v.Progress)
	assert.Equal(t, uint64(1), v.Epoch)
	assert.Equal(t, 0, sched.Pending())

	sched.Advance(5 * time.Second)
	v = m.View()
	assert.Equal(t, domain.FlowSelect, v.Flow)
	assert.Equal(t, domain.CardFull, v.Card)
}

func TestMachine_DismissAndReopen(t *testing.T) {
	m, sched := newTestMachine(t, businessHost())
	m.Dispatch(SetNote{Text: "invoice 42"})
	startSend(t, m)
	sched.Advance(2 * time.Second)

	before := m.View().SurfaceKey
	v := m.Dispatch(CloseDialog{})
	assert.Equal(t, domain.PhaseIdle, v.Phase)
	assert.Equal(t, domain.FlowSelect, v.Flow)
	assert.NotEqual(t, before, v.SurfaceKey)

	sched.Advance(5 * time.Second)
	v = m.Dispatch(OpenDialog{})
	assert.Equal(t, domain.PhaseDialog, v.Phase)
	assert.Equal(t, domain.FlowSelect, v.Flow)
	assert.Equal(t, domain.CardFull, v.Card)
	assert.Equal(t, "invoice 42", v.Draft.Note)
	assert.Equal(t, int64(200000), v.Draft.AmountMinorUnits)
}

func TestMachine_SendAgainAfterBack(t *testing.T) {
	m, sched := newTestMachine(t, businessHost())
	startSend(t, m)
	sched.Advance(700 * time.Millisecond)
	m.Dispatch(Back{})

	m.Dispatch(RequestReview{})
	m.Dispatch(ConfirmSend{})
	sched.Advance(2500 * time.Millisecond)
	// the first run would have hit minimal at 3000ms; the second is at 2500ms
	assert.Equal(t, domain.CardSending, m.View().Card)

	sched.Advance(1600 * time.Millisecond)
	assert.Equal(t, domain.FlowSent, m.View().Flow)
}

func TestMachine_CloseStopsEverything(t *testing.T) {
	sched := NewManualScheduler(time.Unix(0, 0))
	m := NewMachine(uuid.New(), testCatalog(), businessHost(), WithScheduler(sched))
	startSend(t, m)

	m.Close()
	assert.Equal(t, 0, sched.Pending())

	v := m.Dispatch(Back{})
	assert.Equal(t, domain.FlowSending, v.Flow)
}

func TestMachine_Subscribe(t *testing.T) {
	m, _ := newTestMachine(t, businessHost())

	var seen []domain.FlowState
	unsubscribe := m.Subscribe(func(v View) { seen = append(seen, v.Flow) })

	m.Dispatch(RequestReview{})
	m.Dispatch(Back{})
	unsubscribe()
	m.Dispatch(RequestReview{})

	assert.Equal(t, []domain.FlowState{domain.FlowReview, domain.FlowSelect}, seen)
}

func TestMachine_LockingRule(t *testing.T) {
	host := businessHost()
	host.ReceiverID = "priya-anand"
	m, _ := newTestMachine(t, host)

	v := m.View()
	assert.True(t, v.PersonInvolved)
	assert.True(t, v.RailSelectorEnabled)
	assert.Equal(t, domain.RailBankTransfer, v.Draft.Rail)
	assert.Equal(t, "usdc", v.Draft.MethodID)
	assert.Equal(t, "1–3 business days in USD", v.ReceiverCard.StatusText)

	v = m.Dispatch(SetRail{Rail: domain.RailStablecoin})
	assert.Equal(t, domain.RailStablecoin, v.Draft.Rail)

	v = m.Dispatch(SetReceiver{ID: "openai"})
	assert.False(t, v.PersonInvolved)
	assert.False(t, v.RailSelectorEnabled)
	assert.False(t, v.MethodSelectorEnabled)
	assert.Equal(t, "stripe", v.Draft.MethodID)
	assert.Equal(t, domain.RailNetworkInstant, v.Draft.Rail)

	v = m.Dispatch(SetRail{Rail: domain.RailBankTransfer})
	assert.Equal(t, domain.RailNetworkInstant, v.Draft.Rail)
	v = m.Dispatch(SetMethod{ID: "wells-fargo"})
	assert.Equal(t, "stripe", v.Draft.MethodID)
}

func TestTiming_Validate(t *testing.T) {
	assert.NoError(t, DefaultTiming().Validate())

	bad := DefaultTiming()
	bad.MinimalDelay = bad.SendingDelay
	assert.EqualError(t, bad.Validate(), "minimal delay must be after sending delay")

	bad = DefaultTiming()
	bad.CompleteDelay = bad.MinimalDelay - time.Millisecond
	assert.EqualError(t, bad.Validate(), "complete delay must be after minimal delay")
}

func TestManualScheduler(t *testing.T) {
	sched := NewManualScheduler(time.Unix(0, 0))

	var order []string
	sched.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })
	sched.AfterFunc(10*time.Millisecond, func() {
		order = append(order, "a")
		sched.AfterFunc(5*time.Millisecond, func() { order = append(order, "a2") })
	})
	stopped := sched.AfterFunc(15*time.Millisecond, func() { order = append(order, "never") })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	sched.Advance(12 * time.Millisecond)
	assert.Equal(t, []string{"a"}, order)
	assert.Equal(t, time.Unix(0, 0).Add(12*time.Millisecond), sched.Now())

	sched.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "a2", "b"}, order)
	assert.Equal(t, 0, sched.Pending())
}
