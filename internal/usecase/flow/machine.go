package flow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/sendflow/internal/domain"
	"github.com/simaogato/sendflow/internal/usecase/drain"
	"github.com/simaogato/sendflow/pkg/logger"
)

const publishTimeout = 2 * time.Second

// Machine owns one flow: its state, its timers and its subscribers.
// All methods are safe for concurrent use.
type Machine struct {
	id        uuid.UUID
	catalog   domain.Catalog
	timing    Timing
	sched     Scheduler
	publisher domain.EventPublisher

	mu          sync.Mutex
	state       State
	sendTimers  []Timer
	drainTimer  Timer
	subscribers map[int]func(View)
	nextSub     int
	closed      bool
}

// Option configures a Machine.
type Option func(*Machine)

func WithTiming(t Timing) Option {
	return func(m *Machine) { m.timing = t }
}

func WithScheduler(s Scheduler) Option {
	return func(m *Machine) { m.sched = s }
}

func WithPublisher(p domain.EventPublisher) Option {
	return func(m *Machine) { m.publisher = p }
}

// NewMachine mounts a flow for host over cat.
func NewMachine(id uuid.UUID, cat domain.Catalog, host domain.HostConfig, opts ...Option) *Machine {
	m := &Machine{
		id:          id,
		catalog:     cat,
		timing:      DefaultTiming(),
		sched:       RealScheduler{},
		subscribers: make(map[int]func(View)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.state = NewState(cat, host)
	return m
}

func (m *Machine) ID() uuid.UUID {
	return m.id
}

// Dispatch applies a and returns the resulting view.
func (m *Machine) Dispatch(a Action) View {
	return m.update(func(State) Action { return a })
}

// View returns the current view.
func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Derive(m.catalog, m.state)
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn to receive every view after a change. The returned
// func removes the subscription.
func (m *Machine) Subscribe(fn func(View)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subscribers[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
	}
}

// Close unmounts the flow. Pending timers are stopped and any callback
// already in flight is ignored.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.state.Epoch++
	m.stopTimersLocked()
	m.subscribers = map[int]func(View){}
}

// update runs one reducer step. next inspects the live state under the lock
// and returns the action to apply, or nil to do nothing.
func (m *Machine) update(next func(State) Action) View {
	m.mu.Lock()
	if m.closed {
		v := Derive(m.catalog, m.state)
		m.mu.Unlock()
		return v
	}

	a := next(m.state)
	if a == nil {
		v := Derive(m.catalog, m.state)
		m.mu.Unlock()
		return v
	}

	events := m.applyLocked(a)
	v := Derive(m.catalog, m.state)
	subs := make([]func(View), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
	m.publish(events)
	return v
}

func (m *Machine) applyLocked(a Action) []domain.FlowEvent {
	prevEpoch := m.state.Epoch
	next, effects := Reduce(m.catalog, m.state, a)
	m.state = next

	if next.Epoch != prevEpoch {
		m.stopTimersLocked()
	}

	var events []domain.FlowEvent
	for _, eff := range effects {
		switch e := eff.(type) {
		case StartSendTimers:
			m.startSendTimersLocked(e.Epoch)
		case StartDrain:
			m.startDrainLocked(e.Epoch)
		case Emit:
			events = append(events, m.eventLocked(e.Type))
		}
	}
	return events
}

// startSendTimersLocked schedules the card sequence. Each callback carries
// the epoch it was scheduled under and is dropped by Reduce if stale.
func (m *Machine) startSendTimersLocked(epoch uint64) {
	m.stopTimersLocked()

	steps := []struct {
		after time.Duration
		to    domain.CardAnimationState
	}{
		{m.timing.SendingDelay, domain.CardSending},
		{m.timing.MinimalDelay, domain.CardMinimal},
		{m.timing.CompleteDelay, domain.CardComplete},
	}
	for _, step := range steps {
		to := step.to
		t := m.sched.AfterFunc(step.after, func() {
			m.Dispatch(CardTimerFired{Epoch: epoch, To: to})
		})
		m.sendTimers = append(m.sendTimers, t)
	}
}

// startDrainLocked runs the drain frame loop. Every frame re-reads the live
// state and stops once the card has left sending or the epoch moved on.
func (m *Machine) startDrainLocked(epoch uint64) {
	start := m.sched.Now()

	var frame func()
	frame = func() {
		m.update(func(s State) Action {
			if s.Epoch != epoch || s.Card != domain.CardSending {
				return nil
			}
			p := drain.Progress(m.sched.Now().Sub(start), m.timing.DrainDuration)
			if p < 1 {
				m.drainTimer = m.sched.AfterFunc(m.timing.FrameInterval, frame)
			}
			return ProgressTick{Epoch: epoch, Progress: p}
		})
	}

	if m.drainTimer != nil {
		m.drainTimer.Stop()
	}
	m.drainTimer = m.sched.AfterFunc(m.timing.FrameInterval, frame)
}

func (m *Machine) stopTimersLocked() {
	for _, t := range m.sendTimers {
		t.Stop()
	}
	m.sendTimers = nil
	if m.drainTimer != nil {
		m.drainTimer.Stop()
		m.drainTimer = nil
	}
}

func (m *Machine) eventLocked(t domain.FlowEventType) domain.FlowEvent {
	s := m.state
	return domain.FlowEvent{
		ID:               uuid.New(),
		SessionID:        m.id,
		Type:             t,
		Flow:             s.Flow,
		Card:             s.Card,
		Epoch:            s.Epoch,
		AmountMinorUnits: s.Draft.AmountMinorUnits,
		SenderID:         s.Draft.SenderID,
		ReceiverID:       s.Draft.ReceiverID,
		Rail:             s.Draft.Rail,
		OccurredAt:       m.sched.Now(),
	}
}

// publish hands events to the publisher. Failures are logged and never
// reach the flow.
func (m *Machine) publish(events []domain.FlowEvent) {
	if m.publisher == nil || len(events) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	for _, e := range events {
		if err := m.publisher.Publish(ctx, e); err != nil {
			logger.Log.Warn("failed to publish flow event",
				logger.String("session_id", m.id.String()),
				logger.String("type", string(e.Type)),
				logger.Error(err))
		}
	}
}
