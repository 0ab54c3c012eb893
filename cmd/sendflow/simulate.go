package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/simaogato/sendflow/internal/adapter/events"
	"github.com/simaogato/sendflow/internal/domain"
	"github.com/simaogato/sendflow/internal/usecase/flow"
	"github.com/simaogato/sendflow/pkg/logger"
)

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless send and print every transition",
		RunE:  runSimulate,
	}

	cmd.Flags().Int64("amount", 0, "Amount in minor units (overrides FLOW_AMOUNT_MINOR)")
	cmd.Flags().String("sender", "", "Sender party id")
	cmd.Flags().String("receiver", "", "Receiver party id")

	return cmd
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := bootstrap(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	timing, err := a.cfg.Timing()
	if err != nil {
		return err
	}
	host, err := hostFromFlags(cmd, a)
	if err != nil {
		return err
	}

	m := flow.NewMachine(uuid.New(), a.catalog, host,
		flow.WithTiming(timing),
		flow.WithPublisher(events.NewLogPublisher(logger.Log)))
	defer m.Close()

	return simulate(ctx, cmd.OutOrStdout(), m, timing)
}

// simulate drives m from review to sent, printing every card transition
// and each tenth of drain progress
func simulate(ctx context.Context, out io.Writer, m *flow.Machine, timing flow.Timing) error {
	done := make(chan struct{})
	tr := &transitionPrinter{out: out, last: m.View(), start: time.Now()}
	unsubscribe := m.Subscribe(func(v flow.View) {
		if tr.print(v) {
			close(done)
		}
	})
	defer unsubscribe()

	tr.line(m.View())
	if v := m.Dispatch(flow.RequestReview{}); v.Flow != domain.FlowReview {
		return fmt.Errorf("draft is not reviewable: %s", v.Summary.Text)
	}
	m.Dispatch(flow.ConfirmSend{})

	ctx, cancel := context.WithTimeout(ctx, timing.CompleteDelay+5*time.Second)
	defer cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send did not complete: %w", ctx.Err())
	}
}

// transitionPrinter writes a line whenever the flow, the card or a progress
// decile changes. Timer callbacks may notify concurrently.
type transitionPrinter struct {
	mu       sync.Mutex
	out      io.Writer
	last     flow.View
	start    time.Time
	finished bool
}

func (p *transitionPrinter) print(v flow.View) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return false
	}
	changed := v.Flow != p.last.Flow ||
		v.Card != p.last.Card ||
		int(v.Progress*10) != int(p.last.Progress*10)
	p.last = v
	if changed {
		p.line(v)
	}
	if v.Flow == domain.FlowSent {
		p.finished = true
		return true
	}
	return false
}

func (p *transitionPrinter) line(v flow.View) {
	sender := "-"
	if v.SenderCard != nil {
		sender = v.SenderCard.DisplayAmount
	}
	fmt.Fprintf(p.out, "%6dms  flow=%-7s card=%-8s progress=%5.1f%%  sender=%s receiver=%s\n",
		time.Since(p.start).Milliseconds(),
		v.Flow, v.Card, v.Progress*100,
		sender, v.ReceiverCard.DisplayAmount)
}

func hostFromFlags(cmd *cobra.Command, a *app) (domain.HostConfig, error) {
	host := a.cfg.Host()
	if v, _ := cmd.Flags().GetInt64("amount"); v != 0 {
		host.AmountMinorUnits = v
	}
	if v, _ := cmd.Flags().GetString("sender"); v != "" {
		host.SenderID = v
	}
	if v, _ := cmd.Flags().GetString("receiver"); v != "" {
		host.ReceiverID = v
	}

	if _, ok := a.catalog.Party(host.SenderID); !ok {
		return domain.HostConfig{}, fmt.Errorf("%w: sender %q", domain.ErrPartyNotFound, host.SenderID)
	}
	if _, ok := a.catalog.Party(host.ReceiverID); !ok {
		return domain.HostConfig{}, fmt.Errorf("%w: receiver %q", domain.ErrPartyNotFound, host.ReceiverID)
	}
	if _, ok := a.catalog.Method(host.MethodID); !ok {
		return domain.HostConfig{}, fmt.Errorf("%w: %q", domain.ErrMethodNotFound, host.MethodID)
	}
	return host, nil
}
