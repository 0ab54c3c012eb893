package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/simaogato/sendflow/internal/adapter/tui"
	"github.com/simaogato/sendflow/internal/usecase/flow"
)

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run a send flow in the terminal",
		RunE:  runTUI,
	}

	cmd.Flags().Int64("amount", 0, "Amount in minor units (overrides FLOW_AMOUNT_MINOR)")
	cmd.Flags().String("sender", "", "Sender party id")
	cmd.Flags().String("receiver", "", "Receiver party id")

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// the logger stays silent so it does not draw over the screen
	a, err := bootstrap(ctx, cmd, false)
	if err != nil {
		return err
	}
	timing, err := a.cfg.Timing()
	if err != nil {
		return err
	}

	host, err := hostFromFlags(cmd, a)
	if err != nil {
		return err
	}

	m := flow.NewMachine(uuid.New(), a.catalog, host, flow.WithTiming(timing))
	defer m.Close()

	model := tui.New(m, a.catalog)
	defer model.Close()

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
