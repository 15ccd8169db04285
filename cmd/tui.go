package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/dbchat/dbchat/internal/monitor"
	"github.com/dbchat/dbchat/internal/shared"
	"github.com/dbchat/dbchat/internal/ui"
)

// Chat launches the interactive chat TUI.
func (r *Runner) Chat(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Chat.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, err := r.ensureEngine(ctx)
	if err != nil {
		return err
	}
	provider, err := r.ensureProvider()
	if err != nil {
		return err
	}

	monitorCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	samples := monitor.Watch(monitorCtx, 2*time.Second)

	model := ui.NewModel(ctx, engine, ui.ModelOpts{
		ProviderName: fmt.Sprintf("%s (%s)", provider.Name(), provider.Model()),
		DatabaseName: r.config.MySQL.Database,
		Samples:      samples,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
