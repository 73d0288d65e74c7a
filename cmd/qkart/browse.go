package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qkart/qkart/cmd/qkart/ui"
	"github.com/qkart/qkart/internal/search"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive storefront: search as you type, manage the cart",
	RunE:  runBrowse,
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	relay := ui.NewRelay()
	a, err := newApp(ctx, relay.Notifier(), io.Discard)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	// Each keystroke lands here via the dispatcher; only the text at rest
	// actually hits the network. An emptied search box restores the full
	// catalog.
	dispatcher := search.NewDispatcher(ctx, a.cfg.Search.Debounce, func(ctx context.Context, text string) {
		if text == "" {
			a.catalog.FetchAll(ctx)
		} else {
			a.catalog.Search(ctx, text)
		}
		relay.Send(ui.CatalogMsg{Products: a.store.Snapshot(), NoResults: a.store.NoResults()})
	})
	defer dispatcher.Stop()

	model := ui.NewModel(ui.Deps{
		Ctx:        ctx,
		Catalog:    a.catalog,
		Store:      a.store,
		Mutator:    a.mutator,
		Gate:       a.session,
		Dispatcher: dispatcher,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	relay.Bind(p)
	_, err = p.Run()
	return err
}
