// Package ui is the interactive storefront view: a search box wired to the
// debouncing dispatcher, the product grid, and the cart sidebar. It renders
// state and forwards intents; every rule about carts, search, and sessions
// lives in the internal packages it calls.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/qkart/qkart/internal/api"
	"github.com/qkart/qkart/internal/cart"
	"github.com/qkart/qkart/internal/catalog"
	"github.com/qkart/qkart/internal/notify"
	"github.com/qkart/qkart/internal/search"
	"github.com/qkart/qkart/internal/session"
)

// Deps is everything the view needs from the client stack.
type Deps struct {
	Ctx        context.Context
	Catalog    *catalog.Service
	Store      *catalog.Store
	Mutator    *cart.Mutator
	Gate       session.Gate
	Dispatcher *search.Dispatcher
}

// CatalogMsg replaces the displayed catalog snapshot.
type CatalogMsg struct {
	Products  []api.Product
	NoResults bool
}

// CartMsg replaces the raw cart; the enriched cart is re-derived from it.
type CartMsg struct {
	Entries []api.CartEntry
}

// ToastMsg shows a notification in the footer.
type ToastMsg struct {
	Message  string
	Severity notify.Severity
}

type focusArea int

const (
	focusSearch focusArea = iota
	focusProducts
	focusCart
)

// Model is the bubbletea model for the browse view.
type Model struct {
	deps  Deps
	input textinput.Model

	products  []api.Product
	noResults bool
	entries   []api.CartEntry
	items     []cart.Item

	focus      focusArea
	cursor     int
	cartCursor int

	toast    string
	toastSev notify.Severity

	width  int
	height int
}

// NewModel creates the browse view model.
func NewModel(deps Deps) Model {
	input := textinput.New()
	input.Placeholder = "Search for items/categories"
	input.CharLimit = 64
	input.Width = 40
	input.Focus()
	return Model{
		deps:  deps,
		input: input,
	}
}

// Init triggers the initial catalog and cart loads; they run concurrently
// and each replaces its own slice of state on completion.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCatalog(), m.loadCart())
}

func (m Model) loadCatalog() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		deps.Catalog.FetchAll(deps.Ctx)
		return CatalogMsg{Products: deps.Store.Snapshot(), NoResults: deps.Store.NoResults()}
	}
}

func (m Model) loadCart() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		return CartMsg{Entries: deps.Mutator.Fetch(deps.Ctx, deps.Gate.Token())}
	}
}

// addToCart asks the mutator for the change; the current items and catalog
// snapshot ride along so the guards and the join see what the user sees.
func (m Model) addToCart(productID string, quantity int, preventDuplicate bool) tea.Cmd {
	deps := m.deps
	current := m.items
	products := m.products
	return func() tea.Msg {
		_, entries := deps.Mutator.AddOrUpdate(
			deps.Ctx,
			deps.Gate.Token(),
			current,
			products,
			productID,
			quantity,
			cart.AddOptions{PreventDuplicate: preventDuplicate},
		)
		if entries == nil {
			// Refused or failed; the cart stays as displayed.
			return nil
		}
		return CartMsg{Entries: entries}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case CatalogMsg:
		m.products = msg.Products
		m.noResults = msg.NoResults
		if m.cursor >= len(m.products) {
			m.cursor = max(0, len(m.products)-1)
		}
		m.refreshItems()
		return m, nil

	case CartMsg:
		m.entries = msg.Entries
		m.refreshItems()
		return m, nil

	case ToastMsg:
		m.toast = msg.Message
		m.toastSev = msg.Severity
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.deps.Dispatcher.Stop()
		return m, tea.Quit
	case tea.KeyTab:
		m.focus = (m.focus + 1) % 3
		m.syncInputFocus()
		return m, nil
	}

	switch m.focus {
	case focusSearch:
		return m.handleSearchKey(msg)
	case focusProducts:
		return m.handleProductsKey(msg)
	default:
		return m.handleCartKey(msg)
	}
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		m.deps.Dispatcher.Flush()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.deps.Dispatcher.QueryChanged(m.input.Value())
	}
	return m, cmd
}

func (m Model) handleProductsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.products)-1 {
			m.cursor++
		}
	case "enter", "a":
		if m.cursor < len(m.products) {
			return m, m.addToCart(m.products[m.cursor].ID, 1, true)
		}
	case "/":
		m.focus = focusSearch
		m.syncInputFocus()
	}
	return m, nil
}

func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cartCursor > 0 {
			m.cartCursor--
		}
	case "down", "j":
		if m.cartCursor < len(m.items)-1 {
			m.cartCursor++
		}
	case "+":
		if m.cartCursor < len(m.items) {
			item := m.items[m.cartCursor]
			return m, m.addToCart(item.ProductID, item.Quantity+1, false)
		}
	case "-":
		if m.cartCursor < len(m.items) {
			item := m.items[m.cartCursor]
			return m, m.addToCart(item.ProductID, item.Quantity-1, false)
		}
	case "/":
		m.focus = focusSearch
		m.syncInputFocus()
	}
	return m, nil
}

// refreshItems re-derives the enriched cart from its two sources. Called
// whenever either the raw cart or the catalog snapshot changes.
func (m *Model) refreshItems() {
	m.items = cart.ItemsFrom(m.entries, m.products)
	if m.cartCursor >= len(m.items) {
		m.cartCursor = max(0, len(m.items)-1)
	}
}

func (m *Model) syncInputFocus() {
	if m.focus == focusSearch {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}
