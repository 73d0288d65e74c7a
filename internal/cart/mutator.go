package cart

import (
	"context"
	"log/slog"

	"github.com/qkart/qkart/internal/api"
	"github.com/qkart/qkart/internal/notify"
)

// API is the slice of the remote client the mutator needs.
type API interface {
	FetchCart(ctx context.Context, token string) ([]api.CartEntry, error)
	UpsertCart(ctx context.Context, token, productID string, quantity int) ([]api.CartEntry, error)
}

// AddOptions tunes the guard behavior of AddOrUpdate.
type AddOptions struct {
	// PreventDuplicate refuses the call when the product is already in the
	// cart. The catalog's "add to cart" button sets it so repeated clicks
	// stay a no-op; the cart's own quantity stepper leaves it off to change
	// quantity on purpose.
	PreventDuplicate bool
}

// Mutator orchestrates authenticated cart changes against the remote
// service. Every refusal and failure is reported through the Notifier and
// swallowed; callers always get a usable cart back.
type Mutator struct {
	api      API
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewMutator creates a Mutator over the given API slice.
func NewMutator(remote API, notifier notify.Notifier, logger *slog.Logger) *Mutator {
	return &Mutator{
		api:      remote,
		notifier: notifier,
		logger:   logger.With("component", "cart"),
	}
}

// AddOrUpdate sets the quantity of one product in the remote cart and
// returns the new enriched cart. Guards run in order and short-circuit
// before any network traffic:
//
//  1. no token: refused, the user is told to log in;
//  2. PreventDuplicate and the product already in current: refused, the user
//     is pointed at the cart controls.
//
// On success the server's response, the full authoritative raw cart,
// replaces client state wholesale and is re-joined with the given catalog
// snapshot; both the enriched cart and that raw cart are returned so callers
// can keep re-deriving when the catalog changes later. The client never
// computes the new quantity itself. On refusal or remote failure the
// previous cart is returned untouched, the raw cart return is nil, and
// nothing is retried.
func (m *Mutator) AddOrUpdate(ctx context.Context, token string, current []Item, products []api.Product, productID string, quantity int, opts AddOptions) ([]Item, []api.CartEntry) {
	if token == "" {
		m.notifier.Notify("Login to add an item to the Cart", notify.Warning)
		return current, nil
	}
	if opts.PreventDuplicate && Contains(current, productID) {
		m.notifier.Notify("Item already in cart. Use the cart sidebar to update quantity or remove item.", notify.Warning)
		return current, nil
	}

	entries, err := m.api.UpsertCart(ctx, token, productID, quantity)
	if err != nil {
		m.logger.WarnContext(ctx, "Cart update failed", "productId", productID, "quantity", quantity, "error", err)
		m.notifier.Notify(api.FailureMessage(err), notify.Error)
		return current, nil
	}
	return ItemsFrom(entries, products), entries
}

// Fetch retrieves the raw cart for the current session. A missing token
// yields nil without a network call; failures are notified and yield nil so
// the caller keeps whatever enriched cart it already shows.
func (m *Mutator) Fetch(ctx context.Context, token string) []api.CartEntry {
	if token == "" {
		return nil
	}
	entries, err := m.api.FetchCart(ctx, token)
	if err != nil {
		m.logger.WarnContext(ctx, "Cart fetch failed", "error", err)
		m.notifier.Notify("Could not fetch cart details. "+api.FailureMessage(err), notify.Error)
		return nil
	}
	return entries
}
