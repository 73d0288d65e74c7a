package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/qkart/qkart/internal/api"
	"github.com/qkart/qkart/internal/notify"
)

// Fetcher is the slice of the remote API the catalog needs.
type Fetcher interface {
	Products(ctx context.Context) ([]api.Product, error)
	SearchProducts(ctx context.Context, value string) ([]api.Product, error)
}

// Service fetches product sets and replaces the Store with the result.
// Failures are reported through the Notifier and swallowed; the store keeps
// its last-known-good snapshot.
type Service struct {
	fetcher  Fetcher
	store    *Store
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService creates a catalog service over the given fetcher and store.
func NewService(fetcher Fetcher, store *Store, notifier notify.Notifier, logger *slog.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		logger:   logger.With("component", "catalog"),
	}
}

// Store returns the store this service replaces.
func (s *Service) Store() *Store {
	return s.store
}

// FetchAll loads the unfiltered catalog. Returns true when the store was
// replaced.
func (s *Service) FetchAll(ctx context.Context) bool {
	products, err := s.fetcher.Products(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Catalog fetch failed", "error", err)
		s.notifier.Notify(api.FailureMessage(err), notify.Error)
		return false
	}
	s.store.Replace(products)
	return true
}

// Search loads the catalog filtered by text. A zero-match answer is a valid
// outcome, not a failure: the store is emptied, the no-results indicator
// set, and the user told.
func (s *Service) Search(ctx context.Context, text string) bool {
	products, err := s.fetcher.SearchProducts(ctx, text)
	if err != nil {
		if errors.Is(err, api.ErrNoMatch) {
			s.store.ReplaceEmpty()
			s.notifier.Notify("No products found", notify.Warning)
			return true
		}
		s.logger.WarnContext(ctx, "Product search failed", "text", text, "error", err)
		s.notifier.Notify(api.FailureMessage(err), notify.Error)
		return false
	}
	s.store.Replace(products)
	return true
}
