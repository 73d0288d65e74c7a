// Package mockstore is an in-memory stand-in for the remote storefront
// service. It serves the same REST surface and the same error shapes the
// real backend does, so the client can be exercised locally end to end.
package mockstore

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/qkart/qkart/internal/api"
)

var (
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrBadCredentials  = errors.New("password is incorrect")
	ErrUnknownUser     = errors.New("username does not exist")
	ErrUnknownProduct  = errors.New("product doesn't exist")
	ErrInvalidToken    = errors.New("invalid token")
	defaultUserBalance = int64(5000)
)

const (
	tokenIssuer = "mockstore"
	tokenTTL    = 24 * time.Hour
)

type user struct {
	password string
	balance  int64
}

// Store holds the mock backend's state: the product catalog, registered
// users, the token signing key, and one cart per user. Bearer tokens are
// HS256-signed JWTs; the key is generated per process, so tokens do not
// survive a restart.
type Store struct {
	mu         sync.RWMutex
	products   []api.Product
	users      map[string]*user
	signingKey []byte
	carts      map[string][]api.CartEntry
}

// NewStore creates a Store seeded with the given catalog.
func NewStore(seed []api.Product) *Store {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	return &Store{
		products:   seed,
		users:      make(map[string]*user),
		signingKey: key,
		carts:      make(map[string][]api.CartEntry),
	}
}

// SeedCatalog is the demo product set.
func SeedCatalog() []api.Product {
	return []api.Product{
		{ID: "v4sLtEcMpzabRyfx", Name: "iPhone XR", Category: "Phones", Cost: 100, Rating: 4, Image: "https://i.imgur.com/lulqWzW.jpg"},
		{ID: "upLK9JbQ4rMhTwt4", Name: "Basketball", Category: "Sports", Cost: 100, Rating: 5, Image: "https://i.imgur.com/lulqWzW.jpg"},
		{ID: "BW0jAAeDJmlZCF8i", Name: "OnePlus 6", Category: "Phones", Cost: 100, Rating: 5, Image: "https://i.imgur.com/lulqWzW.jpg"},
		{ID: "KCRwjF7lN97HnEaY", Name: "Tan Leatherette Weekender Duffle", Category: "Fashion", Cost: 150, Rating: 4, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/ff071a1c-1099-48f9-9b03-f858ccc53832.png"},
		{ID: "TwMM4OAhmK0VQ93S", Name: "The Minimalist Slim Leather Watch", Category: "Electronics", Cost: 60, Rating: 5, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/5b478a4a-bf81-467c-964c-1881887799b7.png"},
		{ID: "PmInA797xJhMIPti", Name: "Borosil Bottle", Category: "Sports", Cost: 35, Rating: 4, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/d1a6a5a9-4fdc-4d8f-8e51-1f4c3f2f9e1a.png"},
	}
}

// Products returns the full catalog.
func (s *Store) Products() []api.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]api.Product, len(s.products))
	copy(products, s.products)
	return products
}

// Search returns products whose name or category contains text,
// case-insensitively. An empty query matches everything.
func (s *Store) Search(text string) []api.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(text)
	matches := make([]api.Product, 0, len(s.products))
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) {
			matches = append(matches, p)
		}
	}
	return matches
}

// Register creates a user. Returns ErrUsernameTaken for an existing name.
func (s *Store) Register(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return ErrUsernameTaken
	}
	s.users[username] = &user{password: password, balance: defaultUserBalance}
	return nil
}

// Login checks credentials and issues a signed bearer token.
func (s *Store) Login(username, password string) (token string, balance int64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, exists := s.users[username]
	if !exists {
		return "", 0, ErrUnknownUser
	}
	if u.password != password {
		return "", 0, ErrBadCredentials
	}
	signed, err := s.issueToken(username)
	if err != nil {
		return "", 0, err
	}
	return signed, u.balance, nil
}

// issueToken mints an HS256 JWT with the username as subject.
func (s *Store) issueToken(username string) (string, error) {
	now := time.Now()
	token, err := jwt.NewBuilder().
		Issuer(tokenIssuer).
		Subject(username).
		JwtID(uuid.NewString()).
		IssuedAt(now).
		Expiration(now.Add(tokenTTL)).
		Build()
	if err != nil {
		return "", err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), s.signingKey))
	if err != nil {
		return "", err
	}
	return string(signed), nil
}

// Authenticate verifies a bearer token and resolves it to a username. The
// signature, expiry, and issuer are all checked, and the subject must still
// be a registered user.
func (s *Store) Authenticate(token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	parsed, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256(), s.signingKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return "", ErrInvalidToken
	}
	username, ok := parsed.Subject()
	if !ok {
		return "", ErrInvalidToken
	}
	if _, exists := s.users[username]; !exists {
		return "", ErrInvalidToken
	}
	return username, nil
}

// Cart returns the user's raw cart.
func (s *Store) Cart(username string) []api.CartEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyEntries(s.carts[username])
}

// Upsert sets the quantity for one product in the user's cart and returns
// the full updated cart. Quantity zero removes the line.
func (s *Store) Upsert(username, productID string, quantity int) ([]api.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.productExists(productID) {
		return nil, ErrUnknownProduct
	}

	entries := s.carts[username]
	updated := make([]api.CartEntry, 0, len(entries)+1)
	found := false
	for _, entry := range entries {
		if entry.ProductID == productID {
			found = true
			if quantity > 0 {
				updated = append(updated, api.CartEntry{ProductID: productID, Quantity: quantity})
			}
			continue
		}
		updated = append(updated, entry)
	}
	if !found && quantity > 0 {
		updated = append(updated, api.CartEntry{ProductID: productID, Quantity: quantity})
	}
	s.carts[username] = updated
	return copyEntries(updated), nil
}

func (s *Store) productExists(productID string) bool {
	for _, p := range s.products {
		if p.ID == productID {
			return true
		}
	}
	return false
}

func copyEntries(entries []api.CartEntry) []api.CartEntry {
	out := make([]api.CartEntry, len(entries))
	copy(out, entries)
	return out
}
