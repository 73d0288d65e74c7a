package mockstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Store_TokenRoundTrip(t *testing.T) {
	// given
	store := NewStore(SeedCatalog())
	require.NoError(t, store.Register("criodo", "criodo123"))
	// when
	token, balance, err := store.Login("criodo", "criodo123")
	// then
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, defaultUserBalance, balance)

	username, err := store.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "criodo", username)
}

func Test_Store_Authenticate_Rejections(t *testing.T) {
	t.Run("Garbage token", func(t *testing.T) {
		// given
		store := NewStore(SeedCatalog())
		// when
		_, err := store.Authenticate("not-a-token")
		// then
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Token signed by a different instance", func(t *testing.T) {
		// given: two stores, each with its own signing key
		issuing := NewStore(SeedCatalog())
		other := NewStore(SeedCatalog())
		require.NoError(t, issuing.Register("criodo", "criodo123"))
		require.NoError(t, other.Register("criodo", "criodo123"))
		token, _, err := issuing.Login("criodo", "criodo123")
		require.NoError(t, err)
		// when
		_, authErr := other.Authenticate(token)
		// then
		assert.ErrorIs(t, authErr, ErrInvalidToken)
	})
}

func Test_Store_Login_Rejections(t *testing.T) {
	// given
	store := NewStore(SeedCatalog())
	require.NoError(t, store.Register("criodo", "criodo123"))
	// when / then
	_, _, err := store.Login("nobody", "criodo123")
	assert.ErrorIs(t, err, ErrUnknownUser)
	_, _, err = store.Login("criodo", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
}
