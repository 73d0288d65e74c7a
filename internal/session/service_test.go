package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/qkart/qkart/internal/api"
	"github.com/qkart/qkart/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuthAPI struct {
	loginCalls    int
	registerCalls int
	creds         *api.Credentials
	err           error
}

func (m *mockAuthAPI) Login(_ context.Context, _, _ string) (*api.Credentials, error) {
	m.loginCalls++
	return m.creds, m.err
}

func (m *mockAuthAPI) Register(_ context.Context, _, _ string) error {
	m.registerCalls++
	return m.err
}

type recordedNote struct {
	message  string
	severity notify.Severity
}

type recorder struct {
	notes []recordedNote
}

func (r *recorder) Notify(message string, severity notify.Severity) {
	r.notes = append(r.notes, recordedNote{message: message, severity: severity})
}

func newTestService(remote AuthAPI, store CredentialStore, rec *recorder) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(remote, store, rec, logger)
}

func Test_Service_Login(t *testing.T) {
	t.Run("Validation refusal never reaches the network", func(t *testing.T) {
		testCases := []struct {
			name     string
			username string
			password string
			wantMsg  string
		}{
			{name: "Empty username", username: "", password: "criodo123", wantMsg: "Username is a required field"},
			{name: "Empty password", username: "criodo", password: "", wantMsg: "Password is a required field"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				// given
				remote := &mockAuthAPI{}
				rec := &recorder{}
				service := newTestService(remote, NewMemoryStore(), rec)
				// when
				ok := service.Login(context.Background(), tc.username, tc.password)
				// then
				assert.False(t, ok)
				assert.Zero(t, remote.loginCalls)
				require.Len(t, rec.notes, 1)
				assert.Equal(t, tc.wantMsg, rec.notes[0].message)
				assert.Equal(t, notify.Warning, rec.notes[0].severity)
			})
		}
	})

	t.Run("Success persists credentials and reports it", func(t *testing.T) {
		// given
		remote := &mockAuthAPI{creds: &api.Credentials{Token: "testtoken", Username: "criodo", Balance: 5000}}
		store := NewMemoryStore()
		rec := &recorder{}
		service := newTestService(remote, store, rec)
		// when
		ok := service.Login(context.Background(), "criodo", "criodo123")
		// then
		assert.True(t, ok)
		assert.Equal(t, "testtoken", service.Token())
		assert.Equal(t, "criodo", service.Identity())
		assert.Equal(t, int64(5000), service.Balance())
		require.Len(t, rec.notes, 1)
		assert.Equal(t, "Logged in successfully", rec.notes[0].message)
		assert.Equal(t, notify.Success, rec.notes[0].severity)
	})

	t.Run("Server refusal surfaces the verbatim message", func(t *testing.T) {
		// given
		remote := &mockAuthAPI{err: &api.StatusError{Code: http.StatusBadRequest, Message: "Password is incorrect"}}
		rec := &recorder{}
		service := newTestService(remote, NewMemoryStore(), rec)
		// when
		ok := service.Login(context.Background(), "criodo", "wrong1")
		// then
		assert.False(t, ok)
		assert.Empty(t, service.Token())
		require.Len(t, rec.notes, 1)
		assert.Equal(t, "Password is incorrect", rec.notes[0].message)
		assert.Equal(t, notify.Error, rec.notes[0].severity)
	})

	t.Run("Unreachable backend reports the generic failure", func(t *testing.T) {
		// given
		remote := &mockAuthAPI{err: api.ErrUnavailable}
		rec := &recorder{}
		service := newTestService(remote, NewMemoryStore(), rec)
		// when
		ok := service.Login(context.Background(), "criodo", "criodo123")
		// then
		assert.False(t, ok)
		require.Len(t, rec.notes, 1)
		assert.Equal(t, api.FailureMessage(api.ErrUnavailable), rec.notes[0].message)
	})
}

func Test_Service_Register(t *testing.T) {
	t.Run("Validation refusal never reaches the network", func(t *testing.T) {
		testCases := []struct {
			name            string
			username        string
			password        string
			confirmPassword string
			wantMsg         string
		}{
			{name: "Empty username", password: "criodo123", confirmPassword: "criodo123", wantMsg: "Username is a required field"},
			{name: "Short username", username: "crio", password: "criodo123", confirmPassword: "criodo123", wantMsg: "Username must be at least 6 characters"},
			{name: "Empty password", username: "criodo", wantMsg: "Password is a required field"},
			{name: "Short password", username: "criodo", password: "crio", confirmPassword: "crio", wantMsg: "Password must be at least 6 characters"},
			{name: "Mismatched confirmation", username: "criodo", password: "criodo123", confirmPassword: "criodo124", wantMsg: "Passwords do not match"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				// given
				remote := &mockAuthAPI{}
				rec := &recorder{}
				service := newTestService(remote, NewMemoryStore(), rec)
				// when
				ok := service.Register(context.Background(), tc.username, tc.password, tc.confirmPassword)
				// then
				assert.False(t, ok)
				assert.Zero(t, remote.registerCalls)
				require.Len(t, rec.notes, 1)
				assert.Equal(t, tc.wantMsg, rec.notes[0].message)
				assert.Equal(t, notify.Warning, rec.notes[0].severity)
			})
		}
	})

	t.Run("Success reports it", func(t *testing.T) {
		// given
		remote := &mockAuthAPI{}
		rec := &recorder{}
		service := newTestService(remote, NewMemoryStore(), rec)
		// when
		ok := service.Register(context.Background(), "criodo", "criodo123", "criodo123")
		// then
		assert.True(t, ok)
		assert.Equal(t, 1, remote.registerCalls)
		require.Len(t, rec.notes, 1)
		assert.Equal(t, "Registered Successfully", rec.notes[0].message)
		assert.Equal(t, notify.Success, rec.notes[0].severity)
	})

	t.Run("Taken username surfaces the verbatim message", func(t *testing.T) {
		// given
		remote := &mockAuthAPI{err: &api.StatusError{Code: http.StatusBadRequest, Message: "Username is already taken"}}
		rec := &recorder{}
		service := newTestService(remote, NewMemoryStore(), rec)
		// when
		ok := service.Register(context.Background(), "criodo", "criodo123", "criodo123")
		// then
		assert.False(t, ok)
		require.Len(t, rec.notes, 1)
		assert.Equal(t, "Username is already taken", rec.notes[0].message)
	})
}

func Test_Service_Logout(t *testing.T) {
	// given
	store := NewMemoryStore()
	require.NoError(t, store.Save(Credentials{Token: "testtoken", Username: "criodo"}))
	service := newTestService(&mockAuthAPI{}, store, &recorder{})
	// when
	err := service.Logout()
	// then
	require.NoError(t, err)
	assert.Empty(t, service.Token())
	assert.Empty(t, service.Identity())
	assert.Zero(t, service.Balance())
}

func Test_Service_GateWhenStoreFails(t *testing.T) {
	// given
	service := newTestService(&mockAuthAPI{}, failingStore{}, &recorder{})
	// then
	assert.Empty(t, service.Token())
	assert.Empty(t, service.Identity())
	assert.Zero(t, service.Balance())
}

type failingStore struct{}

func (failingStore) Load() (*Credentials, error) { return nil, errors.New("store broken") }
func (failingStore) Save(Credentials) error      { return errors.New("store broken") }
func (failingStore) Clear() error                { return errors.New("store broken") }
