package session

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/qkart/qkart/internal/api"
	"github.com/qkart/qkart/internal/notify"
)

// AuthAPI is the slice of the remote client the auth service needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*api.Credentials, error)
	Register(ctx context.Context, username, password string) error
}

// Service performs login/register against the remote service and persists
// the resulting credentials. It implements Gate for everything downstream.
// Outcomes are reported through the Notifier, including input validation
// refusals, which never reach the network.
type Service struct {
	api      AuthAPI
	store    CredentialStore
	notifier notify.Notifier
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService creates an auth service over the given API slice and store.
func NewService(remote AuthAPI, store CredentialStore, notifier notify.Notifier, logger *slog.Logger) *Service {
	return &Service{
		api:      remote,
		store:    store,
		notifier: notifier,
		validate: validator.New(),
		logger:   logger.With("component", "session"),
	}
}

type loginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type registerInput struct {
	Username        string `validate:"required,min=6"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

// Login authenticates and stores the returned credentials. Reports the
// outcome through the Notifier and returns whether login succeeded.
func (s *Service) Login(ctx context.Context, username, password string) bool {
	input := loginInput{Username: username, Password: password}
	if err := s.validate.Struct(input); err != nil {
		s.notifier.Notify(loginValidationMessage(err), notify.Warning)
		return false
	}

	creds, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.logger.WarnContext(ctx, "Login failed", "username", username, "error", err)
		s.notifier.Notify(api.FailureMessage(err), notify.Error)
		return false
	}
	if err := s.store.Save(Credentials{Token: creds.Token, Username: creds.Username, Balance: creds.Balance}); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist session", "error", err)
		s.notifier.Notify("Logged in, but the session could not be saved", notify.Warning)
		return true
	}
	s.notifier.Notify("Logged in successfully", notify.Success)
	return true
}

// Register creates an account. Reports the outcome through the Notifier and
// returns whether registration succeeded.
func (s *Service) Register(ctx context.Context, username, password, confirmPassword string) bool {
	input := registerInput{Username: username, Password: password, ConfirmPassword: confirmPassword}
	if err := s.validate.Struct(input); err != nil {
		s.notifier.Notify(registerValidationMessage(err), notify.Warning)
		return false
	}

	if err := s.api.Register(ctx, username, password); err != nil {
		s.logger.WarnContext(ctx, "Registration failed", "username", username, "error", err)
		s.notifier.Notify(api.FailureMessage(err), notify.Error)
		return false
	}
	s.notifier.Notify("Registered Successfully", notify.Success)
	return true
}

// Logout clears the stored credentials.
func (s *Service) Logout() error {
	return s.store.Clear()
}

// Token implements Gate.
func (s *Service) Token() string {
	creds, err := s.store.Load()
	if err != nil || creds == nil {
		return ""
	}
	return creds.Token
}

// Identity implements Gate.
func (s *Service) Identity() string {
	creds, err := s.store.Load()
	if err != nil || creds == nil {
		return ""
	}
	return creds.Username
}

// Balance returns the signed-in user's wallet balance, zero when signed out.
func (s *Service) Balance() int64 {
	creds, err := s.store.Load()
	if err != nil || creds == nil {
		return 0
	}
	return creds.Balance
}

// loginValidationMessage maps the first failed login rule to the message the
// storefront has always shown for it.
func loginValidationMessage(err error) string {
	for _, fieldErr := range validationErrors(err) {
		switch fieldErr.Field() {
		case "Username":
			return "Username is a required field"
		case "Password":
			return "Password is a required field"
		}
	}
	return "Invalid input"
}

// registerValidationMessage does the same for the register form's rules.
func registerValidationMessage(err error) string {
	for _, fieldErr := range validationErrors(err) {
		switch fieldErr.Field() {
		case "Username":
			if fieldErr.Tag() == "min" {
				return "Username must be at least 6 characters"
			}
			return "Username is a required field"
		case "Password":
			if fieldErr.Tag() == "min" {
				return "Password must be at least 6 characters"
			}
			return "Password is a required field"
		case "ConfirmPassword":
			return "Passwords do not match"
		}
	}
	return "Invalid input"
}

func validationErrors(err error) validator.ValidationErrors {
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		return fieldErrs
	}
	return nil
}
