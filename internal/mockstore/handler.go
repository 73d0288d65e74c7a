package mockstore

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/qkart/qkart/pkg/web"
)

// Handler serves the storefront REST surface from a Store.
type Handler struct {
	store    *Store
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new Handler over the given store.
func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the mock storefront.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.Products)
		r.Get("/products/search", h.Search)
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Get("/cart", h.Cart)
		r.Post("/cart", h.UpsertCart)
	})

	r.Get("/healthz", h.HealthCheck)
}

type credentialsDto struct {
	Username string `json:"username" validate:"required,min=6"`
	Password string `json:"password" validate:"required,min=6"`
}

type upsertDto struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"qty"       validate:"gte=0"`
}

type loginResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Balance  int64  `json:"balance"`
}

// Products returns the full catalog.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	products := h.store.Products()
	mLogger.DebugContext(r.Context(), "Serving catalog", "count", len(products))
	web.RespondJSON(w, mLogger, http.StatusOK, products)
}

// Search returns the catalog filtered by the value query parameter.
// Zero matches is answered with 404, the way the real service does.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	value := r.URL.Query().Get("value")
	matches := h.store.Search(value)
	mLogger.DebugContext(r.Context(), "Serving search", "value", value, "count", len(matches))
	if len(matches) == 0 {
		web.RespondError(w, mLogger, http.StatusNotFound, "Products not found")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, matches)
}

// Register creates a new user account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto credentialsDto
	if !h.decodeValid(w, r, mLogger, &dto, "Username and password must be at least 6 characters") {
		return
	}
	if err := h.store.Register(dto.Username, dto.Password); err != nil {
		mLogger.WarnContext(r.Context(), "Registration rejected", "username", dto.Username, "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Username is already taken")
		return
	}
	mLogger.InfoContext(r.Context(), "User registered", "username", dto.Username)
	web.RespondJSON(w, mLogger, http.StatusCreated, map[string]bool{"success": true})
}

// Login authenticates a user and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto credentialsDto
	if !h.decodeValid(w, r, mLogger, &dto, "Username and password must be at least 6 characters") {
		return
	}
	token, balance, err := h.store.Login(dto.Username, dto.Password)
	if err != nil {
		mLogger.WarnContext(r.Context(), "Login rejected", "username", dto.Username, "error", err)
		message := "Password is incorrect"
		if errors.Is(err, ErrUnknownUser) {
			message = "Username does not exist"
		}
		web.RespondError(w, mLogger, http.StatusBadRequest, message)
		return
	}
	mLogger.InfoContext(r.Context(), "User logged in", "username", dto.Username)
	web.RespondJSON(w, mLogger, http.StatusCreated, loginResponse{
		Success:  true,
		Token:    token,
		Username: dto.Username,
		Balance:  balance,
	})
}

// Cart returns the authenticated user's raw cart.
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	username, ok := h.authenticated(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, h.store.Cart(username))
}

// UpsertCart sets the quantity of a product in the authenticated user's cart
// and returns the full updated cart.
func (h *Handler) UpsertCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	username, ok := h.authenticated(w, r, mLogger)
	if !ok {
		return
	}
	var dto upsertDto
	if !h.decodeValid(w, r, mLogger, &dto, "Invalid cart request") {
		return
	}
	entries, err := h.store.Upsert(username, dto.ProductID, dto.Quantity)
	if err != nil {
		mLogger.WarnContext(r.Context(), "Cart update rejected", "productId", dto.ProductID, "error", err)
		web.RespondError(w, mLogger, http.StatusNotFound, "Product doesn't exist")
		return
	}
	mLogger.InfoContext(r.Context(), "Cart updated", "username", username, "productId", dto.ProductID, "qty", dto.Quantity)
	web.RespondJSON(w, mLogger, http.StatusOK, entries)
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) authenticated(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	token, ok := web.BearerToken(r)
	if !ok {
		web.RespondError(w, logger, http.StatusUnauthorized, "Protected route, Oauth2 Bearer token not found")
		return "", false
	}
	username, err := h.store.Authenticate(token)
	if err != nil {
		web.RespondError(w, logger, http.StatusUnauthorized, "Protected route, Oauth2 Bearer token invalid")
		return "", false
	}
	return username, true
}

func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dto any, invalidMsg string) bool {
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dto); err != nil {
		logger.WarnContext(r.Context(), "Request validation failed", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, invalidMsg)
		return false
	}
	return true
}

func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	if reqID, ok := web.GetRequestID(r.Context()); ok && reqID != "" {
		return h.logger.With("request_id", reqID)
	}
	return h.logger
}
