package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"contactdesk/internal/common"
	"contactdesk/internal/config"
)

const (
	adminRole    = "admin"
	maxBodyBytes = 1 << 20
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Message string    `json:"message"`
	User    AdminUser `json:"user"`
}

type CheckResponse struct {
	Authenticated bool   `json:"authenticated"`
	Message       string `json:"message"`
}

// Handler serves the admin session endpoints
type Handler struct {
	auth     *Authenticator
	validate *validator.Validate
	secure   bool
}

func NewHandler(a *Authenticator, cfg *config.Config) *Handler {
	return &Handler{
		auth:     a,
		validate: common.NewValidator(),
		secure:   cfg.IsProduction(),
	}
}

// RegisterRoutes mounts login, logout and auth check under /admin.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/admin/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/admin/logout", h.Logout).Methods(http.MethodPost)
	r.HandleFunc("/admin/auth/check", h.Check).Methods(http.MethodGet)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, common.CodeBadRequest, "Invalid request body")
		return
	}
	if err := common.ValidateStruct(h.validate, req); err != nil {
		common.RespondWithServiceError(w, r, err, "Login failed")
		return
	}

	if !h.auth.Authenticate(req.Username, req.Password) {
		log.Warn().Str("username", req.Username).Msg("admin login rejected")
		common.RespondWithError(w, http.StatusUnauthorized, common.CodeUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.auth.IssueToken(req.Username)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue admin token")
		common.RespondWithError(w, http.StatusInternalServerError, common.CodeStore, "Login failed")
		return
	}

	SetAuthCookie(w, token, h.secure)
	log.Info().Str("username", req.Username).Msg("admin logged in")

	common.RespondWithJSON(w, http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    AdminUser{Username: req.Username, Role: adminRole},
	})
}

// Logout always succeeds, with or without a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ClearAuthCookie(w, h.secure)
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	if !h.auth.VerifyToken(TokenFromRequest(r)) {
		common.RespondWithJSON(w, http.StatusUnauthorized, CheckResponse{
			Authenticated: false,
			Message:       "Not authenticated",
		})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, CheckResponse{
		Authenticated: true,
		Message:       "Authenticated",
	})
}
