package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"eventieBot/internal/config"
	"eventieBot/internal/transport/httpServer/handlers/dto"
	"eventieBot/internal/utils"
	"eventieBot/internal/utils/logger/sl"

	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	cfg *config.Config
	log *slog.Logger
}

func NewAuthHandler(log *slog.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg: cfg,
		log: log,
	}
}

// Login handles POST /api/v1/login. A valid password is exchanged for
// a bearer token accepted by the protected endpoints.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.AuthHandler.Login()"
	log := h.log.With(slog.String("op", op))

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(log, fmt.Errorf("cannot decode json: %w", err), w, http.StatusBadRequest)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.HttpServer.Password)) != 1 {
		h.respondError(log, fmt.Errorf("invalid password"), w, http.StatusUnauthorized)
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"iat": now.Unix(),
		"exp": now.Add(h.cfg.HttpServer.TokenTTL).Unix(),
	})

	signed, err := token.SignedString([]byte(h.cfg.HttpServer.Secret))
	if err != nil {
		h.respondError(log, fmt.Errorf("failed to sign token: %w", err), w, http.StatusInternalServerError)
		return
	}

	log.Info("admin token issued")

	if err := utils.Json(w, http.StatusOK, dto.LoginResponse{Token: signed}); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *AuthHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
