package handler

import (
	"net/http"
	"time"

	"github.com/Profanor/bullafric-fintech-api/internal/api/middleware"
	"github.com/Profanor/bullafric-fintech-api/internal/api/problem"
	"github.com/Profanor/bullafric-fintech-api/internal/models"
	"github.com/Profanor/bullafric-fintech-api/internal/service"
	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	auth            *service.AuthService
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthHandler(auth *service.AuthService, accessTTL, refreshTTL time.Duration) *AuthHandler {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthHandler{auth: auth, accessTokenTTL: accessTTL, refreshTokenTTL: refreshTTL}
}

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type registerResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Register creates a user with a zero-balance wallet.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.Type("invalid-request-body"), "Invalid Request Body", err.Error())
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, registerResponse{
		ID:          user.ID.String(),
		Username:    user.Username,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
	})
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login verifies credentials and issues an access/refresh token pair.
// The login field accepts either an email address or a phone number.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.Type("invalid-request-body"), "Invalid Request Body", err.Error())
		return
	}
	if req.Login == "" || req.Password == "" {
		problem.Write(w, r, http.StatusBadRequest, problem.Type("invalid-request-body"), "Invalid Request Body", "login and password are required")
		return
	}

	user, err := h.auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	access, err := h.issueToken(user, h.accessTokenTTL, "access")
	if err != nil {
		RespondError(w, r, err)
		return
	}
	refresh, err := h.issueToken(user, h.refreshTokenTTL, "refresh")
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, loginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(h.accessTokenTTL.Seconds()),
	})
}

func (h *AuthHandler) issueToken(user *models.User, ttl time.Duration, use string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"use":     use,
		"sub":     user.ID.String(),
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	if iss := middleware.JWTIssuer(); iss != "" {
		claims["iss"] = iss
	}
	if aud := middleware.JWTAudience(); aud != "" {
		claims["aud"] = aud
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(middleware.JWTSecret())
}
