// Package auth is the capability check in front of every staff operation.
// Staff trade the shared PIN and their name for a signed cookie; mutating
// handlers call Authorize to recover that name, which the core records as
// the opaque approver identity.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/akoka-events/crossover-tickets-api/internal/config"
)

const TokenDuration = 24 * time.Hour

// AuthInput is embedded in every staff-only request so huma forwards the
// auth cookie to the handler.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Auth cookie" required:"false"`
}

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// CheckPIN compares a submitted PIN against the configured staff PIN.
func (h *AuthHandler) CheckPIN(pin string) bool {
	return h.cfg.StaffPIN != "" && pin == h.cfg.StaffPIN
}

func (h *AuthHandler) GenerateToken(staffName string) (string, error) {
	claims := jwt.MapClaims{
		"staff_name": staffName,
		"exp":        time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// Authorize validates the auth cookie and returns the staff name it was
// issued to. Returns a huma 401 error on any failure.
func (h *AuthHandler) Authorize(ctx context.Context, cookieHeader string) (string, error) {
	if cookieHeader == "" {
		return "", huma.Error401Unauthorized("Unauthorized: no token found")
	}

	// Parse the raw Cookie header the way net/http would.
	header := http.Header{}
	header.Add("Cookie", cookieHeader)
	req := http.Request{Header: header}
	cookie, err := req.Cookie("auth_token")
	if err != nil {
		return "", huma.Error401Unauthorized("Unauthorized: no token found")
	}

	token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", huma.Error401Unauthorized("Unauthorized: invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", huma.Error401Unauthorized("Unauthorized: invalid token claims")
	}
	staffName, ok := claims["staff_name"].(string)
	if !ok || staffName == "" {
		return "", huma.Error401Unauthorized("Unauthorized: invalid token claims")
	}
	return staffName, nil
}

type LoginRequest struct {
	Body struct {
		PIN  string `json:"pin" doc:"Shared staff PIN" required:"true"`
		Name string `json:"name" doc:"Staff member's name, recorded as approver identity" required:"true"`
	}
}

type LoginResponse struct {
	SetCookie string `header:"Set-Cookie"`
	Body      struct {
		Message string `json:"message"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	if !h.CheckPIN(input.Body.PIN) {
		return nil, huma.Error401Unauthorized("Invalid staff PIN")
	}

	token, err := h.GenerateToken(input.Body.Name)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	cookie := http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	}

	res := &LoginResponse{SetCookie: cookie.String()}
	res.Body.Message = fmt.Sprintf("Welcome %s! You are logged in.", input.Body.Name)
	return res, nil
}

type MeRequest struct {
	AuthInput
}

type MeResponse struct {
	Body struct {
		StaffName string `json:"staff_name"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *MeRequest) (*MeResponse, error) {
	staffName, err := h.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	res := &MeResponse{}
	res.Body.StaffName = staffName
	return res, nil
}
