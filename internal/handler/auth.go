package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/sumire/market/internal/service"
)

// KakaoLoginer signs users in with a Kakao authorization code.
type KakaoLoginer interface {
	KakaoLogin(ctx context.Context, code string) (*service.LoginResult, error)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	auth KakaoLoginer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth KakaoLoginer) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type kakaoLoginRequest struct {
	Code string `json:"code" validate:"required"`
}

// KakaoLogin exchanges an OAuth code for an application token.
func (h *AuthHandler) KakaoLogin(c echo.Context) error {
	var req kakaoLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.auth.KakaoLogin(c.Request().Context(), req.Code)
	if err != nil {
		return err
	}
	return OK(c, result)
}
