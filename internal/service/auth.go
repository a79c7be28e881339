package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/sumire/market/internal/domain"
)

const (
	bearerPrefix = "Bearer "

	defaultKakaoAuthURL     = "https://kauth.kakao.com/oauth/authorize"
	defaultKakaoTokenURL    = "https://kauth.kakao.com/oauth/token"
	defaultKakaoUserInfoURL = "https://kapi.kakao.com/v2/user/me"
)

// Credential failures. Each one is a 401 with a generic client message.
var (
	ErrMissingAuthHeader = domain.Errorf(domain.ErrUnauthorized, "Access token required")
	ErrWrongAuthScheme   = domain.Errorf(domain.ErrUnauthorized, "Invalid access token type")
	ErrInvalidToken      = domain.Errorf(domain.ErrUnauthorized, "Invalid token")
	ErrUnknownSubject    = domain.Errorf(domain.ErrUnauthorized, "Invalid user")
)

// UserStore defines the user data access interface consumed by AuthService.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindBySocialID(ctx context.Context, platform domain.SocialPlatform, socialID string) (*domain.User, error)
	CreateSocialUser(ctx context.Context, platform domain.SocialPlatform, socialID, name string) (*domain.User, error)
}

// AuthConfig holds OAuth and token configuration.
type AuthConfig struct {
	KakaoClientID     string
	KakaoClientSecret string
	KakaoRedirectURI  string
	KakaoAuthURL      string
	KakaoTokenURL     string
	KakaoUserInfoURL  string
	JWTSecret         string
	TokenTTL          time.Duration
}

// AuthService verifies bearer tokens and signs users in through Kakao.
type AuthService struct {
	users            UserStore
	jwtSecret        []byte
	tokenTTL         time.Duration
	kakao            *oauth2.Config
	kakaoUserInfoURL string
	logger           *slog.Logger
	now              func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, cfg AuthConfig, logger *slog.Logger) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  ttl,
		kakao: &oauth2.Config{
			ClientID:     cfg.KakaoClientID,
			ClientSecret: cfg.KakaoClientSecret,
			RedirectURL:  cfg.KakaoRedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   orDefault(cfg.KakaoAuthURL, defaultKakaoAuthURL),
				TokenURL:  orDefault(cfg.KakaoTokenURL, defaultKakaoTokenURL),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		kakaoUserInfoURL: orDefault(cfg.KakaoUserInfoURL, defaultKakaoUserInfoURL),
		logger:           logger,
		now:              time.Now,
	}
}

// LoginResult is returned by KakaoLogin.
type LoginResult struct {
	AccessToken string `json:"accessToken"`
	IsMember    bool   `json:"isMember"`
}

// KakaoLogin exchanges an authorization code for a Kakao identity, provisions
// a local user on first login and issues an access token.
func (s *AuthService) KakaoLogin(ctx context.Context, code string) (*LoginResult, error) {
	token, err := s.kakao.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("kakao token exchange failed", "error", err)
		return nil, fmt.Errorf("%w: kakao token exchange: %v", domain.ErrUpstreamAuth, err)
	}

	profile, err := s.fetchKakaoProfile(ctx, token)
	if err != nil {
		s.logger.Warn("kakao profile fetch failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamAuth, err)
	}
	socialID := strconv.FormatInt(profile.ID, 10)

	isMember := true
	user, err := s.users.FindBySocialID(ctx, domain.SocialPlatformKakao, socialID)
	if errors.Is(err, domain.ErrNotFound) {
		isMember = false
		user, err = s.users.CreateSocialUser(ctx, domain.SocialPlatformKakao, socialID, profile.nickname())
	}
	if err != nil {
		return nil, fmt.Errorf("resolve kakao user %s: %w", socialID, err)
	}

	accessToken, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("kakao login", "user_id", user.ID, "is_member", isMember)
	return &LoginResult{AccessToken: accessToken, IsMember: isMember}, nil
}

type tokenClaims struct {
	Data int64 `json:"data"`
	jwt.RegisteredClaims
}

// IssueToken signs an access token whose subject claim "data" is the user id.
func (s *AuthService) IssueToken(userID int64) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Data: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Authenticate resolves the raw Authorization header to a user.
func (s *AuthService) Authenticate(ctx context.Context, header string) (*domain.User, error) {
	if header == "" {
		s.logger.Warn("authentication failed", "reason", "missing authorization header")
		return nil, ErrMissingAuthHeader
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		s.logger.Warn("authentication failed", "reason", "bearer scheme required")
		return nil, ErrWrongAuthScheme
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, bearerPrefix), claims,
		func(*jwt.Token) (any, error) { return s.jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.Warn("authentication failed", "reason", "invalid token", "error", err)
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.Data)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("authentication failed", "reason", "unknown subject", "user_id", claims.Data)
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("resolve token subject %d: %w", claims.Data, err)
	}
	return user, nil
}

type kakaoProfile struct {
	ID         int64 `json:"id"`
	Properties struct {
		Nickname string `json:"nickname"`
	} `json:"properties"`
	KakaoAccount struct {
		Profile struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

func (p kakaoProfile) nickname() string {
	if p.Properties.Nickname != "" {
		return p.Properties.Nickname
	}
	return p.KakaoAccount.Profile.Nickname
}

func (s *AuthService) fetchKakaoProfile(ctx context.Context, token *oauth2.Token) (*kakaoProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.kakaoUserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	resp, err := s.kakao.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch kakao profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("kakao profile returned status %d", resp.StatusCode)
	}

	var profile kakaoProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode kakao profile: %w", err)
	}
	if profile.ID == 0 {
		return nil, errors.New("kakao profile has no id")
	}
	return &profile, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
