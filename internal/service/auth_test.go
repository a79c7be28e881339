package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/market/internal/domain"
)

const testSecret = "test-secret"

type kakaoStub struct {
	tokenStatus   int
	profileStatus int
	profile       map[string]any
}

func (k *kakaoStub) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if k.tokenStatus != 0 {
			w.WriteHeader(k.tokenStatus)
			return
		}
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "abc", r.PostForm.Get("code"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "http://localhost/callback", r.PostForm.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "kakao-token",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v2/user/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer kakao-token", r.Header.Get("Authorization"))
		if k.profileStatus != 0 {
			w.WriteHeader(k.profileStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(k.profile)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestAuthService(users UserStore, kakaoURL string) *AuthService {
	return NewAuthService(users, AuthConfig{
		KakaoClientID:     "client-id",
		KakaoClientSecret: "client-secret",
		KakaoRedirectURI:  "http://localhost/callback",
		KakaoAuthURL:      kakaoURL + "/oauth/authorize",
		KakaoTokenURL:     kakaoURL + "/oauth/token",
		KakaoUserInfoURL:  kakaoURL + "/v2/user/me",
		JWTSecret:         testSecret,
		TokenTTL:          24 * time.Hour,
	}, testLogger())
}

func TestKakaoLogin(t *testing.T) {
	ctx := context.Background()
	stub := &kakaoStub{profile: map[string]any{
		"id":         555,
		"properties": map[string]any{"nickname": "neo"},
	}}
	srv := stub.server(t)
	users := newFakeUsers()
	svc := newTestAuthService(users, srv.URL)

	first, err := svc.KakaoLogin(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, first.IsMember)
	require.Len(t, users.users, 1)

	created, err := users.FindBySocialID(ctx, domain.SocialPlatformKakao, "555")
	require.NoError(t, err)
	assert.Equal(t, "neo", created.Name)
	assert.Empty(t, created.Nickname)
	assert.False(t, created.Registered())

	authed, err := svc.Authenticate(ctx, "Bearer "+first.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, authed.ID)

	second, err := svc.KakaoLogin(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, second.IsMember)
	assert.Len(t, users.users, 1)
}

func TestKakaoLoginNicknameFallback(t *testing.T) {
	stub := &kakaoStub{profile: map[string]any{
		"id": 777,
		"kakao_account": map[string]any{
			"profile": map[string]any{"nickname": "trinity"},
		},
	}}
	users := newFakeUsers()
	svc := newTestAuthService(users, stub.server(t).URL)

	_, err := svc.KakaoLogin(context.Background(), "abc")
	require.NoError(t, err)

	u, err := users.FindBySocialID(context.Background(), domain.SocialPlatformKakao, "777")
	require.NoError(t, err)
	assert.Equal(t, "trinity", u.Name)
}

func TestKakaoLoginUpstreamFailures(t *testing.T) {
	tests := []struct {
		name string
		stub *kakaoStub
	}{
		{name: "token endpoint rejects code", stub: &kakaoStub{tokenStatus: http.StatusUnauthorized}},
		{name: "profile endpoint fails", stub: &kakaoStub{profileStatus: http.StatusBadGateway}},
		{name: "profile without id", stub: &kakaoStub{profile: map[string]any{"properties": map[string]any{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUsers()
			svc := newTestAuthService(users, tt.stub.server(t).URL)

			_, err := svc.KakaoLogin(context.Background(), "abc")
			require.ErrorIs(t, err, domain.ErrUpstreamAuth)
			assert.Empty(t, users.users)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	user := users.add(domain.User{Nickname: "seller"})
	svc := newTestAuthService(users, "http://unused")

	valid, err := svc.IssueToken(user.ID)
	require.NoError(t, err)

	ghost, err := svc.IssueToken(404)
	require.NoError(t, err)

	other := newTestAuthService(users, "http://unused")
	other.jwtSecret = []byte("another-secret")
	forged, err := other.IssueToken(user.ID)
	require.NoError(t, err)

	expiredSvc := newTestAuthService(users, "http://unused")
	expiredSvc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, err := expiredSvc.IssueToken(user.ID)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"data": user.ID,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{name: "missing header", header: "", wantErr: ErrMissingAuthHeader},
		{name: "wrong scheme", header: "Token " + valid, wantErr: ErrWrongAuthScheme},
		{name: "lowercase scheme", header: "bearer " + valid, wantErr: ErrWrongAuthScheme},
		{name: "garbage token", header: "Bearer not-a-jwt", wantErr: ErrInvalidToken},
		{name: "foreign signature", header: "Bearer " + forged, wantErr: ErrInvalidToken},
		{name: "expired", header: "Bearer " + expired, wantErr: ErrInvalidToken},
		{name: "unsigned", header: "Bearer " + noneToken, wantErr: ErrInvalidToken},
		{name: "deleted user", header: "Bearer " + ghost, wantErr: ErrUnknownSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Authenticate(ctx, tt.header)
			require.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
			assert.Nil(t, got)
		})
	}

	t.Run("valid", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "Bearer "+valid)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})
}

func TestIssueTokenClaims(t *testing.T) {
	svc := newTestAuthService(newFakeUsers(), "http://unused")
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	signed, err := svc.IssueToken(7)
	require.NoError(t, err)

	claims := &tokenClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return fixed }))
	require.NoError(t, err)

	assert.Equal(t, int64(7), claims.Data)
	assert.WithinDuration(t, fixed.Add(24*time.Hour), claims.ExpiresAt.Time, 0)
}

type brokenUsers struct {
	*fakeUsers
}

func (brokenUsers) FindByID(context.Context, int64) (*domain.User, error) {
	return nil, errors.New("connection refused")
}

func TestAuthenticateStoreFailureIsNotUnauthorized(t *testing.T) {
	svc := newTestAuthService(brokenUsers{newFakeUsers()}, "http://unused")
	token, err := svc.IssueToken(1)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "Bearer "+token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}
