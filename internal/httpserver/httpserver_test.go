package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/akulikov/class_registration/internal/blacklist"
	"github.com/akulikov/class_registration/internal/mfa"
	"github.com/akulikov/class_registration/internal/models"
	"github.com/akulikov/class_registration/internal/repo"
	"github.com/akulikov/class_registration/internal/service"
	"github.com/akulikov/class_registration/internal/transport"
)

type testEnv struct {
	e    *echo.Echo
	auth *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Class{}, &models.Registration{}))

	store := &repo.GormRepo{DB: db}
	seedCatalog(t, store)

	tokenSvc, err := service.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), blacklist.NewMemory())
	require.NoError(t, err)

	mfaMgr := mfa.NewManager(mfa.NewMemoryStore())
	authSvc := &service.AuthService{Repo: store, Tokens: tokenSvc, MFA: mfaMgr}
	regSvc := &service.RegistrationService{Repo: store}
	catalogSvc := &service.CatalogService{Repo: store}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:         &AuthHTTP{Svc: authSvc},
		RegistrationHandler: &RegistrationHTTP{Svc: regSvc},
		CatalogHandler:      &CatalogHTTP{Svc: catalogSvc},
		Tokens:              tokenSvc,
	})

	return &testEnv{e: e, auth: authSvc}
}

func seedCatalog(t *testing.T, store *repo.GormRepo) {
	t.Helper()

	ctx := context.Background()
	classes := []models.Class{
		{ClassID: "IFT 593", ClassName: "Applied Project", Credits: 3},
		{ClassID: "IFT 511", ClassName: "Analysis of Algorithms", Credits: 3},
	}
	for i := range classes {
		require.NoError(t, store.UpsertClass(ctx, &classes[i]))
	}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// registerUser signs up a fresh user; registration hands back a token
// pair directly, MFA only gates subsequent logins.
func (env *testEnv) registerUser(t *testing.T, username string) transport.TokenPairResponse {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/register", "", transport.RegisterRequest{
		Username: username,
		Email:    username + "@example.edu",
		FullName: "Test User",
		Password: "Secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var pair transport.TokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair
}

func TestHTTP_Register_ReturnsPair(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	pair := env.registerUser(t, "jdoe")
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.AccessExp.Before(pair.RefreshExp))
}

func TestHTTP_Login_RequiresMFA(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.registerUser(t, "jdoe")

	rec := env.do(t, http.MethodPost, "/login", "", transport.LoginRequest{Username: "jdoe", Password: "Secret123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var res transport.MFAPendingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.MFARequired)
	assert.NotZero(t, res.UserID)
	assert.NotContains(t, rec.Body.String(), "code")
}

func TestHTTP_VerifyMFA_FlowAndLockout(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.registerUser(t, "jdoe")

	rec := env.do(t, http.MethodPost, "/login", "", transport.LoginRequest{Username: "jdoe", Password: "Secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	var pending transport.MFAPendingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))

	for i := 0; i < mfa.MaxAttempts; i++ {
		rec = env.do(t, http.MethodPost, "/verify-mfa", "", transport.VerifyMFARequest{UserID: pending.UserID, Code: "wrongg"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/verify-mfa", "", transport.VerifyMFARequest{UserID: pending.UserID, Code: "wrongg"})
	assert.Equal(t, http.StatusLocked, rec.Code)
}

func TestHTTP_VerifyMFA_Success(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.registerUser(t, "jdoe")

	res, err := env.auth.Login(context.Background(), "jdoe", "Secret123")
	require.NoError(t, err)
	require.True(t, res.MFARequired)

	rec := env.do(t, http.MethodPost, "/verify-mfa", "", transport.VerifyMFARequest{UserID: res.UserID, Code: res.Code})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair transport.TokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	assert.NotEmpty(t, pair.AccessToken)
}

func TestHTTP_BearerCarrier(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	pair := env.registerUser(t, "jdoe")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + pair.AccessToken, want: http.StatusUnauthorized},
		{name: "no token", header: "Bearer ", want: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + pair.AccessToken, want: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/available", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			env.e.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestHTTP_EnrollFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	pair := env.registerUser(t, "jdoe")
	token := pair.AccessToken

	rec := env.do(t, http.MethodPost, "/enroll", token, transport.EnrollRequest{ClassID: "IFT 593"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "enrolled in IFT 593")

	rec = env.do(t, http.MethodPost, "/enroll", token, transport.EnrollRequest{ClassID: "IFT 593"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already enrolled")

	rec = env.do(t, http.MethodPost, "/unenroll", token, transport.EnrollRequest{ClassID: "IFT 593"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dropped IFT 593")

	rec = env.do(t, http.MethodPost, "/enroll", token, transport.EnrollRequest{ClassID: "IFT 593"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "re-enrolled in IFT 593")
}

func TestHTTP_Enroll_UnknownClass(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	pair := env.registerUser(t, "jdoe")

	rec := env.do(t, http.MethodPost, "/enroll", pair.AccessToken, transport.EnrollRequest{ClassID: "IFT 999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTP_Unenroll_NotEnrolled(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	pair := env.registerUser(t, "jdoe")

	rec := env.do(t, http.MethodPost, "/unenroll", pair.AccessToken, transport.EnrollRequest{ClassID: "IFT 593"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enrolled")
}

func TestHTTP_CatalogLists(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	pair := env.registerUser(t, "jdoe")
	token := pair.AccessToken

	rec := env.do(t, http.MethodPost, "/enroll", token, transport.EnrollRequest{ClassID: "IFT 593"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/enrolled", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "IFT 593")

	rec = env.do(t, http.MethodGet, "/available", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "IFT 593")
	assert.Contains(t, rec.Body.String(), "IFT 511")

	rec = env.do(t, http.MethodGet, "/dropped", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "IFT 593")
}

func TestHTTP_Logout_RevokesToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	pair := env.registerUser(t, "jdoe")
	token := pair.AccessToken

	rec := env.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/available", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "revoked")
}

func TestHTTP_Refresh(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	pair := env.registerUser(t, "jdoe")

	rec := env.do(t, http.MethodPost, "/refresh", "", transport.RefreshRequest{RefreshToken: pair.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var fresh transport.TokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fresh))
	assert.NotEmpty(t, fresh.AccessToken)

	// replaying the consumed refresh token fails
	rec = env.do(t, http.MethodPost, "/refresh", "", transport.RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHTTP_SearchUnconfigured(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	pair := env.registerUser(t, "jdoe")

	rec := env.do(t, http.MethodGet, "/search?q=algorithms", pair.AccessToken, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
