package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avtale/avtale/internal/config"
	"github.com/avtale/avtale/internal/event_bus"
	"github.com/avtale/avtale/internal/utils"
	"github.com/avtale/avtale/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthHandler() *Handler {
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	userService := user.NewUserService(user.NewMemoryRepo(), event_bus.NewEventBus(), clock)
	issuer := NewTokenIssuer(config.Auth{Secret: "test-secret", TokenExpiry: time.Hour}, clock)
	return NewHandler(userService, issuer)
}

func postJSON(t *testing.T, handlerFunc http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handlerFunc(rec, req)
	return rec
}

func TestHandler_Register(t *testing.T) {
	// Setup
	handler := setupAuthHandler()

	// When
	rec := postJSON(t, handler.Register, "/api/auth/register", CredentialsDTO{
		Username: "frida",
		Password: "hunter2",
	})

	// Then
	require.Equal(t, http.StatusCreated, rec.Code)

	var account AccountDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&account))
	assert.NotEmpty(t, account.Uid)
	assert.Equal(t, "frida", account.Username)
	assert.Equal(t, string(user.RoleUser), account.Role)
}

func TestHandler_RegisterDuplicateUsername(t *testing.T) {
	// Setup
	handler := setupAuthHandler()
	rec := postJSON(t, handler.Register, "/api/auth/register", CredentialsDTO{Username: "frida", Password: "hunter2"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// When
	rec = postJSON(t, handler.Register, "/api/auth/register", CredentialsDTO{Username: "frida", Password: "other"})

	// Then
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_RegisterMissingPassword(t *testing.T) {
	handler := setupAuthHandler()

	rec := postJSON(t, handler.Register, "/api/auth/register", CredentialsDTO{Username: "frida"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Login(t *testing.T) {
	// Setup
	handler := setupAuthHandler()
	rec := postJSON(t, handler.Register, "/api/auth/register", CredentialsDTO{Username: "frida", Password: "hunter2"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// When
	rec = postJSON(t, handler.Login, "/api/auth/login", CredentialsDTO{Username: "frida", Password: "hunter2"})

	// Then
	require.Equal(t, http.StatusOK, rec.Code)

	var session SessionDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "frida", session.Username)
}

func TestHandler_LoginWrongPassword(t *testing.T) {
	// Setup
	handler := setupAuthHandler()
	rec := postJSON(t, handler.Register, "/api/auth/register", CredentialsDTO{Username: "frida", Password: "hunter2"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// When
	rec = postJSON(t, handler.Login, "/api/auth/login", CredentialsDTO{Username: "frida", Password: "wrong"})

	// Then
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_LoginUnknownUser(t *testing.T) {
	handler := setupAuthHandler()

	rec := postJSON(t, handler.Login, "/api/auth/login", CredentialsDTO{Username: "nobody", Password: "hunter2"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
