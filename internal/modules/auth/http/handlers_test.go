package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/infra"
	phttp "github.com/garpP/sistema-de-emails-pra-API/internal/platform/http"
	"github.com/garpP/sistema-de-emails-pra-API/internal/platform/security"
)

// mailRecorder captures dispatched codes instead of sending anything.
type mailRecorder struct {
	mu        sync.Mutex
	lastTo    string
	lastCode  string
	lastKind  string
	failSends bool
}

func (r *mailRecorder) record(kind, to, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSends {
		return errors.New("smtp: connection refused")
	}
	r.lastKind, r.lastTo, r.lastCode = kind, to, code
	return nil
}

func (r *mailRecorder) SendVerification(_ context.Context, to, code string) error {
	return r.record("verification", to, code)
}

func (r *mailRecorder) SendPasswordReset(_ context.Context, to, code string) error {
	return r.record("reset", to, code)
}

func (r *mailRecorder) VerifyConnection(context.Context) bool { return true }

// credRecorder captures credential updates.
type credRecorder struct {
	mu       sync.Mutex
	verified []string
	hashes   map[string]string
}

func newCredRecorder() *credRecorder {
	return &credRecorder{hashes: map[string]string{}}
}

func (r *credRecorder) MarkVerified(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verified = append(r.verified, email)
	return nil
}

func (r *credRecorder) SetPassword(_ context.Context, email, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hashes[email] = hash
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *mailRecorder, *credRecorder) {
	t.Helper()
	mails := &mailRecorder{}
	creds := newCredRecorder()
	module := NewModule(infra.NewMemCodeStore(), creds, mails, 15*time.Minute)
	app := phttp.NewServer(phttp.Options{AppName: "test", Mail: mails}, module)
	return app, mails, creds
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestRegisterMissingEmail(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, body := postJSON(t, app, "/api/auth/register", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MISSING_FIELD", body["error_code"])
}

func TestRegisterInvalidEmail(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, body := postJSON(t, app, "/api/auth/register", map[string]any{"email": "not-an-address"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_EMAIL", body["error_code"])
}

func TestRegisterSendsCode(t *testing.T) {
	app, mails, _ := newTestApp(t)

	status, body := postJSON(t, app, "/api/auth/register", map[string]any{"email": "User@X.com"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	assert.Equal(t, "verification", mails.lastKind)
	assert.Equal(t, "user@x.com", mails.lastTo) // lower-cased before use
	assert.Len(t, mails.lastCode, 6)

	// the code never leaks into the response body
	raw, _ := json.Marshal(body)
	assert.NotContains(t, string(raw), mails.lastCode)
}

func TestRegisterDeliveryFailure(t *testing.T) {
	app, mails, _ := newTestApp(t)
	mails.failSends = true

	status, body := postJSON(t, app, "/api/auth/register", map[string]any{"email": "a@x.com"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "DELIVERY_FAILURE", body["error_code"])
}

func TestVerifyCodeFlow(t *testing.T) {
	app, mails, creds := newTestApp(t)

	status, _ := postJSON(t, app, "/api/auth/register", map[string]any{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, status)
	code := mails.lastCode

	// wrong code leaves the pending code intact
	status, body := postJSON(t, app, "/api/auth/verify-code", map[string]any{"email": "a@x.com", "code": "000000"})
	if code == "000000" {
		t.Skip("drew the one colliding code")
	}
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "CODE_MISMATCH", body["error_code"])

	// correct code succeeds and marks the address verified
	status, body = postJSON(t, app, "/api/auth/verify-code", map[string]any{"email": "a@x.com", "code": code})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, creds.verified, "a@x.com")

	// single use: the same code is gone now
	status, body = postJSON(t, app, "/api/auth/verify-code", map[string]any{"email": "a@x.com", "code": code})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "CODE_NOT_FOUND", body["error_code"])
}

func TestVerifyCodeMissingFields(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, body := postJSON(t, app, "/api/auth/verify-code", map[string]any{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MISSING_FIELD", body["error_code"])
}

func TestForgotAndResetPasswordFlow(t *testing.T) {
	app, mails, creds := newTestApp(t)

	status, _ := postJSON(t, app, "/api/auth/forgot-password", map[string]any{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "reset", mails.lastKind)
	code := mails.lastCode

	// password too short
	status, body := postJSON(t, app, "/api/auth/reset-password",
		map[string]any{"email": "a@x.com", "code": code, "new_password": "short"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_PASSWORD", body["error_code"])

	status, body = postJSON(t, app, "/api/auth/reset-password",
		map[string]any{"email": "a@x.com", "code": code, "new_password": "brand-new-password"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	hash := creds.hashes["a@x.com"]
	require.NotEmpty(t, hash)
	ok, err := security.CheckPassword(hash, "brand-new-password")
	require.NoError(t, err)
	assert.True(t, ok)

	// the reset code was consumed
	status, body = postJSON(t, app, "/api/auth/reset-password",
		map[string]any{"email": "a@x.com", "code": code, "new_password": "another-password1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "CODE_NOT_FOUND", body["error_code"])
}

func TestResetCodeNotValidForVerify(t *testing.T) {
	app, mails, _ := newTestApp(t)

	status, _ := postJSON(t, app, "/api/auth/forgot-password", map[string]any{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, status)

	status, body := postJSON(t, app, "/api/auth/verify-code",
		map[string]any{"email": "a@x.com", "code": mails.lastCode})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "CODE_NOT_FOUND", body["error_code"])
}

func TestHealthReportsSMTP(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["email_smtp"])
}
