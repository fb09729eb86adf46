package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pantryman/pantryman-be/internal/auth"
	"github.com/pantryman/pantryman-be/internal/database"
	"github.com/pantryman/pantryman-be/internal/services"
)

type fakeSender struct {
	mu     sync.Mutex
	tokens []string
}

func (f *fakeSender) SendVerificationEmail(_ context.Context, _, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	return nil
}

func (f *fakeSender) lastToken(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tokens) == 0 {
		t.Fatal("no verification email was sent")
	}
	return f.tokens[len(f.tokens)-1]
}

type testEnv struct {
	server *httptest.Server
	sender *fakeSender
	tokens *auth.TokenManager
	db     *sql.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	hasher := auth.NewHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager("test-secret", "pantryman", "pantryman-app", time.Hour)
	sender := &fakeSender{}

	router := NewRouter(RouterConfig{
		AllowedOrigins:  []string{"http://localhost:3000"},
		FrontendBaseURL: "http://localhost:3000",
	},
		tokens,
		services.NewAuthService(db, hasher, tokens, sender),
		services.NewListService(db),
		services.NewItemService(db),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, sender: sender, tokens: tokens, db: db}
}

// noRedirectClient returns the raw redirect response instead of following it.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := noRedirectClient().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// signupAndLogin walks a user through the full signup/verify/login flow and
// returns their user id and bearer token.
func (e *testEnv) signupAndLogin(t *testing.T, email, password string) (string, string) {
	t.Helper()

	resp, raw := e.request(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var signup struct {
		UserID string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(raw, &signup))

	resp, _ = e.request(t, http.MethodGet, "/api/v1/auth/verify?token="+e.sender.lastToken(t), "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Location"), "verified=true")

	resp, raw = e.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var login struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(raw, &login))
	require.Equal(t, signup.UserID, login.UserID)

	return login.UserID, login.Token
}

func TestEndToEnd_AccountAndListFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// Login before verification is forbidden.
	resp, raw := env.request(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "a@x.com", "password": "longpassword",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, _ = env.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "longpassword",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/api/v1/auth/verify?token="+env.sender.lastToken(t), "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp, raw = env.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "longpassword",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(raw, &login))

	// The bearer token carries the signup-returned user id.
	principal, err := env.tokens.Validate(login.Token)
	require.NoError(t, err)
	assert.Equal(t, login.UserID, principal.UserID)

	// Create a list and an item on it.
	resp, raw = env.request(t, http.MethodPost, "/api/v1/lists", login.Token, map[string]string{"name": "Weekly shop"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var list struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))

	resp, raw = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/lists/%s/items", list.ID), login.Token,
		map[string]interface{}{"name": "Milk", "quantity": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = env.request(t, http.MethodGet, "/api/v1/lists/"+list.ID, login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &fetched))
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, "Milk", fetched.Items[0].Name)
}

func TestEndToEnd_CrossTenantIsNotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, aliceToken := env.signupAndLogin(t, "alice@x.com", "longpassword")
	_, bobToken := env.signupAndLogin(t, "bob@x.com", "longpassword")

	resp, raw := env.request(t, http.MethodPost, "/api/v1/lists", aliceToken, map[string]string{"name": "Alice's"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var list struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))

	// Bob sees Alice's list as nonexistent, on reads and writes alike.
	resp, _ = env.request(t, http.MethodGet, "/api/v1/lists/"+list.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = env.request(t, http.MethodDelete, "/api/v1/lists/"+list.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Alice's list is untouched.
	resp, _ = env.request(t, http.MethodGet, "/api/v1/lists/"+list.ID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEndToEnd_LoginErrorsAreByteIdentical(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.signupAndLogin(t, "known@x.com", "longpassword")

	respUnknown, rawUnknown := env.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "nobody@x.com", "password": "longpassword",
	})
	respWrongPw, rawWrongPw := env.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "known@x.com", "password": "wrongpassword",
	})

	assert.Equal(t, http.StatusUnauthorized, respUnknown.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, respWrongPw.StatusCode)
	assert.Equal(t, rawUnknown, rawWrongPw)
}

func TestEndToEnd_DuplicateSignupConflicts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.signupAndLogin(t, "dup@x.com", "longpassword")

	resp, _ := env.request(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "dup@x.com", "password": "otherpassword",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestEndToEnd_ProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, _ := env.request(t, http.MethodGet, "/api/v1/lists", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/api/v1/lists", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEndToEnd_PasswordChangeAndAccountDeletion(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, token := env.signupAndLogin(t, "lifecycle@x.com", "longpassword")

	resp, _ := env.request(t, http.MethodPut, "/api/v1/auth/password", token, map[string]string{
		"currentPassword": "wrongpassword", "newPassword": "newlongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.request(t, http.MethodPut, "/api/v1/auth/password", token, map[string]string{
		"currentPassword": "longpassword", "newPassword": "newlongpassword",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.request(t, http.MethodDelete, "/api/v1/auth/account", token, map[string]string{
		"password": "newlongpassword",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "lifecycle@x.com", "password": "newlongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
