package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pliu/unsent/internal/auth"
	"github.com/pliu/unsent/internal/crypto"
	"github.com/pliu/unsent/internal/models"
	"github.com/pliu/unsent/internal/store/sqlstore"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	store  *sqlstore.SQLStore
	tokens *auth.TokenService
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	codec := crypto.New("test-secret")
	db, err := sqlstore.New("sqlite3", ":memory:", codec)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	tokens := auth.NewTokenService(codec, db)
	return &testEnv{
		store:  db,
		tokens: tokens,
		router: NewRouter(db, tokens, nil),
	}
}

func (e *testEnv) createAdmin(t *testing.T, username, password string, perms models.Permissions) *models.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	admin := &models.Admin{
		Username:     username,
		PasswordHash: string(hash),
		Role:         "Admin",
		Permissions:  perms,
	}
	if _, err := e.store.CreateAdmin(admin); err != nil {
		t.Fatalf("Failed to create admin: %v", err)
	}
	return admin
}

func (e *testEnv) token(t *testing.T, admin *models.Admin) string {
	t.Helper()
	token, err := e.tokens.Issue(admin.Username, admin.ID)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}

func wantStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("handler returned wrong status code: got %v want %v (body %s)",
			rr.Code, want, rr.Body.String())
	}
}

func wantError(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	wantStatus(t, rr, status)
	var body map[string]string
	decodeBody(t, rr, &body)
	if body["error"] != message {
		t.Errorf("Expected error %q, got %q", message, body["error"])
	}
}
