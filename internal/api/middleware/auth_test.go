package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func authChain(t *testing.T, tokenHash string) http.Handler {
	t.Helper()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Auth(tokenHash)(next)
}

func TestAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-token"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	tests := []struct {
		name       string
		tokenHash  string
		token      string
		wantStatus int
	}{
		{"valid token", string(hash), "secret-token", http.StatusOK},
		{"wrong token", string(hash), "wrong", http.StatusUnauthorized},
		{"missing token", string(hash), "", http.StatusUnauthorized},
		{"hash not configured", "", "secret-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := authChain(t, tt.tokenHash)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
			if tt.token != "" {
				req.Header.Set(AuthHeader, tt.token)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := Recovery(panicking)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/kpi", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 after panic", w.Code)
	}
}
