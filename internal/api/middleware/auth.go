package middleware

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"riskguard/pkg/utils"
)

// AuthHeader - заголовок с операторским токеном
const AuthHeader = "X-Auth-Token"

// Auth - middleware аутентификации операторского API.
//
// Проверяет заголовок X-Auth-Token против bcrypt-хеша из конфигурации.
// В хранилище и конфигурации живёт только хеш: утечка конфига не
// раскрывает токен. bcrypt.CompareHashAndPassword работает за
// константное время относительно содержимого токена.
//
// Пустой tokenHash запрещает весь доступ: API без настроенного
// токена закрыт, а не открыт.
func Auth(tokenHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				utils.Warn("api auth token hash not configured, rejecting request",
					utils.String("path", r.URL.Path))
				unauthorized(w)
				return
			}

			token := r.Header.Get(AuthHeader)
			if token == "" {
				unauthorized(w)
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				utils.Warn("api auth failed",
					utils.String("path", r.URL.Path),
					utils.String("remote_addr", r.RemoteAddr))
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized"}`))
}
