package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/vfg2006/attribution-pipeline/pkg/apiErrors"
)

const tokenHeader = "X-Ops-Token"

// TokenMiddleware protege as rotas de operação com um token estático.
// Token vazio na configuração desativa a proteção (uso local).
func TokenMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" {
				provided := r.Header.Get(tokenHeader)
				if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
					apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Token de operação inválido ou ausente", nil)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
