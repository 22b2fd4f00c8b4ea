package ihcclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError é uma resposta não-2xx da API de scoring
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api de scoring retornou status %d: %s", e.StatusCode, e.Body)
}

// Transient indica se o status permite nova tentativa: 429 (rate limit) e 5xx
func (e *APIError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// TransportError é uma falha de rede ou timeout antes de uma resposta HTTP
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("erro de transporte na chamada à api de scoring: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransient decide se o erro justifica nova tentativa do mesmo lote:
// falhas de rede/timeout e respostas 429/5xx. Qualquer outro 4xx e respostas
// ilegíveis são permanentes.
func IsTransient(err error) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}

	return false
}
