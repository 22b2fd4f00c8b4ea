// Package retry implementa a política de novas tentativas usada pelo cliente
// de atribuição: número máximo de tentativas, backoff exponencial com teto, e
// um predicado que decide se o erro é transitório.
package retry

import (
	"fmt"
	"time"
)

// Sleeper abstrai o time.Sleep para que os testes possam usar um relógio falso
type Sleeper func(d time.Duration)

// Policy define a política de novas tentativas para uma operação
type Policy struct {
	// MaxRetries é o número de novas tentativas após a primeira (>= 0)
	MaxRetries int
	// BackoffBase é a espera antes da primeira nova tentativa
	BackoffBase time.Duration
	// BackoffCap limita a espera; 0 desativa o teto
	BackoffCap time.Duration
	// Sleep é injetável para testes; nil usa time.Sleep
	Sleep Sleeper
}

// Backoff calcula a espera para a tentativa dada (0-based): base * 2^attempt,
// limitada pelo teto quando configurado
func (p Policy) Backoff(attempt int) time.Duration {
	delay := p.BackoffBase
	for i := 0; i < attempt; i++ {
		delay *= 2
		if p.BackoffCap > 0 && delay >= p.BackoffCap {
			return p.BackoffCap
		}
	}

	if p.BackoffCap > 0 && delay > p.BackoffCap {
		return p.BackoffCap
	}

	return delay
}

// Do executa a operação até MaxRetries+1 vezes. Erros para os quais o
// predicado retorna falso interrompem imediatamente (falha permanente);
// erros transitórios esgotam as tentativas e a última falha é retornada.
func (p Policy) Do(op func() error, isRetryable func(error) bool) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}

		if !isRetryable(lastErr) {
			return lastErr
		}

		if attempt < p.MaxRetries {
			sleep(p.Backoff(attempt))
		}
	}

	return fmt.Errorf("tentativas esgotadas após %d execuções: %w", p.MaxRetries+1, lastErr)
}
