package ihcclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	ihcdomain "github.com/vfg2006/attribution-pipeline/infrastructure/integrator/ihc/domain"
	"github.com/vfg2006/attribution-pipeline/internal/config"
	"github.com/vfg2006/attribution-pipeline/pkg/utils"
)

type Client interface {
	ScoreJourneys(request *ihcdomain.ScoringRequest) ([]ihcdomain.ScoringResult, error)
}

type IHCClient struct {
	httpClient *http.Client
	cfg        *config.Config
}

func NewClient(cfg *config.Config) Client {
	return &IHCClient{
		httpClient: &http.Client{
			Timeout: cfg.IHC.RequestTimeout,
		},
		cfg: cfg,
	}
}

// ScoreJourneys envia um lote de jornadas para a API de scoring e devolve o
// crédito por touchpoint. A classificação transitório/permanente do erro fica
// no próprio erro (ver IsTransient); a política de novas tentativas é do
// chamador.
func (c *IHCClient) ScoreJourneys(request *ihcdomain.ScoringRequest) ([]ihcdomain.ScoringResult, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar o lote para JSON: %w", err)
	}

	logrus.WithField("journeys", len(request.Journeys)).Debug("Enviando lote para a API de scoring")
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		logrus.Trace(utils.PrettyJson(body))
	}

	req, err := http.NewRequest(http.MethodPost, c.cfg.IHC.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.IHC.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Erro de rede ou timeout: transitório
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), 512)}
	}

	var results []ihcdomain.ScoringResult
	if err := json.Unmarshal(respBody, &results); err != nil {
		// Resposta 2xx ilegível é falha permanente do lote, não transitória
		return nil, fmt.Errorf("erro ao decodificar a resposta da API de scoring: %w", err)
	}

	return results, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
