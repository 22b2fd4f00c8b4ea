package ihcclient

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ihcdomain "github.com/vfg2006/attribution-pipeline/infrastructure/integrator/ihc/domain"
	"github.com/vfg2006/attribution-pipeline/internal/config"
)

func clientFor(serverURL string) Client {
	return NewClient(&config.Config{
		IHC: config.IHC{
			BaseURL:    serverURL,
			APIKey:     "chave-de-teste",
			ConvTypeID: "orders",
		},
	})
}

func scoringRequest() *ihcdomain.ScoringRequest {
	return &ihcdomain.ScoringRequest{
		ConversionType: "orders",
		Journeys: []ihcdomain.JourneyPayload{
			{
				ConvID: "conv-1",
				Touchpoints: []ihcdomain.TouchpointPayload{
					{
						SessionID: "s1",
						Channel:   "Paid Search",
						Timestamp: "2024-01-19T10:00:00Z",
					},
				},
			},
		},
	}
}

func TestIHCClient_ScoreJourneys(t *testing.T) {
	var received struct {
		apiKey      string
		contentType string
		payload     ihcdomain.ScoringRequest
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.apiKey = r.Header.Get("x-api-key")
		received.contentType = r.Header.Get("Content-Type")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received.payload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"conv_id":"conv-1","session_id":"s1","ihc":1.0}]`))
	}))
	defer server.Close()

	client := clientFor(server.URL)

	results, err := client.ScoreJourneys(scoringRequest())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "conv-1", results[0].ConvID)
	assert.Equal(t, "s1", results[0].SessionID)
	assert.Equal(t, 1.0, results[0].IHC)

	assert.Equal(t, "chave-de-teste", received.apiKey)
	assert.Equal(t, "application/json", received.contentType)
	assert.Equal(t, "orders", received.payload.ConversionType)
	require.Len(t, received.payload.Journeys, 1)
	assert.Equal(t, "conv-1", received.payload.Journeys[0].ConvID)
}

func TestIHCClient_ScoreJourneys_ClassificacaoDeErros(t *testing.T) {
	tests := []struct {
		name          string
		statusCode    int
		wantTransient bool
	}{
		{
			name:          "429 é transitório",
			statusCode:    http.StatusTooManyRequests,
			wantTransient: true,
		},
		{
			name:          "500 é transitório",
			statusCode:    http.StatusInternalServerError,
			wantTransient: true,
		},
		{
			name:          "503 é transitório",
			statusCode:    http.StatusServiceUnavailable,
			wantTransient: true,
		},
		{
			name:          "400 é permanente",
			statusCode:    http.StatusBadRequest,
			wantTransient: false,
		},
		{
			name:          "401 é permanente",
			statusCode:    http.StatusUnauthorized,
			wantTransient: false,
		},
		{
			name:          "422 é permanente",
			statusCode:    http.StatusUnprocessableEntity,
			wantTransient: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "erro simulado", tt.statusCode)
			}))
			defer server.Close()

			client := clientFor(server.URL)

			results, err := client.ScoreJourneys(scoringRequest())
			require.Error(t, err)
			assert.Nil(t, results)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.statusCode, apiErr.StatusCode)
			assert.Equal(t, tt.wantTransient, IsTransient(err))
		})
	}
}

func TestIHCClient_ScoreJourneys_ErroDeRedeEhTransitorio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // endereço sem ninguém ouvindo

	client := clientFor(server.URL)

	_, err := client.ScoreJourneys(scoringRequest())
	require.Error(t, err)

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
	assert.True(t, IsTransient(err))
}

func TestIHCClient_ScoreJourneys_RespostaIlegivelEhPermanente(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("isso não é JSON"))
	}))
	defer server.Close()

	client := clientFor(server.URL)

	_, err := client.ScoreJourneys(scoringRequest())
	require.Error(t, err)
	assert.False(t, IsTransient(err))

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
