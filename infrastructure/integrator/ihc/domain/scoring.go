package domain

// TouchpointPayload é uma sessão no formato esperado pela API de scoring
type TouchpointPayload struct {
	SessionID             string `json:"session_id"`
	Channel               string `json:"channel"`
	Timestamp             string `json:"timestamp"`
	HolderEngagement      bool   `json:"holder_engagement"`
	CloserEngagement      bool   `json:"closer_engagement"`
	ImpressionInteraction bool   `json:"impression_interaction"`
}

// JourneyPayload é uma jornada no formato esperado pela API de scoring
type JourneyPayload struct {
	ConvID      string              `json:"conv_id"`
	Touchpoints []TouchpointPayload `json:"touchpoints"`
}

// RedistributionRule define como o crédito de um papel (initializer, holder,
// closer) é redistribuído entre canais
type RedistributionRule struct {
	Direction                   string   `json:"direction"`
	ReceiveThreshold            float64  `json:"receive_threshold"`
	RedistributionChannelLabels []string `json:"redistribution_channel_labels"`
}

// RedistributionParameter agrupa as regras de redistribuição dos três papéis
// do modelo IHC
type RedistributionParameter struct {
	Initializer RedistributionRule `json:"initializer"`
	Holder      RedistributionRule `json:"holder"`
	Closer      RedistributionRule `json:"closer"`
}

// DefaultRedistributionParameter devolve as regras de redistribuição padrão:
// canais sem mídia (Direct, Email_Newsletter) não recebem crédito de abertura
// ou sustentação, e SEO - Brand não recebe crédito de fechamento abaixo do
// limiar
func DefaultRedistributionParameter() *RedistributionParameter {
	return &RedistributionParameter{
		Initializer: RedistributionRule{
			Direction:                   "earlier_sessions_only",
			ReceiveThreshold:            0,
			RedistributionChannelLabels: []string{"Direct", "Email_Newsletter"},
		},
		Holder: RedistributionRule{
			Direction:                   "any_session",
			ReceiveThreshold:            0,
			RedistributionChannelLabels: []string{"Direct", "Email_Newsletter"},
		},
		Closer: RedistributionRule{
			Direction:                   "later_sessions_only",
			ReceiveThreshold:            0.1,
			RedistributionChannelLabels: []string{"SEO - Brand"},
		},
	}
}

// ScoringRequest é o corpo da requisição de scoring de um lote de jornadas
type ScoringRequest struct {
	ConversionType          string                   `json:"conversion_type"`
	Journeys                []JourneyPayload         `json:"journeys"`
	RedistributionParameter *RedistributionParameter `json:"redistribution_parameter,omitempty"`
}

// ScoringResult é o crédito devolvido pela API para um touchpoint
type ScoringResult struct {
	ConvID    string  `json:"conv_id"`
	SessionID string  `json:"session_id"`
	IHC       float64 `json:"ihc"`
}
