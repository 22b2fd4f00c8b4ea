package domain

import "fmt"

// AttributionResult é o crédito IHC devolvido pelo serviço de scoring para um
// touchpoint de uma jornada. Persistido com upsert por (conv_id, session_id),
// o que torna reexecuções do pipeline idempotentes.
type AttributionResult struct {
	ConvID    string
	SessionID string
	IHC       float64
}

func (r *AttributionResult) Validate() error {
	if r.ConvID == "" || r.SessionID == "" {
		return fmt.Errorf("resultado de atribuição sem chave (conv_id=%q, session_id=%q)", r.ConvID, r.SessionID)
	}
	if r.IHC < 0 || r.IHC > 1 {
		return fmt.Errorf("crédito ihc fora do intervalo [0,1] para (%s, %s): %f", r.ConvID, r.SessionID, r.IHC)
	}

	return nil
}

// BatchFailure registra a falha definitiva de um lote: ou um erro permanente
// da API, ou um erro transitório após o esgotamento das tentativas
type BatchFailure struct {
	BatchIndex int      `json:"batch_index"`
	ConvIDs    []string `json:"conv_ids"`
	Reason     string   `json:"reason"`
}
