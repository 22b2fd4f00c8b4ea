package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/attribution-pipeline/internal/scheduler"
	"github.com/vfg2006/attribution-pipeline/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TriggerRun dispara manualmente uma execução do pipeline de atribuição
func TriggerRun(runService *scheduler.AttributionRunService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - TriggerRun")

		if runService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de execução de atribuição não disponível", nil)
			return
		}

		runService.TriggerManualRun()

		response := map[string]any{
			"message": "Execução de atribuição iniciada com sucesso",
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetRunStatus retorna o estado do agendador e o sumário da última execução
func GetRunStatus(runService *scheduler.AttributionRunService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetRunStatus")

		if runService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de execução de atribuição não disponível", nil)
			return
		}

		json.NewEncoder(w).Encode(runService.GetStatus())
	}
}
