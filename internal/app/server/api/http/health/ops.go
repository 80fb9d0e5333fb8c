package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Проверка доступности сервиса",
		Description: "Используется клиентами как зонд доступности сервера",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}
