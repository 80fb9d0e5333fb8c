package ledger

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "ledger-list",
		Method:      http.MethodGet,
		Path:        "/api/ledger",
		Summary:     "Список записей пользователя",
		Tags:        []string{"ledger"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) upsertOp() huma.Operation {
	return huma.Operation{
		OperationID: "ledger-upsert",
		Method:      http.MethodPut,
		Path:        "/api/ledger/{recordId}",
		Summary:     "Создать или заменить запись",
		Description: "Идемпотентна по паре (пользователь, период): повторный вызов с теми же данными безопасен.",
		Tags:        []string{"ledger"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "ledger-delete",
		Method:      http.MethodDelete,
		Path:        "/api/ledger/{recordId}",
		Summary:     "Удалить запись",
		Description: "Удаление отсутствующей записи — успех: целевое состояние уже достигнуто.",
		Tags:        []string{"ledger"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
