package ledger

import (
	"encoding/json"
	"time"
)

// Record — набор данных одного расчетного периода (месяца), принадлежащий
// одному пользователю. Уникальность — по паре (user_id, record_id),
// все операции записи имеют upsert-семантику.
type Record struct {
	RecordID       string          `json:"record_id"`
	DisplayName    string          `json:"display_name"`
	ColorTag       string          `json:"color_tag,omitempty"`
	Config         json.RawMessage `json:"config,omitempty"`
	GroupedPayload json.RawMessage `json:"grouped_payload,omitempty"`
	RawPayload     json.RawMessage `json:"raw_payload,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Validate проверяет обязательные поля записи
func (r *Record) Validate() error {
	if r.RecordID == "" {
		return ErrInvalidData
	}
	if r.DisplayName == "" {
		return ErrInvalidData
	}
	return nil
}

// ListResponse список записей пользователя
type ListResponse struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
}
