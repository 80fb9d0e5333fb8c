package ledger

import "monthledger/internal/domain/ledger"

type listOutput struct {
	Body ledger.ListResponse
}

type upsertInput struct {
	RecordID string `path:"recordId" doc:"Идентификатор расчетного периода"`
	Body     ledger.Record
}

type upsertOutput struct {
	Body UpsertResponse
}

type UpsertResponse struct {
	RecordID string `json:"record_id"`
	Status   string `json:"status"`
}

type deleteInput struct {
	RecordID string `path:"recordId" doc:"Идентификатор расчетного периода"`
}

type deleteOutput struct {
	Body StatusResponse
}

type StatusResponse struct {
	Status string `json:"status"`
}
