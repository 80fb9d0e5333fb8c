package remote

import (
	"monthledger/internal/domain/ledger"
	"monthledger/internal/domain/user"
)

type authRequest struct {
	Login  string `json:"login"`
	Secret string `json:"secret"`
}

type authResponse struct {
	Credential string        `json:"credential"`
	Identity   user.Identity `json:"identity"`
}

type sessionResponse struct {
	Identity user.Identity `json:"identity"`
}

type listResponse struct {
	Records []ledger.Record `json:"records"`
	Total   int             `json:"total"`
}

type upsertResponse struct {
	RecordID string `json:"record_id"`
	Status   string `json:"status"`
}

type statusResponse struct {
	Status string `json:"status"`
}
