package ledger

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"monthledger/internal/app/server/api/http/middleware/auth"
	"monthledger/internal/domain/ledger"
)

type Handler struct {
	service    ledger.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service ledger.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.upsertOp(), h.upsert)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	resp, err := h.service.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &listOutput{Body: resp}, nil
}

func (h *Handler) upsert(ctx context.Context, input *upsertInput) (*upsertOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	rec := input.Body
	// Идентификатор в пути имеет приоритет над телом
	rec.RecordID = input.RecordID

	recordID, err := h.service.Upsert(ctx, userID, &rec)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidData):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		case errors.Is(err, ledger.ErrNotOwner):
			return nil, huma.Error403Forbidden(err.Error())
		}
		return nil, err
	}

	return &upsertOutput{
		Body: UpsertResponse{RecordID: recordID, Status: "Ok"},
	}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*deleteOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, userID, input.RecordID); err != nil {
		if errors.Is(err, ledger.ErrNotOwner) {
			return nil, huma.Error403Forbidden(err.Error())
		}
		return nil, err
	}

	return &deleteOutput{
		Body: StatusResponse{Status: "Ok"},
	}, nil
}
