package user

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"monthledger/internal/app/server/api/http/middleware/auth"
	"monthledger/internal/domain/session"
	"monthledger/internal/domain/user"
)

type Handler struct {
	service        user.Servicer
	session        session.Servicer
	log            *slog.Logger
	middleware     huma.Middlewares
	authMiddleware huma.Middlewares
}

func NewHandler(service user.Servicer, sess session.Servicer, log *slog.Logger, public, authed huma.Middlewares) *Handler {
	return &Handler{
		service:        service,
		session:        sess,
		log:            log,
		middleware:     public,
		authMiddleware: authed,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.sessionOp(), h.sessionInfo)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	id, err := h.service.Register(ctx, input.Body.Login, input.Body.Secret)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicate):
			return nil, huma.Error409Conflict(err.Error())
		case errors.Is(err, user.ErrInvalidInput):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, err
	}

	credential, err := h.session.Create(ctx, id.ID)
	if err != nil {
		h.log.Error("create session after register", "user_id", id.ID, "error", err)
		return nil, err
	}

	return &registerOutput{
		Body: AuthResponse{Credential: credential, Identity: id},
	}, nil
}

// login сводит любой отказ аутентификации к единому 401 без уточнения,
// существует ли пользователь
func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	id, err := h.service.Authenticate(ctx, input.Body.Login, input.Body.Secret)
	if err != nil {
		return nil, huma.Error401Unauthorized("invalid credentials")
	}

	credential, err := h.session.Create(ctx, id.ID)
	if err != nil {
		h.log.Error("create session after login", "user_id", id.ID, "error", err)
		return nil, err
	}

	return &loginOutput{
		Body: AuthResponse{Credential: credential, Identity: id},
	}, nil
}

func (h *Handler) sessionInfo(ctx context.Context, _ *struct{}) (*sessionOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	id, err := h.service.Find(ctx, userID)
	if err != nil {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	return &sessionOutput{
		Body: SessionResponse{Identity: id},
	}, nil
}
