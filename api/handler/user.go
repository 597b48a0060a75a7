package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/edulingo/backend/api/transport"
	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/pkg/httpcontext"
	registryUC "github.com/edulingo/backend/usecase/registry"
)

type UserHandler struct {
	baseHandler
	uc *registryUC.UseCase
}

func NewUserHandler(uc *registryUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Register profile
// @Tags users
// @Router /api/v1/users [post]
func (h *UserHandler) CreateUser(ctx *fasthttp.RequestCtx) {
	owner := h.identity(ctx)
	if owner == "" {
		return
	}

	var req transport.CreateUserRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	profile, err := h.uc.CreateUser(stdCtx, owner, req.Languages, req.Certifications)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, profile)
}

// @Summary Get profile
// @Tags users
// @Router /api/v1/users/{address} [get]
func (h *UserHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	raw, _ := ctx.UserValue("address").(string)
	owner, err := domain.NormalizeIdentity(raw)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	profile, err := h.uc.GetProfile(stdCtx, owner)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, profile)
}
