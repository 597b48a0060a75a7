package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/edulingo/backend/api/transport"
	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/pkg/httpcontext"
	ledgerUC "github.com/edulingo/backend/usecase/ledger"
)

type TokenHandler struct {
	baseHandler
	uc          *ledgerUC.UseCase
	collector   domain.Identity
	mintEnabled bool
}

func NewTokenHandler(uc *ledgerUC.UseCase, collector domain.Identity, adapter *httpcontext.Adapter, logger *zap.Logger, mintEnabled bool) *TokenHandler {
	return &TokenHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		collector:   collector,
		mintEnabled: mintEnabled,
	}
}

// @Summary Approve spender
// @Tags token
// @Router /api/v1/token/approve [post]
func (h *TokenHandler) Approve(ctx *fasthttp.RequestCtx) {
	owner := h.identity(ctx)
	if owner == "" {
		return
	}

	var req transport.ApproveRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}
	// An omitted spender defaults to the marketplace collector, the one
	// spender purchase flows require.
	spender := h.collector
	if req.Spender != "" {
		var err error
		spender, err = domain.NormalizeIdentity(req.Spender)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Approve(stdCtx, owner, spender, req.Amount); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"owner":   owner,
		"spender": spender,
		"amount":  req.Amount,
	})
}

// @Summary Read allowance
// @Tags token
// @Router /api/v1/token/allowance [get]
func (h *TokenHandler) Allowance(ctx *fasthttp.RequestCtx) {
	owner, err := domain.NormalizeIdentity(string(ctx.QueryArgs().Peek("owner")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	spender, err := domain.NormalizeIdentity(string(ctx.QueryArgs().Peek("spender")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	amount, err := h.uc.Allowance(stdCtx, owner, spender)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"amount": amount})
}

// @Summary Read balance
// @Tags token
// @Router /api/v1/token/balance/{owner} [get]
func (h *TokenHandler) Balance(ctx *fasthttp.RequestCtx) {
	raw, _ := ctx.UserValue("owner").(string)
	owner, err := domain.NormalizeIdentity(raw)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	amount, err := h.uc.BalanceOf(stdCtx, owner)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"amount": amount})
}

// @Summary Bootstrap mint
// @Tags token
// @Router /api/v1/token/mint [post]
func (h *TokenHandler) Mint(ctx *fasthttp.RequestCtx) {
	if !h.mintEnabled {
		h.respondJSON(ctx, http.StatusForbidden, transport.NewError(string(domain.ErrCodeUnauthorized), "bootstrap mint disabled", nil))
		return
	}

	var req transport.MintRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}
	to, err := domain.NormalizeIdentity(req.To)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Mint(stdCtx, to, req.Amount); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, map[string]interface{}{
		"to":     to,
		"amount": req.Amount,
	})
}
