package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/edulingo/backend/api/transport"
	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

// identity returns the caller identity the auth middleware resolved, or
// writes a 401 and returns empty.
func (h baseHandler) identity(ctx *fasthttp.RequestCtx) domain.Identity {
	raw := string(ctx.Request.Header.Peek(httpcontext.IdentityHeader))
	identity, err := domain.NormalizeIdentity(raw)
	if err != nil {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing caller identity", nil))
		return ""
	}
	return identity
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), nil))
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeListingInactive):
		return http.StatusConflict, string(domain.ErrCodeListingInactive)
	case domain.IsDomainError(err, domain.ErrCodeInsufficientAllowance):
		return http.StatusPaymentRequired, string(domain.ErrCodeInsufficientAllowance)
	case domain.IsDomainError(err, domain.ErrCodeInsufficientBalance):
		return http.StatusPaymentRequired, string(domain.ErrCodeInsufficientBalance)
	case domain.IsDomainError(err, domain.ErrCodeOverflow):
		return http.StatusUnprocessableEntity, string(domain.ErrCodeOverflow)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
