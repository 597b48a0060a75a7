package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/edulingo/backend/api/transport"
	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/pkg/httpcontext"
	registryUC "github.com/edulingo/backend/usecase/registry"
)

type ListingHandler struct {
	baseHandler
	uc *registryUC.UseCase
}

func NewListingHandler(uc *registryUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create listing
// @Tags listings
// @Router /api/v1/listings [post]
func (h *ListingHandler) CreateListing(ctx *fasthttp.RequestCtx) {
	creator := h.identity(ctx)
	if creator == "" {
		return
	}

	var req transport.CreateListingRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	listing, err := h.uc.CreateListing(stdCtx, creator, req.IsTeaching, req.Language, req.Rate)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, listing)
}

// @Summary List a creator's listings
// @Tags listings
// @Router /api/v1/listings/{creator} [get]
func (h *ListingHandler) GetUserListings(ctx *fasthttp.RequestCtx) {
	creator, ok := h.pathIdentity(ctx, "creator")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	listings, err := h.uc.GetUserListings(stdCtx, creator)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, listings)
}

// @Summary Get one listing
// @Tags listings
// @Router /api/v1/listings/{creator}/{id} [get]
func (h *ListingHandler) GetListing(ctx *fasthttp.RequestCtx) {
	creator, ok := h.pathIdentity(ctx, "creator")
	if !ok {
		return
	}
	id, ok := h.pathListingID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	listing, err := h.uc.GetListing(stdCtx, creator, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, listing)
}

// @Summary Purchase listing
// @Tags listings
// @Router /api/v1/listings/{creator}/{id}/purchase [post]
func (h *ListingHandler) PurchaseListing(ctx *fasthttp.RequestCtx) {
	buyer := h.identity(ctx)
	if buyer == "" {
		return
	}
	creator, ok := h.pathIdentity(ctx, "creator")
	if !ok {
		return
	}
	id, ok := h.pathListingID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	listing, err := h.uc.PurchaseListing(stdCtx, buyer, creator, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, listing)
}

func (h *ListingHandler) pathIdentity(ctx *fasthttp.RequestCtx, name string) (domain.Identity, bool) {
	raw, _ := ctx.UserValue(name).(string)
	identity, err := domain.NormalizeIdentity(raw)
	if err != nil {
		h.respondError(ctx, err)
		return "", false
	}
	return identity, true
}

func (h *ListingHandler) pathListingID(ctx *fasthttp.RequestCtx) (uint64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid listing id", nil))
		return 0, false
	}
	return id, true
}
