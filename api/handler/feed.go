package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/edulingo/backend/pkg/httpcontext"
	"github.com/edulingo/backend/repository"
)

// FeedHandler serves the discovery surfaces: the raw fact feed for indexers
// and the projected listing view. Both are read-only.
type FeedHandler struct {
	baseHandler
	facts repository.FactLog
	view  repository.ListingView
}

func NewFeedHandler(facts repository.FactLog, view repository.ListingView, adapter *httpcontext.Adapter, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		baseHandler: newBaseHandler(adapter, logger),
		facts:       facts,
		view:        view,
	}
}

// @Summary Fact feed from ordinal
// @Tags feed
// @Router /api/v1/feed [get]
func (h *FeedHandler) Feed(ctx *fasthttp.RequestCtx) {
	from := parseUint(string(ctx.QueryArgs().Peek("from")), 1)
	limit := int(parseUint(string(ctx.QueryArgs().Peek("limit")), 100))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	facts, err := h.facts.ReadFrom(stdCtx, from, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	last, err := h.facts.LastOrdinal(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"facts":        facts,
		"last_ordinal": last,
	})
}

// @Summary Discover projected listings
// @Tags feed
// @Router /api/v1/discover [get]
func (h *FeedHandler) Discover(ctx *fasthttp.RequestCtx) {
	filter := repository.ViewFilter{
		Language:   string(ctx.QueryArgs().Peek("language")),
		ActiveOnly: ctx.QueryArgs().GetBool("active"),
		Limit:      int(parseUint(string(ctx.QueryArgs().Peek("limit")), 50)),
		Offset:     int(parseUint(string(ctx.QueryArgs().Peek("offset")), 0)),
	}
	if teaching := string(ctx.QueryArgs().Peek("teaching")); teaching != "" {
		if parsed, err := strconv.ParseBool(teaching); err == nil {
			filter.IsTeaching = &parsed
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	listings, err := h.view.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, listings)
}

func parseUint(value string, fallback uint64) uint64 {
	if v, err := strconv.ParseUint(value, 10, 64); err == nil {
		return v
	}
	return fallback
}
