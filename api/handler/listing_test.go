package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/edulingo/backend/api/transport"
	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/pkg/httpcontext"
	"github.com/edulingo/backend/repository/memory"
	registryUC "github.com/edulingo/backend/usecase/registry"
)

const (
	testCreator   = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testBuyer     = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	testCollector = domain.Identity("dddddddddddddddddddddddddddddddddddddddd")
)

type handlerFixture struct {
	listing *ListingHandler
	tokens  *memory.TokenStore
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	tokens := memory.NewTokenStore()
	registry := registryUC.New(
		memory.NewProfileStore(),
		memory.NewListingStore(),
		tokens,
		memory.NewFactLog(),
		testCollector,
		nil,
	)
	return &handlerFixture{
		listing: NewListingHandler(registry, httpcontext.NewAdapter(0), nil),
		tokens:  tokens,
	}
}

func postRequest(identity, body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	if identity != "" {
		ctx.Request.Header.Set(httpcontext.IdentityHeader, identity)
	}
	ctx.Request.SetBodyString(body)
	return ctx
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) transport.Envelope {
	t.Helper()
	var envelope transport.Envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &envelope))
	return envelope
}

func TestCreateListingHandler(t *testing.T) {
	f := newHandlerFixture(t)

	ctx := postRequest(testCreator, `{"is_teaching":true,"language":"Spanish","rate":100}`)
	f.listing.CreateListing(ctx)

	assert.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	envelope := decodeEnvelope(t, ctx)
	assert.Equal(t, "success", envelope.Status)

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(0), data["id"])
	assert.Equal(t, "Spanish", data["language"])
	assert.Equal(t, true, data["is_active"])
}

func TestCreateListingHandlerRejectsMissingIdentity(t *testing.T) {
	f := newHandlerFixture(t)

	ctx := postRequest("", `{"is_teaching":true,"language":"Spanish","rate":100}`)
	f.listing.CreateListing(ctx)

	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestCreateListingHandlerRejectsZeroRate(t *testing.T) {
	f := newHandlerFixture(t)

	ctx := postRequest(testCreator, `{"is_teaching":true,"language":"Spanish","rate":0}`)
	f.listing.CreateListing(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	envelope := decodeEnvelope(t, ctx)
	assert.Equal(t, string(domain.ErrCodeInvalid), envelope.Code)
}

func TestPurchaseListingHandlerMapsPaymentErrors(t *testing.T) {
	f := newHandlerFixture(t)

	createCtx := postRequest(testCreator, `{"is_teaching":true,"language":"Spanish","rate":100}`)
	f.listing.CreateListing(createCtx)
	require.Equal(t, http.StatusCreated, createCtx.Response.StatusCode())

	// No allowance yet: the purchase is rejected as payment required.
	ctx := postRequest(testBuyer, "")
	ctx.SetUserValue("creator", testCreator)
	ctx.SetUserValue("id", "0")
	f.listing.PurchaseListing(ctx)

	assert.Equal(t, http.StatusPaymentRequired, ctx.Response.StatusCode())
	envelope := decodeEnvelope(t, ctx)
	assert.Equal(t, string(domain.ErrCodeInsufficientAllowance), envelope.Code)
}

func TestPurchaseListingHandlerSucceeds(t *testing.T) {
	f := newHandlerFixture(t)

	createCtx := postRequest(testCreator, `{"is_teaching":true,"language":"Spanish","rate":100}`)
	f.listing.CreateListing(createCtx)
	require.Equal(t, http.StatusCreated, createCtx.Response.StatusCode())

	buyer := domain.Identity(testBuyer)
	require.NoError(t, f.tokens.Mint(context.Background(), buyer, 200))
	require.NoError(t, f.tokens.Approve(context.Background(), buyer, testCollector, 100))

	ctx := postRequest(testBuyer, "")
	ctx.SetUserValue("creator", testCreator)
	ctx.SetUserValue("id", "0")
	f.listing.PurchaseListing(ctx)

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	envelope := decodeEnvelope(t, ctx)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, data["is_active"])

	// Replaying the purchase conflicts.
	replay := postRequest(testBuyer, "")
	replay.SetUserValue("creator", testCreator)
	replay.SetUserValue("id", "0")
	f.listing.PurchaseListing(replay)
	assert.Equal(t, http.StatusConflict, replay.Response.StatusCode())
}

func TestGetListingHandlerUnknownID(t *testing.T) {
	f := newHandlerFixture(t)

	ctx := &fasthttp.RequestCtx{}
	ctx.SetUserValue("creator", testCreator)
	ctx.SetUserValue("id", "5")
	f.listing.GetListing(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
}
