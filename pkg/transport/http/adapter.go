// Package http serves the storefront API over HTTP. It routes requests
// to the assistant, catalog, and cart layers and serializes responses.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mimart/storefront/pkg/api"
	"github.com/mimart/storefront/pkg/cart"
	"github.com/mimart/storefront/pkg/catalog"
	"github.com/mimart/storefront/pkg/transport"
)

// Assistant is the AI surface the adapter dispatches to.
// *assistant.Service is the production implementation.
type Assistant interface {
	Chat(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error)
	AnalyzeFridge(ctx context.Context, req *api.AnalyzeFridgeRequest) (*api.FridgeAnalysis, error)
	ScanFridge(ctx context.Context, req *api.FridgeScanRequest) (*api.FridgeScanResponse, error)
	Sommelier(ctx context.Context, req *api.SommelierRequest) (*api.SommelierResponse, error)
	VoiceChat(ctx context.Context, req *api.VoiceChatRequest) (*api.VoiceChatResponse, error)
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	// MaxBodySize bounds request bodies. The AI endpoints carry base64
	// images and audio, so the default is generous.
	MaxBodySize int64
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 10 << 20, // 10 MB
	}
}

// Adapter routes storefront requests to their handlers.
type Adapter struct {
	assistant Assistant
	catalog   *catalog.Catalog
	carts     cart.Store
	mux       *http.ServeMux
	config    Config
}

// NewAdapter creates an HTTP adapter over the given assistant, catalog,
// and cart store.
func NewAdapter(assist Assistant, cat *catalog.Catalog, carts cart.Store, cfg Config) *Adapter {
	a := &Adapter{
		assistant: assist,
		catalog:   cat,
		carts:     carts,
		mux:       http.NewServeMux(),
		config:    cfg,
	}

	a.mux.HandleFunc("POST /chat", a.handleChat)
	a.mux.HandleFunc("POST /analyze-fridge", a.handleAnalyzeFridge)
	a.mux.HandleFunc("POST /fridge-scan", a.handleFridgeScan)
	a.mux.HandleFunc("POST /sommelier", a.handleSommelier)
	a.mux.HandleFunc("POST /voice-chat", a.handleVoiceChat)

	a.mux.HandleFunc("GET /products", a.handleListProducts)
	a.mux.HandleFunc("GET /products/search", a.handleSearchProducts)
	a.mux.HandleFunc("GET /products/{id}", a.handleGetProduct)

	a.mux.HandleFunc("GET /cart/{cartID}", a.handleGetCart)
	a.mux.HandleFunc("DELETE /cart/{cartID}", a.handleClearCart)
	a.mux.HandleFunc("POST /cart/{cartID}/items", a.handleAddItem)
	a.mux.HandleFunc("PATCH /cart/{cartID}/items/{productID}", a.handleUpdateQuantity)
	a.mux.HandleFunc("DELETE /cart/{cartID}/items/{productID}", a.handleRemoveItem)
	a.mux.HandleFunc("POST /cart/{cartID}/checkout", a.handleCheckout)

	a.mux.HandleFunc("GET /healthz", a.handleHealthz)

	return a
}

// Handler returns the http.Handler for this adapter. Use this to compose
// with middleware, integrate with an http.Server, or test with httptest.
func (a *Adapter) Handler() http.Handler {
	return a.mux
}

// decode reads a JSON request body into v, enforcing the Content-Type and
// body size limits. A false return means an error response was already
// written.
func (a *Adapter) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("content_type", "Content-Type must be application/json"),
			http.StatusUnsupportedMediaType,
		)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return false
		}
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("body", "invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return false
	}
	return true
}

// writeJSON serializes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (a *Adapter) handleChat(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if !a.decode(w, r, &req) {
		return
	}
	resp, err := a.assistant.Chat(r.Context(), &req)
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *Adapter) handleAnalyzeFridge(w http.ResponseWriter, r *http.Request) {
	var req api.AnalyzeFridgeRequest
	if !a.decode(w, r, &req) {
		return
	}
	resp, err := a.assistant.AnalyzeFridge(r.Context(), &req)
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *Adapter) handleFridgeScan(w http.ResponseWriter, r *http.Request) {
	var req api.FridgeScanRequest
	if !a.decode(w, r, &req) {
		return
	}
	resp, err := a.assistant.ScanFridge(r.Context(), &req)
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *Adapter) handleSommelier(w http.ResponseWriter, r *http.Request) {
	var req api.SommelierRequest
	if !a.decode(w, r, &req) {
		return
	}
	resp, err := a.assistant.Sommelier(r.Context(), &req)
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *Adapter) handleVoiceChat(w http.ResponseWriter, r *http.Request) {
	var req api.VoiceChatRequest
	if !a.decode(w, r, &req) {
		return
	}
	resp, err := a.assistant.VoiceChat(r.Context(), &req)
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *Adapter) handleListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.catalog.List())
}

func (a *Adapter) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.catalog.Search(r.URL.Query().Get("q")))
}

func (a *Adapter) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := a.catalog.Get(id)
	if !ok {
		transport.WriteAPIError(w, api.NewNotFoundError("product "+id+" not found"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// cartResponse loads the cart and renders it with derived totals.
func (a *Adapter) cartResponse(ctx context.Context, cartID string) (*api.Cart, error) {
	lines, err := a.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []api.CartLine{}
	}
	items, price := cart.Totals(lines)
	return &api.Cart{
		ID:         cartID,
		Items:      lines,
		TotalItems: items,
		TotalPrice: price,
	}, nil
}

func (a *Adapter) writeCart(w http.ResponseWriter, r *http.Request, cartID string) {
	c, err := a.cartResponse(r.Context(), cartID)
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *Adapter) handleGetCart(w http.ResponseWriter, r *http.Request) {
	a.writeCart(w, r, r.PathValue("cartID"))
}

func (a *Adapter) handleClearCart(w http.ResponseWriter, r *http.Request) {
	if err := a.carts.Clear(r.Context(), r.PathValue("cartID")); err != nil {
		transport.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Adapter) handleAddItem(w http.ResponseWriter, r *http.Request) {
	cartID := r.PathValue("cartID")

	var req api.AddItemRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		transport.WriteAPIError(w, api.NewInvalidRequestError("productId", "productId is required"))
		return
	}

	p, ok := a.catalog.Get(req.ProductID)
	if !ok {
		transport.WriteAPIError(w, api.NewNotFoundError("product "+req.ProductID+" not found"))
		return
	}

	if err := a.carts.AddItem(r.Context(), cartID, p); err != nil {
		transport.WriteError(w, err)
		return
	}
	a.writeCart(w, r, cartID)
}

func (a *Adapter) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	cartID := r.PathValue("cartID")
	productID := r.PathValue("productID")

	var req api.UpdateQuantityRequest
	if !a.decode(w, r, &req) {
		return
	}

	err := a.carts.UpdateQuantity(r.Context(), cartID, productID, req.Quantity)
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		transport.WriteAPIError(w, api.NewInvalidRequestError("quantity", "quantity must not be negative"))
		return
	case errors.Is(err, cart.ErrLineNotFound):
		transport.WriteAPIError(w, api.NewNotFoundError("product "+productID+" is not in the cart"))
		return
	case err != nil:
		transport.WriteError(w, err)
		return
	}
	a.writeCart(w, r, cartID)
}

func (a *Adapter) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID := r.PathValue("cartID")
	if err := a.carts.RemoveItem(r.Context(), cartID, r.PathValue("productID")); err != nil {
		transport.WriteError(w, err)
		return
	}
	a.writeCart(w, r, cartID)
}

// handleCheckout simulates checkout: it snapshots the cart's totals,
// clears the cart, and returns a confirmation with a fresh order ID.
// No payment happens.
func (a *Adapter) handleCheckout(w http.ResponseWriter, r *http.Request) {
	cartID := r.PathValue("cartID")

	lines, err := a.carts.Get(r.Context(), cartID)
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	if len(lines) == 0 {
		transport.WriteAPIError(w, api.NewInvalidRequestError("", "cart is empty"))
		return
	}

	items, price := cart.Totals(lines)

	if err := a.carts.Clear(r.Context(), cartID); err != nil {
		transport.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.CheckoutResponse{
		OrderID:    api.NewOrderID(),
		TotalItems: items,
		TotalPrice: price,
	})
}

func (a *Adapter) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
