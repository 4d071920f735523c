package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/ffmarket/internal/api/middleware"
	"github.com/mcoot/ffmarket/internal/api/request"
	"github.com/mcoot/ffmarket/internal/api/response"
	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/services/listing"
	"github.com/mcoot/ffmarket/internal/services/trade"
)

// TransferHandler handles the transfer market endpoints
type TransferHandler struct {
	catalog  *listing.Catalog
	executor *trade.Executor
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(catalog *listing.Catalog, executor *trade.Executor) *TransferHandler {
	return &TransferHandler{
		catalog:  catalog,
		executor: executor,
	}
}

// List handles GET /api/v1/transfers
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParseListingFilter(r.URL.Query())
	if err != nil {
		WriteError(w, err)
		return
	}

	page, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ListingPageFromModel(page))
}

// Create handles POST /api/v1/transfers
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	var req request.CreateListingRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	playerID, price, err := request.ValidateCreateListing(req)
	if err != nil {
		WriteError(w, err)
		return
	}

	l, err := h.catalog.Create(r.Context(), playerID, userID, price)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ListingFromModel(l))
}

// Remove handles DELETE /api/v1/transfers/{id}
func (h *TransferHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())
	rawID := mux.Vars(r)["id"]
	if err := request.ValidateID("id", rawID); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.catalog.Remove(r.Context(), model.ListingID(rawID), userID); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Success{Success: true})
}

// Buy handles POST /api/v1/transfers/buy
func (h *TransferHandler) Buy(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	var req request.BuyRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	listingID, err := request.ValidateBuy(req)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.executor.BuyWithRetry(r.Context(), listingID, userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BuyFromModel(result))
}
