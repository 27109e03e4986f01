package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/api/shared"
	"github.com/mealio/ordering-api/internal/domain"
	"github.com/mealio/ordering-api/internal/redact"
	"github.com/mealio/ordering-api/internal/store"
)

// OrderNotifier notifies a product owner that a buyer added their product to
// a cart. Delivery problems must not fail the cart operation.
type OrderNotifier interface {
	NotifyOrderPlaced(ctx context.Context, ownerID uuid.UUID, data domain.OrderNotificationData) error
}

// CartHandler handles shopping cart requests.
type CartHandler struct {
	carts     store.CartStore
	products  store.ProductStore
	userStore store.UserStore
	notifier  OrderNotifier
	validator *validator.Validate
}

// NewCartHandler creates a new CartHandler. The notifier may be nil, in
// which case order notifications are skipped.
func NewCartHandler(
	carts store.CartStore,
	products store.ProductStore,
	userStore store.UserStore,
	notifier OrderNotifier,
) *CartHandler {
	return &CartHandler{
		carts:     carts,
		products:  products,
		userStore: userStore,
		notifier:  notifier,
		validator: newValidator(),
	}
}

// Add handles POST /add-to-cart/{id}. Adding a product already in the cart
// increments its quantity; the upsert is atomic in the store so concurrent
// adds cannot create duplicate rows. Either path notifies the product owner.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	productID, ok := getPathUUID(r, "id")
	if !ok {
		fieldErrs := addFieldError(nil, "product_id", "The selected product_id is invalid.")
		shared.RespondWithValidationErrors(w, r, cartValidationFailedMessage, fieldErrs)
		return
	}

	var req AddToCartRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithValidationErrors(w, r, cartValidationFailedMessage, fieldErrors(err))
		return
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	product, err := h.products.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			fieldErrs := addFieldError(nil, "product_id", "The selected product_id is invalid.")
			shared.RespondWithValidationErrors(w, r, cartValidationFailedMessage, fieldErrs)
			return
		}
		respondWithMappedError(w, r, err)
		return
	}

	item, err := h.carts.Upsert(r.Context(), userID, productID, quantity)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	if item.Product == nil {
		item.Product = product
	}

	h.notifyOwner(r.Context(), userID, product, item)

	shared.RespondWithJSON(w, r, http.StatusCreated, CartResponse{
		Status:  true,
		Message: product.Name + " added to cart successfully",
		Cart:    item,
	})
}

// List handles GET /carts. An empty cart is reported as a 404, matching the
// catalog's empty-result behavior.
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	items, err := h.carts.ListByUser(r.Context(), userID)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	if len(items) == 0 {
		shared.RespondWithError(w, r, http.StatusNotFound, "Cart not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CartListResponse{
		Status: true,
		Carts:  items,
	})
}

// DeleteOne handles DELETE /delete-cart-item/{id}. Only the caller's own
// rows are deletable; someone else's row reads as not found.
func (h *CartHandler) DeleteOne(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	itemID, ok := getPathUUID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "Cart item not found")
		return
	}

	item, err := h.carts.Delete(r.Context(), userID, itemID)
	if err != nil {
		if errors.Is(err, store.ErrCartItemNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Cart item not found")
			return
		}
		respondWithMappedError(w, r, err)
		return
	}

	message := "Cart item removed from cart successfully"
	if item.Product != nil {
		message = item.Product.Name + " removed from cart successfully"
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{
		Status:  true,
		Message: message,
	})
}

// DeleteMany handles DELETE /delete-cart-items. IDs the caller does not own
// are skipped rather than rejected; the reported count covers only rows that
// were actually deleted.
func (h *CartHandler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req DeleteCartItemsRequest
	if err := shared.DecodeJSON(r, &req); err != nil || len(req.IDs) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid input")
		return
	}

	deleted, err := h.carts.DeleteMany(r.Context(), userID, req.IDs)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	noun := "cart items"
	if deleted <= 1 {
		noun = "cart item"
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{
		Status:  true,
		Message: fmt.Sprintf("%d %s deleted successfully", deleted, noun),
	})
}

// notifyOwner sends the order notification to the product owner. Failures
// are logged and swallowed.
func (h *CartHandler) notifyOwner(ctx context.Context, buyerID uuid.UUID, product *domain.Product, item *domain.CartItem) {
	if h.notifier == nil {
		return
	}

	buyerName := ""
	if buyer, err := h.userStore.GetByID(ctx, buyerID); err == nil {
		buyerName = buyer.Name
	}

	data := domain.OrderNotificationData{
		CartItemID:  item.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    item.Quantity,
		BuyerID:     buyerID,
		BuyerName:   buyerName,
	}
	if err := h.notifier.NotifyOrderPlaced(ctx, product.UserID, data); err != nil {
		slog.Warn("failed to notify product owner", "error", redact.Error(err),
			"owner_id", product.UserID, "product_id", product.ID)
	}
}
