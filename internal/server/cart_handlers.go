package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tavola/internal/cart"
)

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	claims := sessionFromContext(r.Context())
	c, err := s.Carts.Get(r.Context(), claims.Subject)
	if err != nil {
		log.Printf("get cart: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type addCartItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	claims := sessionFromContext(r.Context())

	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil || req.ItemID == "" || req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	ctx := r.Context()
	item, err := s.Catalog.GetItem(ctx, req.ItemID)
	if err != nil {
		log.Printf("add cart item: load item: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	if item == nil || !item.Available {
		writeError(w, http.StatusBadRequest, "Item is not available")
		return
	}

	c, err := s.Carts.AddItem(ctx, claims.Subject, cart.Item{
		ItemID:     item.ID,
		Name:       item.Name,
		PriceCents: item.PriceCents,
		Quantity:   req.Quantity,
	})
	if err != nil {
		log.Printf("add cart item: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	claims := sessionFromContext(r.Context())

	var req updateCartItemRequest
	if err := decodeJSON(r, &req); err != nil || req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	c, err := s.Carts.SetQuantity(r.Context(), claims.Subject, chi.URLParam(r, "itemId"), req.Quantity)
	if err != nil {
		log.Printf("update cart item: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	claims := sessionFromContext(r.Context())

	c, err := s.Carts.RemoveItem(r.Context(), claims.Subject, chi.URLParam(r, "itemId"))
	if err != nil {
		log.Printf("remove cart item: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	claims := sessionFromContext(r.Context())

	if err := s.Carts.Clear(r.Context(), claims.Subject); err != nil {
		log.Printf("clear cart: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}
