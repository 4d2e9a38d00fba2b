package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tavola/internal/auth"
	"tavola/internal/order"
)

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	claims := sessionFromContext(r.Context())
	ctx := r.Context()

	c, err := s.Carts.Get(ctx, claims.Subject)
	if err != nil {
		log.Printf("place order: load cart: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}
	if len(c.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	o := &order.Order{UserID: claims.Subject, Status: order.StatusPending}
	for _, item := range c.Items {
		o.Items = append(o.Items, order.Item{
			MenuItemID: item.ItemID,
			Name:       item.Name,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
		})
		o.TotalCents += item.PriceCents * int64(item.Quantity)
	}

	created, err := s.Orders.Create(ctx, o)
	if err != nil {
		log.Printf("place order: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}

	if err := s.Carts.Clear(ctx, claims.Subject); err != nil {
		log.Printf("place order: clear cart: %v", err)
	}

	writeJSON(w, http.StatusCreated, orderPayload(created))
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	claims := sessionFromContext(r.Context())

	orders, err := s.Orders.ListByUser(r.Context(), claims.Subject)
	if err != nil {
		log.Printf("list orders: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orderPayloads(orders)})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	claims := sessionFromContext(r.Context())

	o, err := s.Orders.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("get order: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load order")
		return
	}
	if o == nil || (o.UserID != claims.Subject && claims.Role != auth.RoleAdmin) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, orderPayload(o))
}

func (s *Server) handleListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.Orders.ListAll(r.Context())
	if err != nil {
		log.Printf("list all orders: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orderPayloads(orders)})
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil || !order.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	o, err := s.Orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		log.Printf("update order status: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, orderPayload(o))
}

func orderPayload(o *order.Order) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]interface{}{
			"id":         item.ID,
			"menuItemId": item.MenuItemID,
			"name":       item.Name,
			"priceCents": item.PriceCents,
			"quantity":   item.Quantity,
		})
	}
	return map[string]interface{}{
		"id":         o.ID,
		"userId":     o.UserID,
		"status":     o.Status,
		"totalCents": o.TotalCents,
		"items":      items,
		"createdAt":  o.CreatedAt,
	}
}

func orderPayloads(orders []order.Order) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(orders))
	for i := range orders {
		out = append(out, orderPayload(&orders[i]))
	}
	return out
}
