package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tavola/internal/catalog"
)

type categoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.Catalog.ListCategories(r.Context())
	if err != nil {
		log.Printf("list categories: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categoryPayloads(categories)})
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := s.Catalog.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("get category: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load category")
		return
	}
	if cat == nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, categoryPayload(cat))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	cat, err := s.Catalog.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		log.Printf("create category: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, categoryPayload(cat))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	cat, err := s.Catalog.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req.Name, req.Description)
	if err != nil {
		log.Printf("update category: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}
	if cat == nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, categoryPayload(cat))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.Catalog.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		log.Printf("delete category: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}

type menuItemRequest struct {
	CategoryID  string  `json:"categoryId"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  int64   `json:"priceCents"`
	ImageURL    *string `json:"imageUrl"`
	Available   *bool   `json:"available"`
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	var categoryID *string
	if val := r.URL.Query().Get("categoryId"); val != "" {
		categoryID = &val
	}

	items, err := s.Catalog.ListItems(r.Context(), categoryID)
	if err != nil {
		log.Printf("list items: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load menu")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": itemPayloads(items)})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.Catalog.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("get item: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	writeJSON(w, http.StatusOK, itemPayload(item))
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" || req.CategoryID == "" || req.PriceCents <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	item, err := s.Catalog.CreateItem(r.Context(), &catalog.MenuItem{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
		Available:   available,
	})
	if err != nil {
		log.Printf("create item: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}
	writeJSON(w, http.StatusCreated, itemPayload(item))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" || req.CategoryID == "" || req.PriceCents <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	item, err := s.Catalog.UpdateItem(r.Context(), &catalog.MenuItem{
		ID:          chi.URLParam(r, "id"),
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
		Available:   available,
	})
	if err != nil {
		log.Printf("update item: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	writeJSON(w, http.StatusOK, itemPayload(item))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.Catalog.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		log.Printf("delete item: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

func categoryPayload(c *catalog.Category) map[string]interface{} {
	return map[string]interface{}{
		"id":          c.ID,
		"name":        c.Name,
		"description": c.Description,
	}
}

func categoryPayloads(categories []catalog.Category) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(categories))
	for i := range categories {
		out = append(out, categoryPayload(&categories[i]))
	}
	return out
}

func itemPayload(m *catalog.MenuItem) map[string]interface{} {
	return map[string]interface{}{
		"id":          m.ID,
		"categoryId":  m.CategoryID,
		"name":        m.Name,
		"description": m.Description,
		"priceCents":  m.PriceCents,
		"imageUrl":    m.ImageURL,
		"available":   m.Available,
	}
}

func itemPayloads(items []catalog.MenuItem) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(items))
	for i := range items {
		out = append(out, itemPayload(&items[i]))
	}
	return out
}
