package http

import (
	"net/http"
	"strconv"

	"github.com/Leobor91/Finanzas-Personales/internal/core"
)

type createCategoryRequest struct {
	Type string `json:"type" validate:"required,oneof=Ingreso Gasto"`
	Name string `json:"name" validate:"required"`
	Icon string `json:"icon"`
}

type updateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
	Icon string `json:"icon"`
}

// handleCategoriesByType serves GET /categories?type=Ingreso|Gasto.
func (s *Server) handleCategoriesByType(w http.ResponseWriter, r *http.Request) {
	typ := core.MovementType(r.URL.Query().Get("type"))
	if typ != core.TypeIncome && typ != core.TypeExpense {
		writeError(w, http.StatusBadRequest, core.ErrInvalidType.Error())
		return
	}

	categories, err := s.catalog.CategoriesByType(r.Context(), typ)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// handleAllCategories serves GET /categories/all, both types together.
func (s *Server) handleAllCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.ListAllCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// handleCreateCategory serves POST /categories. Re-adding an existing
// name returns the existing category's id with 200 instead of 201.
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid category: "+err.Error())
		return
	}

	id, err := s.catalog.AddCategory(r.Context(), core.MovementType(req.Type), req.Name, req.Icon)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, core.Category{
		ID:   id,
		Type: core.MovementType(req.Type),
		Name: req.Name,
		Icon: req.Icon,
	})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}

	var req updateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid category: "+err.Error())
		return
	}

	updated, err := s.catalog.UpdateCategory(r.Context(), id, req.Name, req.Icon)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}

	deleted, err := s.catalog.DeleteCategory(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func categoryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "category id must be a positive integer")
		return 0, false
	}
	return id, true
}
