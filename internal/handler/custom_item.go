package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hilalapp/hilal/internal/model"
	"github.com/hilalapp/hilal/internal/store"
)

type CustomItemHandler struct {
	items   *store.CustomItemStore
	members *store.MemberStore
	logger  *slog.Logger
}

func NewCustomItemHandler(items *store.CustomItemStore, members *store.MemberStore, logger *slog.Logger) *CustomItemHandler {
	return &CustomItemHandler{items: items, members: members, logger: logger}
}

func (h *CustomItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID    int64  `json:"member_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	member, err := h.members.GetByID(req.MemberID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get member")
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	item, err := h.items.Create(req.MemberID, req.Title, req.Description)
	if err != nil {
		h.logger.Error("create custom item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create custom item")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *CustomItemHandler) ListByMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	activeOnly := r.URL.Query().Get("active_only") != "false"
	items, err := h.items.ListByMember(id, activeOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list custom items")
		return
	}
	if items == nil {
		items = []model.CustomItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CustomItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.items.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get custom item")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "custom item not found")
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	title := existing.Title
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
		if title == "" {
			writeError(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
	}
	description := existing.Description
	if req.Description != nil {
		description = *req.Description
	}
	isActive := existing.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	item, err := h.items.Update(id, title, description, isActive)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update custom item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete deactivates the item. Past completions keep their credit; the item
// just stops counting toward the daily total.
func (h *CustomItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.items.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get custom item")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "custom item not found")
		return
	}

	if err := h.items.Deactivate(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete custom item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
