package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hilalapp/hilal/internal/model"
	"github.com/hilalapp/hilal/internal/photo"
	"github.com/hilalapp/hilal/internal/store"
)

type MemberHandler struct {
	members  *store.MemberStore
	families *store.FamilyStore
	photos   *photo.Storage
	logger   *slog.Logger
}

func NewMemberHandler(members *store.MemberStore, families *store.FamilyStore, photos *photo.Storage, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{members: members, families: families, photos: photos, logger: logger}
}

type memberRequest struct {
	FamilyID int64      `json:"family_id"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
}

func validRole(role model.Role) bool {
	return role == "" || role == model.RoleAdult || role == model.RoleChild
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !validRole(req.Role) {
		writeError(w, http.StatusBadRequest, "role must be adult or child")
		return
	}

	family, err := h.families.GetByID(req.FamilyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get family")
		return
	}
	if family == nil {
		writeError(w, http.StatusNotFound, "family not found")
		return
	}

	member, err := h.members.Create(req.FamilyID, req.Name, req.Role)
	if err != nil {
		h.logger.Error("create member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create member")
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) ListByFamily(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	members, err := h.members.ListByFamily(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	if members == nil {
		members = []model.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	member, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	member, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = member.Name
	}
	if req.Role == "" {
		req.Role = member.Role
	}
	if !validRole(req.Role) {
		writeError(w, http.StatusBadRequest, "role must be adult or child")
		return
	}

	updated, err := h.members.Update(member.ID, req.Name, req.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update member")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	member, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := h.members.Delete(member.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete member")
		return
	}
	if err := h.photos.Delete(member.PhotoPath); err != nil {
		h.logger.Warn("delete member photo", "member_id", member.ID, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MemberHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	member, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(photo.MaxFileSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	name, err := h.photos.Save(header.Filename, file)
	if errors.Is(err, photo.ErrBadExtension) {
		writeError(w, http.StatusBadRequest, "file type not allowed")
		return
	}
	if errors.Is(err, photo.ErrTooLarge) {
		writeError(w, http.StatusBadRequest, "file too large (max 5MB)")
		return
	}
	if err != nil {
		h.logger.Error("save photo", "member_id", member.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	// Old photo is replaced, not accumulated.
	if err := h.photos.Delete(member.PhotoPath); err != nil {
		h.logger.Warn("delete old photo", "member_id", member.ID, "error", err)
	}

	photoPath := "static/photos/" + name
	updated, err := h.members.SetPhotoPath(member.ID, photoPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update member photo")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *MemberHandler) lookup(w http.ResponseWriter, r *http.Request) (*model.Member, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}

	member, err := h.members.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get member")
		return nil, false
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return nil, false
	}
	return member, true
}
