package handler

import (
	"net/http"

	"github.com/arogyahq/care-platform/internal/adapters/middleware"
	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/services"
)

type FamilyHandler struct {
	family *services.FamilyService
}

func NewFamilyHandler(family *services.FamilyService) *FamilyHandler {
	return &FamilyHandler{family: family}
}

// Members

func (h *FamilyHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var in services.FamilyMemberInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	member, err := h.family.AddMember(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Family member added", member)
}

func (h *FamilyHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	f := domain.FamilyMemberFilter{
		Relationship: r.URL.Query().Get("relationship"),
		IsDependent:  queryBool(r, "is_dependent"),
	}
	members, meta, err := h.family.ListMembers(r.Context(), middleware.UserID(r.Context()), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", members, meta)
}

func (h *FamilyHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.family.GetMember(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", member)
}

func (h *FamilyHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var in services.FamilyMemberInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	member, err := h.family.UpdateMember(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Family member updated", member)
}

func (h *FamilyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := h.family.RemoveMember(r.Context(), middleware.UserID(r.Context()), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Family member removed", nil)
}

// Medical history

func (h *FamilyHandler) AddHistory(w http.ResponseWriter, r *http.Request) {
	var in services.MedicalHistoryInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	record, err := h.family.AddHistory(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Medical record added", record)
}

func (h *FamilyHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	f := domain.MedicalHistoryFilter{
		RecordType:     domain.RecordType(r.URL.Query().Get("record_type")),
		FamilyMemberID: r.URL.Query().Get("family_member_id"),
	}
	records, meta, err := h.family.ListHistory(r.Context(), middleware.UserID(r.Context()), f, parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", records, meta)
}

func (h *FamilyHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	record, err := h.family.GetHistory(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "", record)
}

func (h *FamilyHandler) UpdateHistory(w http.ResponseWriter, r *http.Request) {
	var in services.MedicalHistoryInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	record, err := h.family.UpdateHistory(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Medical record updated", record)
}

func (h *FamilyHandler) RemoveHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.family.RemoveHistory(r.Context(), middleware.UserID(r.Context()), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Medical record removed", nil)
}

// Permissions

func (h *FamilyHandler) GrantPermission(w http.ResponseWriter, r *http.Request) {
	var in services.PermissionInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	perm, err := h.family.GrantPermission(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, "Permission granted", perm)
}

func (h *FamilyHandler) ListPermissionsGranted(w http.ResponseWriter, r *http.Request) {
	perms, meta, err := h.family.ListPermissionsGranted(r.Context(), middleware.UserID(r.Context()), parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", perms, meta)
}

func (h *FamilyHandler) ListPermissionsReceived(w http.ResponseWriter, r *http.Request) {
	perms, meta, err := h.family.ListPermissionsReceived(r.Context(), middleware.UserID(r.Context()), parsePage(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", perms, meta)
}

func (h *FamilyHandler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	var in services.PermissionUpdateInput
	if err := decode(r, &in); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	perm, err := h.family.UpdatePermission(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Permission updated", perm)
}

func (h *FamilyHandler) RevokePermission(w http.ResponseWriter, r *http.Request) {
	if err := h.family.RevokePermission(r.Context(), middleware.UserID(r.Context()), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, "Permission revoked", nil)
}

// SharedHistory returns records another user has shared with the caller. The
// granter is identified by the path and an optional family_member_id query
// parameter narrows the grant to one of the granter's family members.
func (h *FamilyHandler) SharedHistory(w http.ResponseWriter, r *http.Request) {
	records, meta, err := h.family.GetSharedHistory(
		r.Context(),
		middleware.UserID(r.Context()),
		r.PathValue("userId"),
		r.URL.Query().Get("family_member_id"),
		parsePage(r),
	)
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, "", records, meta)
}
