// Package handler exposes the /v1 HTTP surface. Request and response
// bodies on the list routes use the binary wire messages from
// internal/wire; handlers decode the body, pull the authenticated caller
// from the request context, and delegate to the service layer.
package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"funclist/internal/apperror"
	"funclist/internal/auth"
	"funclist/internal/models"
	"funclist/internal/service"
	"funclist/internal/wire"
)

// maxBodySize bounds request bodies; the wire messages are tiny.
const maxBodySize = 1 << 20

// ListHandler serves the list and event endpoints.
type ListHandler struct {
	lists *service.ListService
}

// NewListHandler creates a ListHandler backed by the given service.
func NewListHandler(lists *service.ListService) *ListHandler {
	return &ListHandler{lists: lists}
}

// HandleCreate handles POST /v1/lists.
func (h *ListHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Authentication("authentication required"))
		return
	}

	var req wire.CreateListRequest
	if err := readBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	list, err := h.lists.Create(r.Context(), caller, req.DisplayName, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeProto(w, http.StatusCreated, &wire.List{
		ID:          list.ID,
		DisplayName: list.DisplayName,
		Description: list.Description,
	})
}

// HandleList handles GET /v1/lists.
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Authentication("authentication required"))
		return
	}

	summaries, err := h.lists.ListsForCaller(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := &wire.ListsResponse{Lists: make([]wire.ListMeta, 0, len(summaries))}
	for _, sum := range summaries {
		resp.Lists = append(resp.Lists, wire.ListMeta{
			ID:          sum.ID,
			DisplayName: sum.DisplayName,
			Description: sum.Description,
			EventCount:  sum.EventCount,
		})
	}

	writeProto(w, http.StatusOK, resp)
}

// HandleGet handles GET /v1/lists/{listID}.
func (h *ListHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Authentication("authentication required"))
		return
	}

	listID, err := listIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	detail, err := h.lists.GetDetail(r.Context(), caller, listID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeProto(w, http.StatusOK, detailToWire(detail))
}

// HandleUpdate handles PUT /v1/lists/{listID}.
func (h *ListHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Authentication("authentication required"))
		return
	}

	listID, err := listIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req wire.UpdateListRequest
	if err := readBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := models.ListPatch{
		DisplayName: req.DisplayName,
		Description: req.Description,
	}
	if err := h.lists.Update(r.Context(), caller, listID, patch); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAppendEvent handles POST /v1/lists/{listID}/events.
func (h *ListHandler) HandleAppendEvent(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Authentication("authentication required"))
		return
	}

	listID, err := listIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req wire.CreateEventRequest
	if err := readBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	draft := models.EventDraft{
		ItemID:      req.ItemID,
		DisplayName: req.DisplayName,
		Checked:     req.Checked,
	}
	if err := h.lists.AppendEvent(r.Context(), caller, listID, draft); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func listIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "listID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &apperror.AppError{Err: apperror.ErrNotFound, Message: "list not found"}
	}
	return id, nil
}

func readBody(w http.ResponseWriter, r *http.Request, m wire.Message) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return apperror.Validation("failed to read request body")
	}
	if err := m.Unmarshal(body); err != nil {
		return apperror.Validation("malformed request body")
	}
	return nil
}

func detailToWire(detail *models.ListDetail) *wire.List {
	out := &wire.List{
		ID:          detail.ID,
		DisplayName: detail.DisplayName,
		Description: detail.Description,
		Events:      make([]wire.Event, 0, len(detail.Events)),
		Users:       make([]wire.UserMeta, 0, len(detail.Members)),
	}

	for _, ev := range detail.Events {
		out.Events = append(out.Events, wire.Event{
			ItemID:      ev.ItemID,
			DisplayName: ev.DisplayName,
			Checked:     ev.Checked,
			OccurredAt:  ev.OccurredAt.Unix(),
			UserID:      ev.UserID,
		})
	}

	// Roster entries expose id and display name only, never email.
	for _, member := range detail.Members {
		out.Users = append(out.Users, wire.UserMeta{
			ID:          member.ID,
			DisplayName: member.DisplayName,
		})
	}

	return out
}
