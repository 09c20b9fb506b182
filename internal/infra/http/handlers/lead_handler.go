package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/YxungHermes/LVR-HM-sub001/internal/entity"
)

// LeadHandler is the staff-facing CRM surface: list, inspect, edit and
// annotate leads. Sits behind the staff gate.
type LeadHandler struct {
	Leads      entity.LeadRepositoryInterface
	Activities entity.ActivityRepositoryInterface
	Notes      entity.NoteRepositoryInterface
}

func NewLeadHandler(
	leads entity.LeadRepositoryInterface,
	activities entity.ActivityRepositoryInterface,
	notes entity.NoteRepositoryInterface,
) *LeadHandler {
	return &LeadHandler{Leads: leads, Activities: activities, Notes: notes}
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := entity.LeadFilter{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
	}

	if filter.Status != "" && !entity.ValidStatus(filter.Status) {
		writeError(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	if filter.Priority != "" && !entity.ValidPriority(filter.Priority) {
		writeError(w, http.StatusBadRequest, "invalid priority filter")
		return
	}

	leads, err := h.Leads.List(r.Context(), filter)
	if err != nil {
		log.Printf("[LEADS] list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadLead(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

type leadPatch struct {
	PartnerOne     *string `json:"partner_one"`
	PartnerTwo     *string `json:"partner_two"`
	Pronouns       *string `json:"pronouns"`
	Phone          *string `json:"phone"`
	EventDate      *string `json:"event_date"`
	Location       *string `json:"location"`
	Venue          *string `json:"venue"`
	BudgetRange    *string `json:"budget_range"`
	EstimatedValue *int    `json:"estimated_value"`
	Status         *string `json:"status"`
	Priority       *string `json:"priority"`
}

func (h *LeadHandler) Patch(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadLead(w, r)
	if !ok {
		return
	}

	var patch leadPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if patch.Status != nil && !entity.ValidStatus(*patch.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if patch.Priority != nil && !entity.ValidPriority(*patch.Priority) {
		writeError(w, http.StatusBadRequest, "invalid priority")
		return
	}

	previousStatus := lead.Status
	applyPatch(lead, patch)

	if err := h.Leads.Update(r.Context(), lead); err != nil {
		log.Printf("[LEADS] update failed id=%s: %v", lead.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to update lead")
		return
	}

	if patch.Status != nil && *patch.Status != previousStatus {
		activity := entity.NewActivity(lead.ID, entity.ActivityStatusChange,
			fmt.Sprintf("Status changed from %s to %s", previousStatus, *patch.Status))
		if err := h.Activities.Append(r.Context(), activity); err != nil {
			log.Printf("[LEADS] status activity append failed id=%s: %v", lead.ID, err)
		}
	}

	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Leads.Delete(r.Context(), id); err != nil {
		if err == entity.ErrLeadNotFound {
			writeError(w, http.StatusNotFound, "lead not found")
			return
		}
		log.Printf("[LEADS] delete failed id=%s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to delete lead")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type createNoteRequest struct {
	Type   string `json:"type"`
	Body   string `json:"body"`
	Author string `json:"author"`
}

func (h *LeadHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadLead(w, r)
	if !ok {
		return
	}

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		writeError(w, http.StatusBadRequest, "note body is required")
		return
	}
	if req.Type != "" && !entity.ValidNoteType(req.Type) {
		writeError(w, http.StatusBadRequest, "invalid note type")
		return
	}

	note := entity.NewNote(lead.ID, req.Type, strings.TrimSpace(req.Body), strings.TrimSpace(req.Author))
	if err := h.Notes.Create(r.Context(), note); err != nil {
		log.Printf("[LEADS] note create failed id=%s: %v", lead.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to create note")
		return
	}

	activity := entity.NewActivity(lead.ID, entity.ActivityNoteAdded, "Note added")
	activity.Metadata = map[string]string{"note_id": note.ID, "note_type": note.Type}
	if err := h.Activities.Append(r.Context(), activity); err != nil {
		log.Printf("[LEADS] note activity append failed id=%s: %v", lead.ID, err)
	}

	writeJSON(w, http.StatusCreated, note)
}

func (h *LeadHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadLead(w, r)
	if !ok {
		return
	}
	notes, err := h.Notes.ListByLeadID(r.Context(), lead.ID)
	if err != nil {
		log.Printf("[LEADS] note list failed id=%s: %v", lead.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	if notes == nil {
		notes = []*entity.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *LeadHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadLead(w, r)
	if !ok {
		return
	}
	activities, err := h.Activities.ListByLeadID(r.Context(), lead.ID)
	if err != nil {
		log.Printf("[LEADS] activity list failed id=%s: %v", lead.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}
	if activities == nil {
		activities = []*entity.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *LeadHandler) loadLead(w http.ResponseWriter, r *http.Request) (*entity.Lead, bool) {
	id := chi.URLParam(r, "id")
	lead, err := h.Leads.FindByID(r.Context(), id)
	if err != nil {
		if err == entity.ErrLeadNotFound {
			writeError(w, http.StatusNotFound, "lead not found")
			return nil, false
		}
		log.Printf("[LEADS] lookup failed id=%s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load lead")
		return nil, false
	}
	return lead, true
}

func applyPatch(lead *entity.Lead, patch leadPatch) {
	if patch.PartnerOne != nil {
		lead.PartnerOne = *patch.PartnerOne
	}
	if patch.PartnerTwo != nil {
		lead.PartnerTwo = *patch.PartnerTwo
	}
	if patch.Pronouns != nil {
		lead.Pronouns = *patch.Pronouns
	}
	if patch.Phone != nil {
		lead.Phone = *patch.Phone
	}
	if patch.EventDate != nil {
		lead.EventDate = *patch.EventDate
	}
	if patch.Location != nil {
		lead.Location = *patch.Location
	}
	if patch.Venue != nil {
		lead.Venue = *patch.Venue
	}
	if patch.BudgetRange != nil {
		lead.BudgetRange = *patch.BudgetRange
	}
	if patch.EstimatedValue != nil {
		lead.EstimatedValue = *patch.EstimatedValue
	}
	if patch.Status != nil {
		lead.Status = *patch.Status
	}
	if patch.Priority != nil {
		lead.Priority = *patch.Priority
	}
}
