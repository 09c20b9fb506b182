package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/YxungHermes/LVR-HM-sub001/internal/entity"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/http/handlers"
)

func leadRouter(leads *MockLeadRepository, activities *MockActivityRepository, notes *MockNoteRepository) *chi.Mux {
	h := handlers.NewLeadHandler(leads, activities, notes)
	r := chi.NewRouter()
	r.Get("/leads", h.List)
	r.Get("/leads/{id}", h.Get)
	r.Patch("/leads/{id}", h.Patch)
	r.Delete("/leads/{id}", h.Delete)
	r.Post("/leads/{id}/notes", h.CreateNote)
	r.Get("/leads/{id}/notes", h.ListNotes)
	r.Get("/leads/{id}/activities", h.ListActivities)
	return r
}

func storedLead() *entity.Lead {
	return &entity.Lead{
		ID:         "lead-1",
		PartnerOne: "Avery",
		PartnerTwo: "Jordan",
		Email:      "avery@example.com",
		Status:     entity.StatusNew,
		Priority:   entity.PriorityMedium,
		Source:     "website_inquiry",
	}
}

func TestLeadHandler_ListRejectsBadFilter(t *testing.T) {
	r := leadRouter(new(MockLeadRepository), new(MockActivityRepository), new(MockNoteRepository))

	req := httptest.NewRequest(http.MethodGet, "/leads?status=imaginary", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid status filter")
}

func TestLeadHandler_ListPassesFilter(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("List", mock.Anything, entity.LeadFilter{Status: entity.StatusNew, Search: "avery"}).
		Return([]*entity.Lead{storedLead()}, nil)

	r := leadRouter(leads, new(MockActivityRepository), new(MockNoteRepository))

	req := httptest.NewRequest(http.MethodGet, "/leads?status=new&search=avery", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "avery@example.com")
}

func TestLeadHandler_GetNotFound(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("FindByID", mock.Anything, "missing").Return(nil, entity.ErrLeadNotFound)

	r := leadRouter(leads, new(MockActivityRepository), new(MockNoteRepository))

	req := httptest.NewRequest(http.MethodGet, "/leads/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeadHandler_PatchStatusChangeIsAudited(t *testing.T) {
	leads := new(MockLeadRepository)
	activities := new(MockActivityRepository)

	leads.On("FindByID", mock.Anything, "lead-1").Return(storedLead(), nil)
	leads.On("Update", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)

	var appended *entity.Activity
	activities.On("Append", mock.Anything, mock.AnythingOfType("*entity.Activity")).
		Run(func(args mock.Arguments) { appended = args.Get(1).(*entity.Activity) }).
		Return(nil)

	r := leadRouter(leads, activities, new(MockNoteRepository))

	req := httptest.NewRequest(http.MethodPatch, "/leads/lead-1", strings.NewReader(`{"status": "contacted"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.ActivityStatusChange, appended.Type)
	assert.Equal(t, "Status changed from new to contacted", appended.Description)
}

func TestLeadHandler_PatchRejectsInvalidStatus(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("FindByID", mock.Anything, "lead-1").Return(storedLead(), nil)

	r := leadRouter(leads, new(MockActivityRepository), new(MockNoteRepository))

	req := httptest.NewRequest(http.MethodPatch, "/leads/lead-1", strings.NewReader(`{"status": "ghosted"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLeadHandler_CreateNote(t *testing.T) {
	leads := new(MockLeadRepository)
	activities := new(MockActivityRepository)
	notes := new(MockNoteRepository)

	leads.On("FindByID", mock.Anything, "lead-1").Return(storedLead(), nil)

	var created *entity.Note
	notes.On("Create", mock.Anything, mock.AnythingOfType("*entity.Note")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*entity.Note) }).
		Return(nil)
	activities.On("Append", mock.Anything, mock.Anything).Return(nil)

	r := leadRouter(leads, activities, notes)

	req := httptest.NewRequest(http.MethodPost, "/leads/lead-1/notes",
		strings.NewReader(`{"type": "call", "body": "Spoke with Avery, sending proposal.", "author": "M"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, entity.NoteCall, created.Type)
	assert.Equal(t, "Spoke with Avery, sending proposal.", created.Body)
	activities.AssertNumberOfCalls(t, "Append", 1)
}

func TestLeadHandler_CreateNoteRequiresBody(t *testing.T) {
	leads := new(MockLeadRepository)
	notes := new(MockNoteRepository)
	leads.On("FindByID", mock.Anything, "lead-1").Return(storedLead(), nil)

	r := leadRouter(leads, new(MockActivityRepository), notes)

	req := httptest.NewRequest(http.MethodPost, "/leads/lead-1/notes", strings.NewReader(`{"body": "  "}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	notes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLeadHandler_Delete(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("Delete", mock.Anything, "lead-1").Return(nil)

	r := leadRouter(leads, new(MockActivityRepository), new(MockNoteRepository))

	req := httptest.NewRequest(http.MethodDelete, "/leads/lead-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())
}
