package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

func odontogramRouter(f *webFixture) *gin.Engine {
	r := gin.New()
	h := NewOdontogramHandler(f.db, zapTest())

	api := r.Group("/api", authAs(f.dentist.ID, f.tenant.ID, models.RoleDentist))
	api.GET("/pacientes/:id/odontograma", h.ListByPatient)
	api.GET("/pacientes/:id/odontograma/estado-actual", h.CurrentState)
	api.GET("/pacientes/:id/odontograma/estado-en-fecha", h.StateAt)
	api.GET("/pacientes/:id/odontograma/diente/:numero", h.ToothHistory)
	api.POST("/odontograma", h.Create)
	api.POST("/odontograma/batch", h.CreateBatch)
	api.PUT("/odontograma/:id", h.Update)
	api.DELETE("/odontograma/:id", h.Delete)
	return r
}

func entryBody(patientID uuid.UUID, tooth int, condition, date string) map[string]any {
	return map[string]any{
		"pacienteId":    patientID,
		"numeroDiente":  tooth,
		"estado":        condition,
		"fechaRegistro": date,
	}
}

func TestOdontogram_CreateAndToothHistory(t *testing.T) {
	f := newWebFixture(t)
	r := odontogramRouter(f)

	w := doJSON(t, r, http.MethodPost, "/api/odontograma",
		entryBody(f.patient.ID, 11, models.ToothCaries, "2026-01-10"))
	expectStatus(t, w, http.StatusCreated)

	var created models.OdontogramEntry
	decodeJSON(t, w, &created)
	if created.RecordedBy != f.dentist.ID {
		t.Errorf("recorded_by = %s, want authenticated user %s", created.RecordedBy, f.dentist.ID)
	}

	w = doJSON(t, r, http.MethodPost, "/api/odontograma",
		entryBody(f.patient.ID, 11, models.ToothTreated, "2026-02-10"))
	expectStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/pacientes/%s/odontograma/diente/11", f.patient.ID), nil)
	expectStatus(t, w, http.StatusOK)

	var history struct {
		Data  []models.OdontogramEntry `json:"data"`
		Total int                      `json:"total"`
	}
	decodeJSON(t, w, &history)
	if history.Total != 2 {
		t.Fatalf("tooth 11 history total = %d, want 2", history.Total)
	}
	if history.Data[0].Condition != models.ToothTreated {
		t.Errorf("newest entry condition = %q, want %q", history.Data[0].Condition, models.ToothTreated)
	}
}

func TestOdontogram_RejectsInvalidToothAndCondition(t *testing.T) {
	f := newWebFixture(t)
	r := odontogramRouter(f)

	w := doJSON(t, r, http.MethodPost, "/api/odontograma",
		entryBody(f.patient.ID, 19, models.ToothCaries, "2026-01-10"))
	expectStatus(t, w, http.StatusBadRequest)
	if code := errorCode(t, w); code != "invalid_tooth" {
		t.Errorf("error_code = %q, want invalid_tooth", code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/odontograma",
		entryBody(f.patient.ID, 11, "molar_de_oro", "2026-01-10"))
	expectStatus(t, w, http.StatusBadRequest)
	if code := errorCode(t, w); code != "invalid_tooth_condition" {
		t.Errorf("error_code = %q, want invalid_tooth_condition", code)
	}

	w = doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/pacientes/%s/odontograma/diente/99", f.patient.ID), nil)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestOdontogram_UnknownPatientRejected(t *testing.T) {
	f := newWebFixture(t)
	r := odontogramRouter(f)

	w := doJSON(t, r, http.MethodPost, "/api/odontograma",
		entryBody(uuid.New(), 11, models.ToothCaries, "2026-01-10"))
	expectStatus(t, w, http.StatusNotFound)
}

func TestOdontogram_CurrentStateAndStateAt(t *testing.T) {
	f := newWebFixture(t)
	r := odontogramRouter(f)

	for _, e := range []struct {
		tooth     int
		condition string
		date      string
	}{
		{11, models.ToothCaries, "2026-01-10"},
		{11, models.ToothTreated, "2026-03-01"},
		{21, models.ToothExtracted, "2026-02-01"},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/odontograma",
			entryBody(f.patient.ID, e.tooth, e.condition, e.date))
		expectStatus(t, w, http.StatusCreated)
	}

	w := doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/pacientes/%s/odontograma/estado-actual", f.patient.ID), nil)
	expectStatus(t, w, http.StatusOK)

	var current map[string]*models.OdontogramEntry
	decodeJSON(t, w, &current)
	if len(current) != len(models.ToothNumbers) {
		t.Fatalf("chart has %d teeth, want %d", len(current), len(models.ToothNumbers))
	}
	if got := current["11"]; got == nil || got.Condition != models.ToothTreated {
		t.Errorf("tooth 11 current = %+v, want %s", got, models.ToothTreated)
	}
	if got := current["21"]; got == nil || got.Condition != models.ToothExtracted {
		t.Errorf("tooth 21 current = %+v, want %s", got, models.ToothExtracted)
	}
	if current["12"] != nil {
		t.Errorf("tooth 12 current = %+v, want null", current["12"])
	}

	// As of end of January only the caries entry exists.
	w = doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/pacientes/%s/odontograma/estado-en-fecha?fecha=2026-01-31", f.patient.ID), nil)
	expectStatus(t, w, http.StatusOK)

	var asOf map[string]*models.OdontogramEntry
	decodeJSON(t, w, &asOf)
	if got := asOf["11"]; got == nil || got.Condition != models.ToothCaries {
		t.Errorf("tooth 11 as of 2026-01-31 = %+v, want %s", got, models.ToothCaries)
	}
	if asOf["21"] != nil {
		t.Errorf("tooth 21 as of 2026-01-31 = %+v, want null", asOf["21"])
	}
}

func TestOdontogram_BatchCreate(t *testing.T) {
	f := newWebFixture(t)
	r := odontogramRouter(f)

	batch := []map[string]any{
		entryBody(f.patient.ID, 11, models.ToothHealthy, "2026-04-01"),
		entryBody(f.patient.ID, 12, models.ToothCaries, "2026-04-01"),
		entryBody(f.patient.ID, 36, models.ToothCrown, "2026-04-01"),
	}
	w := doJSON(t, r, http.MethodPost, "/api/odontograma/batch", batch)
	expectStatus(t, w, http.StatusCreated)

	var count int64
	if err := f.db.Model(&models.OdontogramEntry{}).
		Where("patient_id = ?", f.patient.ID).Count(&count).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 3 {
		t.Errorf("entries persisted = %d, want 3", count)
	}
}

func TestOdontogram_BatchRejectsMixedPatientsAndEmpty(t *testing.T) {
	f := newWebFixture(t)
	r := odontogramRouter(f)

	other := models.Patient{TenantID: f.tenant.ID, FirstName: "Olga", LastName: "Otra", Active: true}
	if err := f.db.Create(&other).Error; err != nil {
		t.Fatalf("seed second patient: %v", err)
	}

	mixed := []map[string]any{
		entryBody(f.patient.ID, 11, models.ToothHealthy, "2026-04-01"),
		entryBody(other.ID, 12, models.ToothCaries, "2026-04-01"),
	}
	w := doJSON(t, r, http.MethodPost, "/api/odontograma/batch", mixed)
	expectStatus(t, w, http.StatusBadRequest)

	w = doJSON(t, r, http.MethodPost, "/api/odontograma/batch", []map[string]any{})
	expectStatus(t, w, http.StatusBadRequest)

	// A failed batch persists nothing.
	var count int64
	if err := f.db.Model(&models.OdontogramEntry{}).Count(&count).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 0 {
		t.Errorf("entries persisted after rejected batches = %d, want 0", count)
	}
}

func TestOdontogram_ListWithDateFilters(t *testing.T) {
	f := newWebFixture(t)
	r := odontogramRouter(f)

	for _, date := range []string{"2026-01-10", "2026-02-10", "2026-03-10"} {
		w := doJSON(t, r, http.MethodPost, "/api/odontograma",
			entryBody(f.patient.ID, 11, models.ToothCaries, date))
		expectStatus(t, w, http.StatusCreated)
	}

	w := doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/pacientes/%s/odontograma?desde=2026-02-01&hasta=2026-02-28", f.patient.ID), nil)
	expectStatus(t, w, http.StatusOK)

	var list struct {
		Data  []models.OdontogramEntry `json:"data"`
		Total int                      `json:"total"`
	}
	decodeJSON(t, w, &list)
	if list.Total != 1 || list.Data[0].RecordedOn != "2026-02-10" {
		t.Errorf("filtered list = %+v, want the single February entry", list)
	}

	w = doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/pacientes/%s/odontograma?desde=2026-03-01&hasta=2026-01-01", f.patient.ID), nil)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestOdontogram_UpdateAndDelete(t *testing.T) {
	f := newWebFixture(t)
	r := odontogramRouter(f)

	w := doJSON(t, r, http.MethodPost, "/api/odontograma",
		entryBody(f.patient.ID, 11, models.ToothPending, "2026-01-10"))
	expectStatus(t, w, http.StatusCreated)

	var entry models.OdontogramEntry
	decodeJSON(t, w, &entry)

	w = doJSON(t, r, http.MethodPut, "/api/odontograma/"+entry.ID.String(),
		entryBody(f.patient.ID, 11, models.ToothRootCanal, "2026-01-12"))
	expectStatus(t, w, http.StatusOK)

	var updated models.OdontogramEntry
	decodeJSON(t, w, &updated)
	if updated.Condition != models.ToothRootCanal || updated.RecordedOn != "2026-01-12" {
		t.Errorf("updated entry = %+v, want root_canal on 2026-01-12", updated)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/odontograma/"+entry.ID.String(), nil)
	expectStatus(t, w, http.StatusNoContent)

	w = doJSON(t, r, http.MethodDelete, "/api/odontograma/"+entry.ID.String(), nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestOdontogram_TenantIsolation(t *testing.T) {
	f := newWebFixture(t)
	r := odontogramRouter(f)

	otherTenant := models.Tenant{Name: "Otra Clinica", Active: true}
	if err := f.db.Create(&otherTenant).Error; err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
	foreign := models.OdontogramEntry{
		TenantID:    otherTenant.ID,
		PatientID:   f.patient.ID,
		ToothNumber: 11,
		Condition:   models.ToothCaries,
		RecordedOn:  "2026-01-10",
		RecordedBy:  f.dentist.ID,
	}
	if err := f.db.Create(&foreign).Error; err != nil {
		t.Fatalf("seed foreign entry: %v", err)
	}

	w := doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/pacientes/%s/odontograma", f.patient.ID), nil)
	expectStatus(t, w, http.StatusOK)

	var list struct {
		Total int `json:"total"`
	}
	decodeJSON(t, w, &list)
	if list.Total != 0 {
		t.Errorf("cross-tenant entries leaked, total = %d, want 0", list.Total)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/odontograma/"+foreign.ID.String(), nil)
	expectStatus(t, w, http.StatusNotFound)
}
