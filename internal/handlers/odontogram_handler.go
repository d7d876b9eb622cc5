package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dentaldesk/clinic-scheduler/internal/clock"
	"github.com/dentaldesk/clinic-scheduler/internal/httperr"
	"github.com/dentaldesk/clinic-scheduler/internal/httpresp"
	"github.com/dentaldesk/clinic-scheduler/internal/middleware"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

// OdontogramHandler serves the dental chart: the per-tooth condition
// history of a patient. The recording practitioner is always the
// authenticated user.
type OdontogramHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOdontogramHandler(db *gorm.DB, log *zap.Logger) *OdontogramHandler {
	return &OdontogramHandler{db: db, log: log}
}

type OdontogramEntryRequest struct {
	PacienteID    uuid.UUID `json:"pacienteId" binding:"required"`
	NumeroDiente  int       `json:"numeroDiente" binding:"required"`
	Estado        string    `json:"estado" binding:"required"`
	Observaciones string    `json:"observaciones"`
	FechaRegistro string    `json:"fechaRegistro"`
}

func (r *OdontogramEntryRequest) validate() error {
	if !models.ValidToothNumber(r.NumeroDiente) {
		return httperr.ErrBusiness("invalid_tooth",
			"numeroDiente must be an FDI number (11-18, 21-28, 31-38 or 41-48)")
	}
	if !models.ValidToothCondition(r.Estado) {
		return httperr.ErrBusiness("invalid_tooth_condition", "unknown tooth condition: "+r.Estado)
	}
	if r.FechaRegistro == "" {
		r.FechaRegistro = clock.Today()
	}
	if !clock.ValidDate(r.FechaRegistro) {
		return httperr.ErrBusiness("invalid_date_or_time", "fechaRegistro must be YYYY-MM-DD")
	}
	return nil
}

// ListByPatient returns a patient's chart entries, newest first.
// Optional desde/hasta narrow by recording date.
func (h *OdontogramHandler) ListByPatient(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	from := c.Query("desde")
	to := c.Query("hasta")
	if from != "" && !clock.ValidDate(from) {
		httperr.BadRequest(c, "invalid_request", "desde must be YYYY-MM-DD")
		return
	}
	if to != "" && !clock.ValidDate(to) {
		httperr.BadRequest(c, "invalid_request", "hasta must be YYYY-MM-DD")
		return
	}
	if from != "" && to != "" && from > to {
		httperr.BadRequest(c, "invalid_request", "desde must not be after hasta")
		return
	}

	q := h.db.WithContext(c.Request.Context()).
		Preload("Recorder").
		Where("tenant_id = ? AND patient_id = ?", tenantID, patientID)
	if from != "" {
		q = q.Where("recorded_on >= ?", from)
	}
	if to != "" {
		q = q.Where("recorded_on <= ?", to)
	}

	var entries []models.OdontogramEntry
	if err := q.
		Order("recorded_on DESC, created_at DESC").
		Find(&entries).Error; err != nil {
		respondError(c, h.log, err, "list_odontogram")
		return
	}
	httpresp.List(c, entries)
}

// CurrentState returns the latest entry per tooth as a full 32-tooth map.
// Teeth without an entry map to null.
func (h *OdontogramHandler) CurrentState(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	var entries []models.OdontogramEntry
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Recorder").
		Where("tenant_id = ? AND patient_id = ?", tenantID, patientID).
		Order("recorded_on DESC, created_at DESC").
		Find(&entries).Error; err != nil {
		respondError(c, h.log, err, "odontogram_current_state")
		return
	}

	httpresp.OK(c, chartState(entries))
}

// StateAt reconstructs the chart as it stood on a given date: for every
// tooth, the latest entry recorded on or before fecha.
func (h *OdontogramHandler) StateAt(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	date := c.Query("fecha")
	if !clock.ValidDate(date) {
		httperr.BadRequest(c, "invalid_request", "fecha must be YYYY-MM-DD")
		return
	}

	var entries []models.OdontogramEntry
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Recorder").
		Where("tenant_id = ? AND patient_id = ? AND recorded_on <= ?", tenantID, patientID, date).
		Order("recorded_on DESC, created_at DESC").
		Find(&entries).Error; err != nil {
		respondError(c, h.log, err, "odontogram_state_at")
		return
	}

	httpresp.OK(c, chartState(entries))
}

// ToothHistory returns every entry for one tooth, newest first.
func (h *OdontogramHandler) ToothHistory(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	tooth, err := strconv.Atoi(c.Param("numero"))
	if err != nil || !models.ValidToothNumber(tooth) {
		httperr.BadRequest(c, "invalid_tooth",
			"numero must be an FDI number (11-18, 21-28, 31-38 or 41-48)")
		return
	}

	var entries []models.OdontogramEntry
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Recorder").
		Where("tenant_id = ? AND patient_id = ? AND tooth_number = ?", tenantID, patientID, tooth).
		Order("recorded_on DESC, created_at DESC").
		Find(&entries).Error; err != nil {
		respondError(c, h.log, err, "odontogram_tooth_history")
		return
	}
	httpresp.List(c, entries)
}

// Create records one chart entry.
func (h *OdontogramHandler) Create(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	userID := middleware.UserID(c)

	var req OdontogramEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, h.log, err, "create_odontogram_entry")
		return
	}

	if err := h.patientExists(c, tenantID, req.PacienteID); err != nil {
		respondError(c, h.log, err, "create_odontogram_entry")
		return
	}

	entry := models.OdontogramEntry{
		TenantID:    tenantID,
		PatientID:   req.PacienteID,
		ToothNumber: req.NumeroDiente,
		Condition:   req.Estado,
		Notes:       req.Observaciones,
		RecordedOn:  req.FechaRegistro,
		RecordedBy:  userID,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&entry).Error; err != nil {
		respondError(c, h.log, err, "create_odontogram_entry")
		return
	}
	httpresp.Created(c, entry)
}

// CreateBatch records several entries for one patient in a single
// transaction, typically a full chart capture during an examination.
func (h *OdontogramHandler) CreateBatch(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	userID := middleware.UserID(c)

	var reqs []OdontogramEntryRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if len(reqs) == 0 {
		httperr.BadRequest(c, "invalid_request", "at least one entry is required")
		return
	}

	patientID := reqs[0].PacienteID
	entries := make([]models.OdontogramEntry, 0, len(reqs))
	for i := range reqs {
		if reqs[i].PacienteID != patientID {
			httperr.BadRequest(c, "invalid_request", "all entries must belong to the same patient")
			return
		}
		if err := reqs[i].validate(); err != nil {
			respondError(c, h.log, err, "create_odontogram_batch")
			return
		}
		entries = append(entries, models.OdontogramEntry{
			TenantID:    tenantID,
			PatientID:   patientID,
			ToothNumber: reqs[i].NumeroDiente,
			Condition:   reqs[i].Estado,
			Notes:       reqs[i].Observaciones,
			RecordedOn:  reqs[i].FechaRegistro,
			RecordedBy:  userID,
		})
	}

	if err := h.patientExists(c, tenantID, patientID); err != nil {
		respondError(c, h.log, err, "create_odontogram_batch")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&entries).Error
	}); err != nil {
		respondError(c, h.log, err, "create_odontogram_batch")
		return
	}
	httpresp.Created(c, entries)
}

// Update rewrites an existing entry, same validation as Create.
func (h *OdontogramHandler) Update(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	var req OdontogramEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, h.log, err, "update_odontogram_entry")
		return
	}

	var entry models.OdontogramEntry
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&entry).Error; err != nil {
		respondError(c, h.log, err, "update_odontogram_entry")
		return
	}

	entry.ToothNumber = req.NumeroDiente
	entry.Condition = req.Estado
	entry.Notes = req.Observaciones
	entry.RecordedOn = req.FechaRegistro

	if err := h.db.WithContext(c.Request.Context()).Save(&entry).Error; err != nil {
		respondError(c, h.log, err, "update_odontogram_entry")
		return
	}
	httpresp.OK(c, entry)
}

// Delete removes an entry physically. Chart entries carry no soft delete.
func (h *OdontogramHandler) Delete(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.OdontogramEntry{})
	if res.Error != nil {
		respondError(c, h.log, res.Error, "delete_odontogram_entry")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "not_found", "odontogram entry not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OdontogramHandler) patientExists(c *gin.Context, tenantID, patientID uuid.UUID) error {
	var patient models.Patient
	return h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, patientID).
		First(&patient).Error
}

// chartState folds entries sorted newest-first into the latest entry per
// tooth, keyed by FDI number with null for unrecorded teeth.
func chartState(entries []models.OdontogramEntry) map[int]*models.OdontogramEntry {
	state := make(map[int]*models.OdontogramEntry, len(models.ToothNumbers))
	for _, n := range models.ToothNumbers {
		state[n] = nil
	}
	for i := range entries {
		n := entries[i].ToothNumber
		if state[n] == nil {
			state[n] = &entries[i]
		}
	}
	return state
}
