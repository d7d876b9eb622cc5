package handlers

import (
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

type TreatmentHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewTreatmentHandler(db *gorm.DB, log *zap.Logger) *TreatmentHandler {
	return &TreatmentHandler{db: db, log: log}
}

type TreatmentRequest struct {
	PacienteID    uuid.UUID  `json:"pacienteId" binding:"required"`
	AppointmentID *uuid.UUID `json:"citaId"`

	Description string  `json:"description" binding:"required"`
	ToothCode   string  `json:"toothCode"`
	Cost        float64 `json:"cost"`
	PerformedAt string  `json:"performedAt"`
	Notes       string  `json:"notes"`
}

// ListByPatient returns a patient's treatment history, newest first.
func (h *TreatmentHandler) ListByPatient(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	var treatments []models.Treatment
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND patient_id = ?", tenantID, patientID).
		Order("performed_at DESC, created_at DESC").
		Find(&treatments).Error; err != nil {
		respondError(c, h.log, err, "list_treatments")
		return
	}
	httpresp.List(c, treatments)
}

// Create records a performed treatment. The practitioner is the
// authenticated user.
func (h *TreatmentHandler) Create(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	userID := middleware.UserID(c)

	var req TreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	performedAt := req.PerformedAt
	if performedAt == "" {
		performedAt = clock.Today()
	}
	if !clock.ValidDate(performedAt) {
		httperr.BadRequest(c, "invalid_request", "performedAt must be YYYY-MM-DD")
		return
	}

	var patient models.Patient
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, req.PacienteID).
		First(&patient).Error; err != nil {
		respondError(c, h.log, err, "create_treatment")
		return
	}

	treatment := models.Treatment{
		TenantID:       tenantID,
		PatientID:      req.PacienteID,
		PractitionerID: userID,
		AppointmentID:  req.AppointmentID,
		Description:    req.Description,
		ToothCode:      req.ToothCode,
		Cost:           req.Cost,
		PerformedAt:    performedAt,
		Notes:          req.Notes,
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&treatment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Patient{}).
			Where("tenant_id = ? AND id = ?", tenantID, patient.ID).
			Update("last_visit_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
	})
	if err != nil {
		respondError(c, h.log, err, "create_treatment")
		return
	}
	httpresp.Created(c, treatment)
}
