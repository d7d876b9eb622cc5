package handlers

import (
	"net/http"
	"strings"
	"time"

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

type PatientHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPatientHandler(db *gorm.DB, log *zap.Logger) *PatientHandler {
	return &PatientHandler{db: db, log: log}
}

type PatientRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Document  string `json:"document"`
	BirthDate string `json:"birthDate"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Allergies string `json:"allergies"`
	Notes     string `json:"notes"`
}

func (h *PatientHandler) List(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR document LIKE ? OR phone LIKE ?",
			like, like, like, like,
		)
	}

	var patients []models.Patient
	if err := q.
		Order("last_name, first_name").
		Find(&patients).Error; err != nil {
		respondError(c, h.log, err, "list_patients")
		return
	}
	httpresp.List(c, patients)
}

func (h *PatientHandler) Get(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	var patient models.Patient
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, id).
		First(&patient).Error; err != nil {
		respondError(c, h.log, err, "get_patient")
		return
	}
	httpresp.OK(c, patient)
}

func (h *PatientHandler) Create(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if req.BirthDate != "" && !clock.ValidDate(req.BirthDate) {
		httperr.BadRequest(c, "invalid_request", "birthDate must be YYYY-MM-DD")
		return
	}

	patient := models.Patient{
		TenantID:  tenantID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Document:  req.Document,
		BirthDate: req.BirthDate,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		Allergies: req.Allergies,
		Notes:     req.Notes,
		Active:    true,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&patient).Error; err != nil {
		respondError(c, h.log, err, "create_patient")
		return
	}
	httpresp.Created(c, patient)
}

func (h *PatientHandler) Update(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if req.BirthDate != "" && !clock.ValidDate(req.BirthDate) {
		httperr.BadRequest(c, "invalid_request", "birthDate must be YYYY-MM-DD")
		return
	}

	var patient models.Patient
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, id).
		First(&patient).Error; err != nil {
		respondError(c, h.log, err, "update_patient")
		return
	}

	patient.FirstName = req.FirstName
	patient.LastName = req.LastName
	patient.Document = req.Document
	patient.BirthDate = req.BirthDate
	patient.Phone = req.Phone
	patient.Email = req.Email
	patient.Address = req.Address
	patient.Allergies = req.Allergies
	patient.Notes = req.Notes

	if err := h.db.WithContext(c.Request.Context()).Save(&patient).Error; err != nil {
		respondError(c, h.log, err, "update_patient")
		return
	}
	httpresp.OK(c, patient)
}

// Delete soft-deletes the record so historical appointments keep their
// patient reference.
func (h *PatientHandler) Delete(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	now := time.Now()
	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Patient{}).
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, id).
		Updates(map[string]interface{}{
			"deleted_at": &now,
			"active":     false,
		})
	if res.Error != nil {
		respondError(c, h.log, res.Error, "delete_patient")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "not_found", "patient not found")
		return
	}
	c.Status(http.StatusNoContent)
}
