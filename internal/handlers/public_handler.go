package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dentaldesk/clinic-scheduler/internal/clock"
	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/appointment"
	"github.com/dentaldesk/clinic-scheduler/internal/httperr"
	"github.com/dentaldesk/clinic-scheduler/internal/httpresp"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
	ucappointment "github.com/dentaldesk/clinic-scheduler/internal/usecase/appointment"
)

// PublicHandler is the unauthenticated booking surface: patients pick a
// clinic, see its free slots and reserve one. Creation goes through the
// same use case as the private API, so conflict checks, locking and
// metrics apply unchanged.
type PublicHandler struct {
	db       *gorm.DB
	createUC *ucappointment.CreateAppointment
	slotsUC  *ucappointment.GetAvailableSlots
	log      *zap.Logger
}

func NewPublicHandler(
	db *gorm.DB,
	createUC *ucappointment.CreateAppointment,
	slotsUC *ucappointment.GetAvailableSlots,
	log *zap.Logger,
) *PublicHandler {
	return &PublicHandler{db: db, createUC: createUC, slotsUC: slotsUC, log: log}
}

type PublicTenant struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
}

type PublicBookingRequest struct {
	TenantID uuid.UUID `json:"tenantId" binding:"required"`

	NombreCompleto  string `json:"nombreCompleto" binding:"required"`
	Documento       string `json:"documento" binding:"required"`
	FechaNacimiento string `json:"fechaNacimiento"`
	Telefono        string `json:"telefono"`
	Email           string `json:"email"`

	Fecha      string `json:"fecha" binding:"required"`
	HoraInicio string `json:"horaInicio" binding:"required"`
	Motivo     string `json:"motivo"`
}

// Tenants lists the clinics that accept public bookings.
func (h *PublicHandler) Tenants(c *gin.Context) {
	var tenants []models.Tenant
	if err := h.db.WithContext(c.Request.Context()).
		Where("active = ?", true).
		Order("name").
		Find(&tenants).Error; err != nil {
		respondError(c, h.log, err, "public_tenants")
		return
	}

	out := make([]PublicTenant, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, PublicTenant{ID: t.ID, Nombre: t.Name})
	}
	httpresp.List(c, out)
}

// AvailableSlots returns the clinic's free slot start times for a date as
// ISO datetimes, optionally for one practitioner.
func (h *PublicHandler) AvailableSlots(c *gin.Context) {
	tenant, err := h.activeTenant(c, c.Query("tenantId"))
	if err != nil {
		respondError(c, h.log, err, "public_available_slots")
		return
	}

	date := c.Query("fecha")
	if date == "" {
		httperr.BadRequest(c, "invalid_request", "fecha is required")
		return
	}

	in := domain.AvailabilityInput{
		TenantID: tenant.ID,
		Date:     date,
	}
	if raw := c.Query("usuarioId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_request", "usuarioId must be a UUID")
			return
		}
		in.PractitionerID = &id
	}

	slots, err := h.slotsUC.Execute(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err, "public_available_slots")
		return
	}

	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, clock.Combine(s.Date, s.Start))
	}
	httpresp.List(c, starts)
}

// Book reserves a slot without an account. The patient is matched by
// document number and created on first contact; the clinic assigns any
// free practitioner.
func (h *PublicHandler) Book(c *gin.Context) {
	var req PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if req.FechaNacimiento != "" && !clock.ValidDate(req.FechaNacimiento) {
		httperr.BadRequest(c, "invalid_request", "fechaNacimiento must be YYYY-MM-DD")
		return
	}

	tenant, err := h.activeTenant(c, req.TenantID.String())
	if err != nil {
		respondError(c, h.log, err, "public_book")
		return
	}

	// The requested start must be a free slot inside the clinic's working
	// window; arbitrary times are a private-API privilege.
	slots, err := h.slotsUC.Execute(c.Request.Context(), domain.AvailabilityInput{
		TenantID: tenant.ID,
		Date:     req.Fecha,
	})
	if err != nil {
		respondError(c, h.log, err, "public_book")
		return
	}
	if !slotOffered(slots, req.HoraInicio) {
		httperr.BadRequest(c, "slot_unavailable", "the selected time is not available")
		return
	}

	patient, err := h.findOrCreatePatient(c, tenant.ID, &req)
	if err != nil {
		respondError(c, h.log, err, "public_book")
		return
	}

	reason := req.Motivo
	if reason == "" {
		reason = "Consulta general"
	}

	var dentists []models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND role = ? AND active = ?", tenant.ID, models.RoleDentist, true).
		Order("created_at").
		Find(&dentists).Error; err != nil {
		respondError(c, h.log, err, "public_book")
		return
	}
	if len(dentists) == 0 {
		httperr.BadRequest(c, "no_practitioners", "the clinic has no practitioners available")
		return
	}

	// First dentist whose calendar is free at that time takes the booking.
	for _, dentist := range dentists {
		ap, err := h.createUC.Execute(c.Request.Context(), ucappointment.CreateAppointmentInput{
			TenantID:        tenant.ID,
			PatientID:       patient.ID,
			PractitionerID:  dentist.ID,
			Date:            req.Fecha,
			StartTime:       req.HoraInicio,
			DurationMinutes: domain.SlotDurationMinutes,
			Reason:          reason,
		})
		if err != nil {
			if httperr.IsBusiness(err, "practitioner_conflict") {
				continue
			}
			respondError(c, h.log, err, "public_book")
			return
		}
		httpresp.Created(c, ap)
		return
	}

	httperr.BadRequest(c, "slot_unavailable", "the selected time is not available")
}

func (h *PublicHandler) activeTenant(c *gin.Context, raw string) (*models.Tenant, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_request", "tenantId must be a UUID")
	}

	var tenant models.Tenant
	err = h.db.WithContext(c.Request.Context()).
		Where("id = ? AND active = ?", id, true).
		First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (h *PublicHandler) findOrCreatePatient(
	c *gin.Context,
	tenantID uuid.UUID,
	req *PublicBookingRequest,
) (*models.Patient, error) {

	var patient models.Patient
	err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND document = ? AND deleted_at IS NULL", tenantID, req.Documento).
		First(&patient).Error
	if err == nil {
		return &patient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	firstName, lastName := splitFullName(req.NombreCompleto)
	patient = models.Patient{
		TenantID:  tenantID,
		FirstName: firstName,
		LastName:  lastName,
		Document:  req.Documento,
		BirthDate: req.FechaNacimiento,
		Phone:     req.Telefono,
		Email:     req.Email,
		Active:    true,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func splitFullName(full string) (first, last string) {
	parts := strings.SplitN(strings.TrimSpace(full), " ", 2)
	first = parts[0]
	if len(parts) > 1 {
		last = parts[1]
	}
	return first, last
}

func slotOffered(slots []domain.Slot, start string) bool {
	for _, s := range slots {
		if s.Start == start {
			return true
		}
	}
	return false
}
