package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dentaldesk/clinic-scheduler/internal/clock"
	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/appointment"
	"github.com/dentaldesk/clinic-scheduler/internal/httperr"
	"github.com/dentaldesk/clinic-scheduler/internal/httpresp"
	"github.com/dentaldesk/clinic-scheduler/internal/middleware"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
	ucappointment "github.com/dentaldesk/clinic-scheduler/internal/usecase/appointment"
)

type AppointmentHandler struct {
	createUC  *ucappointment.CreateAppointment
	updateUC  *ucappointment.UpdateAppointment
	confirmUC *ucappointment.ConfirmAppointment
	cancelUC  *ucappointment.CancelAppointment
	deleteUC  *ucappointment.DeleteAppointment
	listUC    *ucappointment.ListAppointments
	getUC     *ucappointment.GetAppointment
	slotsUC   *ucappointment.GetAvailableSlots

	log *zap.Logger
}

func NewAppointmentHandler(
	createUC *ucappointment.CreateAppointment,
	updateUC *ucappointment.UpdateAppointment,
	confirmUC *ucappointment.ConfirmAppointment,
	cancelUC *ucappointment.CancelAppointment,
	deleteUC *ucappointment.DeleteAppointment,
	listUC *ucappointment.ListAppointments,
	getUC *ucappointment.GetAppointment,
	slotsUC *ucappointment.GetAvailableSlots,
	log *zap.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:  createUC,
		updateUC:  updateUC,
		confirmUC: confirmUC,
		cancelUC:  cancelUC,
		deleteUC:  deleteUC,
		listUC:    listUC,
		getUC:     getUC,
		slotsUC:   slotsUC,
		log:       log,
	}
}

// ------------------------------
// Requests
// ------------------------------

type AppointmentRequest struct {
	PacienteID      uuid.UUID `json:"pacienteId" binding:"required"`
	UsuarioID       uuid.UUID `json:"usuarioId" binding:"required"`
	AppointmentDate string    `json:"appointmentDate" binding:"required"`
	StartTime       string    `json:"startTime" binding:"required"`
	DuracionMinutos int       `json:"duracionMinutos"`
	Motivo          string    `json:"motivo" binding:"required"`
	Observaciones   string    `json:"observaciones"`

	// Only honored by updates.
	Estado string `json:"estado"`
}

type CancelRequest struct {
	Motivo string `json:"motivo"`
}

// ------------------------------
// Handlers
// ------------------------------

// List returns the tenant's appointments: everything for admins, the
// caller's own calendar for everyone else. Optional desde/hasta narrow to a
// date range, pacienteId to one patient's history.
func (h *AppointmentHandler) List(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	in := ucappointment.ListAppointmentsInput{
		TenantID: tenantID,
		From:     c.Query("desde"),
		To:       c.Query("hasta"),
	}

	if raw := c.Query("pacienteId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_request", "pacienteId must be a UUID")
			return
		}
		in.PatientID = &id
	}

	if middleware.UserRole(c) != models.RoleTenantAdmin && in.PatientID == nil {
		self := middleware.UserID(c)
		in.PractitionerID = &self
	}

	aps, err := h.listUC.Execute(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err, "list_appointments")
		return
	}
	httpresp.List(c, aps)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	ap, err := h.getUC.Execute(c.Request.Context(), tenantID, id)
	if err != nil {
		respondError(c, h.log, err, "get_appointment")
		return
	}
	httpresp.OK(c, ap)
}

// AvailableSlots returns the free slot start times for a date as ISO
// datetimes, optionally restricted to one practitioner's calendar.
func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	date := c.Query("fecha")
	if date == "" {
		httperr.BadRequest(c, "invalid_request", "fecha is required")
		return
	}

	in := domain.AvailabilityInput{
		TenantID: tenantID,
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
		respondError(c, h.log, err, "available_slots")
		return
	}

	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, clock.Combine(s.Date, s.Start))
	}
	httpresp.List(c, starts)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	duration := req.DuracionMinutos
	if duration == 0 {
		duration = 30
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucappointment.CreateAppointmentInput{
		TenantID:        tenantID,
		PatientID:       req.PacienteID,
		PractitionerID:  req.UsuarioID,
		Date:            req.AppointmentDate,
		StartTime:       req.StartTime,
		DurationMinutes: duration,
		Reason:          req.Motivo,
		Notes:           req.Observaciones,
	})
	if err != nil {
		respondError(c, h.log, err, "create_appointment")
		return
	}
	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	duration := req.DuracionMinutos
	if duration == 0 {
		duration = 30
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), ucappointment.UpdateAppointmentInput{
		ID:              id,
		TenantID:        tenantID,
		PatientID:       req.PacienteID,
		PractitionerID:  req.UsuarioID,
		Date:            req.AppointmentDate,
		StartTime:       req.StartTime,
		DurationMinutes: duration,
		Reason:          req.Motivo,
		Notes:           req.Observaciones,
		Status:          req.Estado,
	})
	if err != nil {
		respondError(c, h.log, err, "update_appointment")
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	ap, err := h.confirmUC.Execute(c.Request.Context(), tenantID, id)
	if err != nil {
		respondError(c, h.log, err, "confirm_appointment")
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	var req CancelRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	ap, err := h.cancelUC.Execute(c.Request.Context(), tenantID, id, req.Motivo)
	if err != nil {
		respondError(c, h.log, err, "cancel_appointment")
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "id must be a UUID")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), tenantID, id); err != nil {
		respondError(c, h.log, err, "delete_appointment")
		return
	}
	c.Status(http.StatusNoContent)
}
