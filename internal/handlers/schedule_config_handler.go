package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dentaldesk/clinic-scheduler/internal/httperr"
	"github.com/dentaldesk/clinic-scheduler/internal/httpresp"
	"github.com/dentaldesk/clinic-scheduler/internal/middleware"
	ucschedule "github.com/dentaldesk/clinic-scheduler/internal/usecase/schedule"
)

type ScheduleConfigHandler struct {
	getUC       *ucschedule.GetSchedule
	upsertUC    *ucschedule.UpsertSchedule
	workHoursUC *ucschedule.GetConsolidatedWorkHours

	log *zap.Logger
}

func NewScheduleConfigHandler(
	getUC *ucschedule.GetSchedule,
	upsertUC *ucschedule.UpsertSchedule,
	workHoursUC *ucschedule.GetConsolidatedWorkHours,
	log *zap.Logger,
) *ScheduleConfigHandler {
	return &ScheduleConfigHandler{
		getUC:       getUC,
		upsertUC:    upsertUC,
		workHoursUC: workHoursUC,
		log:         log,
	}
}

type DayConfigRequest struct {
	DayOfWeek    int  `json:"dayOfWeek" binding:"min=0,max=6"`
	IsWorkingDay bool `json:"isWorkingDay"`

	MorningStartTime   string `json:"morningStartTime"`
	MorningEndTime     string `json:"morningEndTime"`
	AfternoonStartTime string `json:"afternoonStartTime"`
	AfternoonEndTime   string `json:"afternoonEndTime"`

	AppointmentDuration int `json:"appointmentDuration"`
}

type UpsertScheduleRequest struct {
	UsuarioID      *uuid.UUID         `json:"usuarioId"`
	Configurations []DayConfigRequest `json:"configurations" binding:"required"`
}

// Get returns the weekly rows for ?usuarioId=<uuid>, or the clinic-wide
// rows when the parameter is absent.
func (h *ScheduleConfigHandler) Get(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var practitionerID *uuid.UUID
	if raw := c.Query("usuarioId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_request", "usuarioId must be a UUID")
			return
		}
		practitionerID = &id
	}

	configs, err := h.getUC.Execute(c.Request.Context(), tenantID, practitionerID)
	if err != nil {
		respondError(c, h.log, err, "get_schedule")
		return
	}
	httpresp.List(c, configs)
}

func (h *ScheduleConfigHandler) Upsert(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var req UpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	days := make([]ucschedule.DayConfigInput, 0, len(req.Configurations))
	for _, d := range req.Configurations {
		days = append(days, ucschedule.DayConfigInput{
			DayOfWeek:           d.DayOfWeek,
			IsWorkingDay:        d.IsWorkingDay,
			MorningStart:        d.MorningStartTime,
			MorningEnd:          d.MorningEndTime,
			AfternoonStart:      d.AfternoonStartTime,
			AfternoonEnd:        d.AfternoonEndTime,
			SlotDurationMinutes: d.AppointmentDuration,
		})
	}

	if err := h.upsertUC.Execute(c.Request.Context(), tenantID, req.UsuarioID, days); err != nil {
		respondError(c, h.log, err, "upsert_schedule")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// WorkHours returns the consolidated clinic-wide operating window.
func (h *ScheduleConfigHandler) WorkHours(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	wh, err := h.workHoursUC.Execute(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, h.log, err, "work_hours")
		return
	}
	httpresp.OK(c, wh)
}
