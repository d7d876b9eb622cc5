package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dentaldesk/clinic-scheduler/internal/config"
	"github.com/dentaldesk/clinic-scheduler/internal/handlers"
	infraRepo "github.com/dentaldesk/clinic-scheduler/internal/infra/repository"
	"github.com/dentaldesk/clinic-scheduler/internal/lock"
	"github.com/dentaldesk/clinic-scheduler/internal/metrics"
	"github.com/dentaldesk/clinic-scheduler/internal/middleware"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
	ucAppointment "github.com/dentaldesk/clinic-scheduler/internal/usecase/appointment"
	ucSchedule "github.com/dentaldesk/clinic-scheduler/internal/usecase/schedule"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	locker lock.Locker,
	collector *metrics.Collector,
	log *zap.Logger,
) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo, locker, collector, log,
	)
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(
		appointmentRepo, locker, collector, log,
	)
	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(appointmentRepo, log)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, collector, log)
	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(appointmentRepo, log)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)
	getAppointmentUC := ucAppointment.NewGetAppointment(appointmentRepo)
	availableSlotsUC := ucAppointment.NewGetAvailableSlots(appointmentRepo, scheduleRepo)

	// ======================================================
	// USE CASES — SCHEDULE CONFIG
	// ======================================================
	getScheduleUC := ucSchedule.NewGetSchedule(scheduleRepo)
	upsertScheduleUC := ucSchedule.NewUpsertSchedule(scheduleRepo, log)
	workHoursUC := ucSchedule.NewGetConsolidatedWorkHours(scheduleRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, log)
	userHandler := handlers.NewUserHandler(db, log)
	patientHandler := handlers.NewPatientHandler(db, log)
	treatmentHandler := handlers.NewTreatmentHandler(db, log)
	odontogramHandler := handlers.NewOdontogramHandler(db, log)
	publicHandler := handlers.NewPublicHandler(db, createAppointmentUC, availableSlotsUC, log)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		updateAppointmentUC,
		confirmAppointmentUC,
		cancelAppointmentUC,
		deleteAppointmentUC,
		listAppointmentsUC,
		getAppointmentUC,
		availableSlotsUC,
		log,
	)

	scheduleConfigHandler := handlers.NewScheduleConfigHandler(
		getScheduleUC,
		upsertScheduleUC,
		workHoursUC,
		log,
	)

	// ======================================================
	// OPERATIONAL ENDPOINTS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PUBLICA (SIN TOKEN)
		// ------------------------------
		public := api.Group("/public")
		{
			public.GET("/tenants", publicHandler.Tenants)
			public.GET("/citas/disponibles", publicHandler.AvailableSlots)
			public.POST("/citas", publicHandler.Book)
		}

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", userHandler.Me)

			// ------------------------------
			// CITAS
			// ------------------------------
			secured.GET("/citas", appointmentHandler.List)
			secured.GET("/citas/disponibles", appointmentHandler.AvailableSlots)
			secured.GET("/citas/:id", appointmentHandler.Get)
			secured.POST("/citas", appointmentHandler.Create)
			secured.PUT("/citas/:id", appointmentHandler.Update)
			secured.POST("/citas/:id/confirmar", appointmentHandler.Confirm)
			secured.POST("/citas/:id/cancelar", appointmentHandler.Cancel)
			secured.DELETE("/citas/:id", appointmentHandler.Delete)

			// ------------------------------
			// SCHEDULE CONFIG
			// ------------------------------
			secured.GET("/scheduleconfig", scheduleConfigHandler.Get)
			secured.GET("/scheduleconfig/workhours", scheduleConfigHandler.WorkHours)
			secured.POST("/scheduleconfig/upsert",
				middleware.RequireRoles(models.RoleTenantAdmin),
				scheduleConfigHandler.Upsert,
			)

			// ------------------------------
			// PACIENTES
			// ------------------------------
			secured.GET("/pacientes", patientHandler.List)
			secured.GET("/pacientes/:id", patientHandler.Get)
			secured.POST("/pacientes", patientHandler.Create)
			secured.PUT("/pacientes/:id", patientHandler.Update)
			secured.DELETE("/pacientes/:id",
				middleware.RequireRoles(models.RoleTenantAdmin),
				patientHandler.Delete,
			)

			// ------------------------------
			// TRATAMIENTOS
			// ------------------------------
			secured.GET("/pacientes/:id/tratamientos", treatmentHandler.ListByPatient)
			secured.POST("/tratamientos",
				middleware.RequireRoles(models.RoleTenantAdmin, models.RoleDentist),
				treatmentHandler.Create,
			)

			// ------------------------------
			// ODONTOGRAMA
			// ------------------------------
			secured.GET("/pacientes/:id/odontograma", odontogramHandler.ListByPatient)
			secured.GET("/pacientes/:id/odontograma/estado-actual", odontogramHandler.CurrentState)
			secured.GET("/pacientes/:id/odontograma/estado-en-fecha", odontogramHandler.StateAt)
			secured.GET("/pacientes/:id/odontograma/diente/:numero", odontogramHandler.ToothHistory)
			secured.POST("/odontograma",
				middleware.RequireRoles(models.RoleTenantAdmin, models.RoleDentist),
				odontogramHandler.Create,
			)
			secured.POST("/odontograma/batch",
				middleware.RequireRoles(models.RoleTenantAdmin, models.RoleDentist),
				odontogramHandler.CreateBatch,
			)
			secured.PUT("/odontograma/:id",
				middleware.RequireRoles(models.RoleTenantAdmin, models.RoleDentist),
				odontogramHandler.Update,
			)
			secured.DELETE("/odontograma/:id",
				middleware.RequireRoles(models.RoleTenantAdmin, models.RoleDentist),
				odontogramHandler.Delete,
			)

			// ------------------------------
			// USUARIOS
			// ------------------------------
			secured.GET("/usuarios", userHandler.List)
			secured.POST("/usuarios",
				middleware.RequireRoles(models.RoleTenantAdmin),
				userHandler.Create,
			)
			secured.PUT("/usuarios/:id",
				middleware.RequireRoles(models.RoleTenantAdmin),
				userHandler.Update,
			)
		}
	}
}
