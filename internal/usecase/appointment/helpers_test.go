package appointment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	infraRepo "github.com/dentaldesk/clinic-scheduler/internal/infra/repository"
	"github.com/dentaldesk/clinic-scheduler/internal/lock"
	"github.com/dentaldesk/clinic-scheduler/internal/metrics"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

// One collector per test binary; prometheus panics on double registration.
var testMetrics = metrics.NewCollector()

// passLocker runs the callback without any locking.
type passLocker struct{}

func (passLocker) WithBookingLock(
	ctx context.Context,
	_, _ uuid.UUID,
	_ string,
	fn func(ctx context.Context) error,
) error {
	return fn(ctx)
}

// busyLocker simulates a lost race for the calendar lock.
type busyLocker struct{}

func (busyLocker) WithBookingLock(
	ctx context.Context,
	_, _ uuid.UUID,
	_ string,
	fn func(ctx context.Context) error,
) error {
	return lock.ErrNotAcquired
}

type fixture struct {
	db   *gorm.DB
	repo *infraRepo.AppointmentGormRepository

	tenant models.Tenant

	patient  models.Patient
	patient2 models.Patient

	dentist  models.User
	dentist2 models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Patient{},
		&models.ScheduleConfig{},
		&models.Appointment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := &fixture{
		db:   db,
		repo: infraRepo.NewAppointmentGormRepository(db),

		tenant: models.Tenant{Name: "Clinica Sonrisa", Active: true},

		patient:  models.Patient{FirstName: "Ana", LastName: "Gomez", Active: true},
		patient2: models.Patient{FirstName: "Luis", LastName: "Perez", Active: true},

		dentist: models.User{
			FirstName: "Marta", LastName: "Ruiz",
			Email: "marta@clinic.test", PasswordHash: "x",
			Role: models.RoleDentist, Active: true,
		},
		dentist2: models.User{
			FirstName: "Jorge", LastName: "Soto",
			Email: "jorge@clinic.test", PasswordHash: "x",
			Role: models.RoleDentist, Active: true,
		},
	}

	if err := db.Create(&f.tenant).Error; err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
	for _, m := range []interface{}{&f.patient, &f.patient2, &f.dentist, &f.dentist2} {
		switch v := m.(type) {
		case *models.Patient:
			v.TenantID = f.tenant.ID
		case *models.User:
			v.TenantID = f.tenant.ID
		}
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return f
}

func (f *fixture) createUC() *CreateAppointment {
	return NewCreateAppointment(f.repo, passLocker{}, testMetrics, zap.NewNop())
}

func (f *fixture) updateUC() *UpdateAppointment {
	return NewUpdateAppointment(f.repo, passLocker{}, testMetrics, zap.NewNop())
}

func (f *fixture) createInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		TenantID:        f.tenant.ID,
		PatientID:       f.patient.ID,
		PractitionerID:  f.dentist.ID,
		Date:            "2026-03-16",
		StartTime:       "10:00",
		DurationMinutes: 30,
		Reason:          "Limpieza dental",
	}
}

// mustCreate books an appointment through the use case and fails the test on
// any error.
func (f *fixture) mustCreate(t *testing.T, in CreateAppointmentInput) *models.Appointment {
	t.Helper()
	ap, err := f.createUC().Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return ap
}
