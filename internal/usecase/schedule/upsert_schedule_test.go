package schedule

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dentaldesk/clinic-scheduler/internal/httperr"
	infraRepo "github.com/dentaldesk/clinic-scheduler/internal/infra/repository"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

type fixture struct {
	db      *gorm.DB
	repo    *infraRepo.ScheduleGormRepository
	tenant  models.Tenant
	dentist models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Tenant{}, &models.User{}, &models.ScheduleConfig{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := &fixture{
		db:     db,
		repo:   infraRepo.NewScheduleGormRepository(db),
		tenant: models.Tenant{Name: "Clinica Sonrisa", Active: true},
	}
	if err := db.Create(&f.tenant).Error; err != nil {
		t.Fatalf("seed tenant: %v", err)
	}

	f.dentist = models.User{
		TenantID:  f.tenant.ID,
		FirstName: "Marta", LastName: "Ruiz",
		Email: "marta@clinic.test", PasswordHash: "x",
		Role: models.RoleDentist, Active: true,
	}
	if err := db.Create(&f.dentist).Error; err != nil {
		t.Fatalf("seed dentist: %v", err)
	}
	return f
}

func workingDay(dow int) DayConfigInput {
	return DayConfigInput{
		DayOfWeek:    dow,
		IsWorkingDay: true,
		MorningStart: "09:00", MorningEnd: "13:00",
		AfternoonStart: "15:00", AfternoonEnd: "18:00",
		SlotDurationMinutes: 30,
	}
}

func TestUpsertSchedule_InsertThenUpdate(t *testing.T) {
	f := newFixture(t)
	uc := NewUpsertSchedule(f.repo, zap.NewNop())
	ctx := context.Background()

	days := []DayConfigInput{workingDay(1), workingDay(2)}
	if err := uc.Execute(ctx, f.tenant.ID, &f.dentist.ID, days); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := f.repo.ListByPractitioner(ctx, f.tenant.ID, &f.dentist.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	// Re-submit Monday with a new window; Tuesday must stay untouched and
	// no duplicate Monday row may appear.
	monday := workingDay(1)
	monday.MorningStart = "08:00"
	if err := uc.Execute(ctx, f.tenant.ID, &f.dentist.ID, []DayConfigInput{monday}); err != nil {
		t.Fatalf("update: %v", err)
	}

	rows, err = f.repo.ListByPractitioner(ctx, f.tenant.ID, &f.dentist.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows after re-submit, want 2", len(rows))
	}
	for _, row := range rows {
		switch row.DayOfWeek {
		case 1:
			if row.MorningStart != "08:00" {
				t.Errorf("monday morning start = %s, want 08:00", row.MorningStart)
			}
		case 2:
			if row.MorningStart != "09:00" {
				t.Errorf("tuesday was modified: %s", row.MorningStart)
			}
		}
	}
}

func TestUpsertSchedule_DefaultDuration(t *testing.T) {
	f := newFixture(t)
	uc := NewUpsertSchedule(f.repo, zap.NewNop())
	ctx := context.Background()

	day := workingDay(3)
	day.SlotDurationMinutes = 0
	if err := uc.Execute(ctx, f.tenant.ID, &f.dentist.ID, []DayConfigInput{day}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rows, err := f.repo.ListByPractitioner(ctx, f.tenant.ID, &f.dentist.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].SlotDurationMinutes != 30 {
		t.Fatalf("duration = %d, want default 30", rows[0].SlotDurationMinutes)
	}
}

func TestUpsertSchedule_ClinicWideRows(t *testing.T) {
	f := newFixture(t)
	uc := NewUpsertSchedule(f.repo, zap.NewNop())
	ctx := context.Background()

	if err := uc.Execute(ctx, f.tenant.ID, nil, []DayConfigInput{workingDay(1)}); err != nil {
		t.Fatalf("upsert clinic-wide: %v", err)
	}
	if err := uc.Execute(ctx, f.tenant.ID, &f.dentist.ID, []DayConfigInput{workingDay(1)}); err != nil {
		t.Fatalf("upsert practitioner: %v", err)
	}

	clinicRows, err := f.repo.ListByPractitioner(ctx, f.tenant.ID, nil)
	if err != nil {
		t.Fatalf("list clinic-wide: %v", err)
	}
	if len(clinicRows) != 1 || clinicRows[0].PractitionerID != nil {
		t.Fatalf("clinic-wide rows: got %d", len(clinicRows))
	}

	dentistRows, err := f.repo.ListByPractitioner(ctx, f.tenant.ID, &f.dentist.ID)
	if err != nil {
		t.Fatalf("list practitioner: %v", err)
	}
	if len(dentistRows) != 1 {
		t.Fatalf("practitioner rows: got %d", len(dentistRows))
	}
}

func TestUpsertSchedule_Validation(t *testing.T) {
	f := newFixture(t)
	uc := NewUpsertSchedule(f.repo, zap.NewNop())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(d *DayConfigInput)
	}{
		{"day out of range", func(d *DayConfigInput) { d.DayOfWeek = 7 }},
		{"negative day", func(d *DayConfigInput) { d.DayOfWeek = -1 }},
		{"start after end", func(d *DayConfigInput) { d.MorningStart = "13:00"; d.MorningEnd = "09:00" }},
		{"start equals end", func(d *DayConfigInput) { d.MorningStart = "09:00"; d.MorningEnd = "09:00" }},
		{"half window", func(d *DayConfigInput) { d.AfternoonStart = ""; d.AfternoonEnd = "18:00" }},
		{"bad format", func(d *DayConfigInput) { d.MorningStart = "9am" }},
		{"non-working day with window", func(d *DayConfigInput) { d.IsWorkingDay = false }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			day := workingDay(1)
			c.mutate(&day)
			err := uc.Execute(ctx, f.tenant.ID, &f.dentist.ID, []DayConfigInput{day})
			if !httperr.IsBusiness(err, "invalid_schedule") {
				t.Fatalf("got %v, want invalid_schedule", err)
			}
		})
	}
}

func TestUpsertSchedule_InvalidDayRejectsWholeBatch(t *testing.T) {
	f := newFixture(t)
	uc := NewUpsertSchedule(f.repo, zap.NewNop())
	ctx := context.Background()

	bad := workingDay(2)
	bad.MorningStart = "14:00"
	bad.MorningEnd = "10:00"

	err := uc.Execute(ctx, f.tenant.ID, &f.dentist.ID, []DayConfigInput{workingDay(1), bad})
	if !httperr.IsBusiness(err, "invalid_schedule") {
		t.Fatalf("got %v, want invalid_schedule", err)
	}

	rows, err := f.repo.ListByPractitioner(ctx, f.tenant.ID, &f.dentist.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("partial write: %d rows persisted", len(rows))
	}
}

func TestGetConsolidatedWorkHours(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	uc := NewGetConsolidatedWorkHours(f.repo)

	// Nothing configured yet: the default window applies.
	wh, err := uc.Execute(ctx, f.tenant.ID)
	if err != nil {
		t.Fatalf("work hours: %v", err)
	}
	if wh.DayStart != "09:00" || wh.DayEnd != "18:00" {
		t.Fatalf("default window = %+v", wh)
	}

	upsert := NewUpsertSchedule(f.repo, zap.NewNop())
	day := workingDay(1)
	day.MorningStart = "07:30"
	day.AfternoonEnd = "20:00"
	if err := upsert.Execute(ctx, f.tenant.ID, &f.dentist.ID, []DayConfigInput{day}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	wh, err = uc.Execute(ctx, f.tenant.ID)
	if err != nil {
		t.Fatalf("work hours: %v", err)
	}
	if wh.DayStart != "07:30" || wh.DayEnd != "20:00" {
		t.Fatalf("window = %+v", wh)
	}

	// Deactivating the dentist drops their rows from consolidation.
	if err := f.db.Model(&f.dentist).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	wh, err = uc.Execute(ctx, f.tenant.ID)
	if err != nil {
		t.Fatalf("work hours: %v", err)
	}
	if wh.DayStart != "09:00" || wh.DayEnd != "18:00" {
		t.Fatalf("window after deactivation = %+v", wh)
	}
}
