package appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/appointment"
	"github.com/dentaldesk/clinic-scheduler/internal/httperr"
)

func TestConfirmAppointment(t *testing.T) {
	f := newFixture(t)
	ap := f.mustCreate(t, f.createInput())

	uc := NewConfirmAppointment(f.repo, zap.NewNop())

	got, err := uc.Execute(context.Background(), f.tenant.ID, ap.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got.Status != string(domain.StatusConfirmed) {
		t.Fatalf("status = %s", got.Status)
	}

	// Idempotent.
	if _, err := uc.Execute(context.Background(), f.tenant.ID, ap.ID); err != nil {
		t.Fatalf("second confirm: %v", err)
	}
}

func TestConfirmAppointment_NotFound(t *testing.T) {
	f := newFixture(t)

	uc := NewConfirmAppointment(f.repo, zap.NewNop())
	_, err := uc.Execute(context.Background(), f.tenant.ID, uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("got %v, want record not found", err)
	}
}

func TestConfirmAppointment_WrongTenant(t *testing.T) {
	f := newFixture(t)
	ap := f.mustCreate(t, f.createInput())

	uc := NewConfirmAppointment(f.repo, zap.NewNop())
	_, err := uc.Execute(context.Background(), uuid.New(), ap.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("cross-tenant access: got %v, want record not found", err)
	}
}

func TestCancelAppointment(t *testing.T) {
	f := newFixture(t)
	ap := f.mustCreate(t, f.createInput())

	uc := NewCancelAppointment(f.repo, testMetrics, zap.NewNop())

	got, err := uc.Execute(context.Background(), f.tenant.ID, ap.ID, "patient request")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != string(domain.StatusCancelled) {
		t.Fatalf("status = %s", got.Status)
	}
	if got.CancelledAt == nil {
		t.Fatal("cancelled_at not set")
	}
	if got.CancellationReason != "patient request" {
		t.Fatalf("reason = %q", got.CancellationReason)
	}

	// A second cancel hits the terminal state.
	_, err = uc.Execute(context.Background(), f.tenant.ID, ap.ID, "again")
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("got %v, want invalid_state", err)
	}
}

func TestDeleteAppointment(t *testing.T) {
	f := newFixture(t)
	ap := f.mustCreate(t, f.createInput())

	uc := NewDeleteAppointment(f.repo, zap.NewNop())
	if err := uc.Execute(context.Background(), f.tenant.ID, ap.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Gone from reads.
	if _, err := f.repo.GetByID(context.Background(), f.tenant.ID, ap.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("got %v, want record not found", err)
	}

	// And the interval is free again.
	f.mustCreate(t, f.createInput())
}

func TestListAppointments(t *testing.T) {
	f := newFixture(t)

	a := f.createInput() // dentist1 / patient1, 2026-03-16 10:00
	f.mustCreate(t, a)

	b := f.createInput()
	b.PatientID = f.patient2.ID
	b.PractitionerID = f.dentist2.ID
	b.Date = "2026-03-18"
	f.mustCreate(t, b)

	uc := NewListAppointments(f.repo)

	all, err := uc.Execute(context.Background(), ListAppointmentsInput{TenantID: f.tenant.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all: got %d", len(all))
	}

	ranged, err := uc.Execute(context.Background(), ListAppointmentsInput{
		TenantID: f.tenant.ID, From: "2026-03-17", To: "2026-03-19",
	})
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(ranged) != 1 || ranged[0].Date != "2026-03-18" {
		t.Fatalf("range: got %d", len(ranged))
	}

	mine, err := uc.Execute(context.Background(), ListAppointmentsInput{
		TenantID: f.tenant.ID, PractitionerID: &f.dentist.ID,
	})
	if err != nil {
		t.Fatalf("list practitioner: %v", err)
	}
	if len(mine) != 1 || mine[0].PractitionerID != f.dentist.ID {
		t.Fatalf("practitioner: got %d", len(mine))
	}

	history, err := uc.Execute(context.Background(), ListAppointmentsInput{
		TenantID: f.tenant.ID, PatientID: &f.patient2.ID,
	})
	if err != nil {
		t.Fatalf("list patient: %v", err)
	}
	if len(history) != 1 || history[0].PatientID != f.patient2.ID {
		t.Fatalf("patient: got %d", len(history))
	}

	other, err := uc.Execute(context.Background(), ListAppointmentsInput{TenantID: uuid.New()})
	if err != nil {
		t.Fatalf("list other tenant: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("tenant isolation broken: got %d rows", len(other))
	}
}
