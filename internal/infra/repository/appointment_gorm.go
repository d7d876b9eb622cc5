package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentaldesk/clinic-scheduler/internal/clock"
	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/appointment"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

var ErrMissingConflictIdentity = errors.New("conflict query requires a practitioner or patient id")

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// activeForScheduling narrows a query to the rows that block other bookings.
// Mirrors domain.ActiveForScheduling; keep the two in sync.
func activeForScheduling(tx *gorm.DB) *gorm.DB {
	return tx.Where("deleted_at IS NULL AND status <> ?", string(domain.StatusCancelled))
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) Create(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) GetByID(
	ctx context.Context,
	tenantID uuid.UUID,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Practitioner").
		Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", id, tenantID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) Update(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit("Patient", "Practitioner").Save(ap).Error
}

func (r *AppointmentGormRepository) ListByTenant(
	ctx context.Context,
	tenantID uuid.UUID,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Practitioner").
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID).
		Order("date ASC, start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *AppointmentGormRepository) ListByPractitioner(
	ctx context.Context,
	tenantID uuid.UUID,
	practitionerID uuid.UUID,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Practitioner").
		Where("tenant_id = ? AND practitioner_id = ? AND deleted_at IS NULL", tenantID, practitionerID).
		Order("date ASC, start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *AppointmentGormRepository) ListByDateRange(
	ctx context.Context,
	tenantID uuid.UUID,
	from string,
	to string,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Practitioner").
		Where("tenant_id = ? AND deleted_at IS NULL AND date >= ? AND date <= ?", tenantID, from, to).
		Order("date ASC, start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *AppointmentGormRepository) ListByPatient(
	ctx context.Context,
	tenantID uuid.UUID,
	patientID uuid.UUID,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Practitioner").
		Where("tenant_id = ? AND patient_id = ? AND deleted_at IS NULL", tenantID, patientID).
		Order("date DESC, start_time DESC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// --------------------------------------------------
// Conflict / availability
// --------------------------------------------------

func (r *AppointmentGormRepository) HasConflict(
	ctx context.Context,
	q domain.ConflictQuery,
) (bool, error) {

	if q.PractitionerID == nil && q.PatientID == nil {
		return false, ErrMissingConflictIdentity
	}

	tx := activeForScheduling(r.db.WithContext(ctx).Model(&models.Appointment{})).
		Where(
			"tenant_id = ? AND date = ? AND start_time < ? AND end_time > ?",
			q.TenantID, q.Date, q.End, q.Start,
		)

	if q.PractitionerID != nil {
		tx = tx.Where("practitioner_id = ?", *q.PractitionerID)
	}
	if q.PatientID != nil {
		tx = tx.Where("patient_id = ?", *q.PatientID)
	}
	if q.ExcludeID != nil {
		tx = tx.Where("id <> ?", *q.ExcludeID)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AppointmentGormRepository) ListBookedByDate(
	ctx context.Context,
	tenantID uuid.UUID,
	date string,
	practitionerID *uuid.UUID,
) ([]models.Appointment, error) {

	tx := activeForScheduling(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND date = ?", tenantID, date)

	if practitionerID != nil {
		tx = tx.Where("practitioner_id = ?", *practitionerID)
	}

	var aps []models.Appointment
	if err := tx.Order("start_time ASC").Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// --------------------------------------------------
// No-show sweep
// --------------------------------------------------

func (r *AppointmentGormRepository) FindNoShowCandidates(
	ctx context.Context,
	threshold time.Time,
) ([]models.Appointment, error) {

	date := clock.DateOf(threshold)
	hm := clock.HMOf(threshold)

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND deleted_at IS NULL", []string{
			string(domain.StatusScheduled),
			string(domain.StatusConfirmed),
		}).
		Where("date < ? OR (date = ? AND start_time < ?)", date, date, hm).
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// --------------------------------------------------
// Collaborators
// --------------------------------------------------

func (r *AppointmentGormRepository) GetPatient(
	ctx context.Context,
	tenantID uuid.UUID,
	id uuid.UUID,
) (*models.Patient, error) {

	var p models.Patient
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", id, tenantID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *AppointmentGormRepository) GetPractitioner(
	ctx context.Context,
	tenantID uuid.UUID,
	id uuid.UUID,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
