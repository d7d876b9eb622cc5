package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/schedule"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) ListByPractitioner(
	ctx context.Context,
	tenantID uuid.UUID,
	practitionerID *uuid.UUID,
) ([]models.ScheduleConfig, error) {

	tx := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true)

	if practitionerID != nil {
		tx = tx.Where("practitioner_id = ?", *practitionerID)
	} else {
		tx = tx.Where("practitioner_id IS NULL")
	}

	var configs []models.ScheduleConfig
	if err := tx.Order("day_of_week ASC").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *ScheduleGormRepository) ListActiveWorking(
	ctx context.Context,
	tenantID uuid.UUID,
) ([]models.ScheduleConfig, error) {

	var configs []models.ScheduleConfig
	if err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = schedule_configs.practitioner_id").
		Where("schedule_configs.tenant_id = ?", tenantID).
		Where("schedule_configs.active = ? AND schedule_configs.is_working_day = ?", true, true).
		Where("users.role = ? AND users.active = ?", models.RoleDentist, true).
		Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// UpsertByDay performs the transactional replace-by-day: rows for the days
// present in configs are updated or inserted, rows for other days are left
// alone. gorm rolls the transaction back when the callback errors.
func (r *ScheduleGormRepository) UpsertByDay(
	ctx context.Context,
	tenantID uuid.UUID,
	practitionerID *uuid.UUID,
	configs []models.ScheduleConfig,
) error {

	if len(configs) == 0 {
		return nil
	}

	days := make([]int, 0, len(configs))
	for _, cfg := range configs {
		days = append(days, cfg.DayOfWeek)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existingTx := tx.Where("tenant_id = ? AND day_of_week IN ?", tenantID, days)
		if practitionerID != nil {
			existingTx = existingTx.Where("practitioner_id = ?", *practitionerID)
		} else {
			existingTx = existingTx.Where("practitioner_id IS NULL")
		}

		var existing []models.ScheduleConfig
		if err := existingTx.Find(&existing).Error; err != nil {
			return err
		}

		byDay := make(map[int]*models.ScheduleConfig, len(existing))
		for i := range existing {
			byDay[existing[i].DayOfWeek] = &existing[i]
		}

		now := time.Now()
		for _, cfg := range configs {
			if row, ok := byDay[cfg.DayOfWeek]; ok {
				row.IsWorkingDay = cfg.IsWorkingDay
				row.MorningStart = cfg.MorningStart
				row.MorningEnd = cfg.MorningEnd
				row.AfternoonStart = cfg.AfternoonStart
				row.AfternoonEnd = cfg.AfternoonEnd
				row.SlotDurationMinutes = cfg.SlotDurationMinutes
				row.Active = true
				row.UpdatedAt = now
				if err := tx.Save(row).Error; err != nil {
					return err
				}
				continue
			}

			row := models.ScheduleConfig{
				TenantID:            tenantID,
				PractitionerID:      practitionerID,
				DayOfWeek:           cfg.DayOfWeek,
				IsWorkingDay:        cfg.IsWorkingDay,
				MorningStart:        cfg.MorningStart,
				MorningEnd:          cfg.MorningEnd,
				AfternoonStart:      cfg.AfternoonStart,
				AfternoonEnd:        cfg.AfternoonEnd,
				SlotDurationMinutes: cfg.SlotDurationMinutes,
				Active:              true,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
