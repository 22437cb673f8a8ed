package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/model"
)

type OverrideRepository struct {
	db *gorm.DB
}

func NewOverrideRepository(db *gorm.DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

func (r *OverrideRepository) FindOverride(ctx context.Context, key model.SlotKey) (*model.AttendanceOverride, error) {
	var override model.AttendanceOverride
	err := r.db.WithContext(ctx).
		Where("vehicle_code = ? AND shift_date = ? AND shift = ?", key.VehicleCode, key.Date, key.Shift).
		First(&override).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

// ListOverrides returns the overrides dated within [from, to] for the given vehicles.
func (r *OverrideRepository) ListOverrides(
	ctx context.Context,
	codes []string,
	from, to time.Time,
) ([]model.AttendanceOverride, error) {
	if len(codes) == 0 {
		return []model.AttendanceOverride{}, nil
	}

	var overrides []model.AttendanceOverride
	err := r.db.WithContext(ctx).
		Where("vehicle_code IN ? AND shift_date >= ? AND shift_date <= ?", codes, from, to).
		Order("shift_date ASC, vehicle_code ASC").
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

// UpsertOverride writes the override for its (vehicle, date, shift) key. The unique index on
// that key makes concurrent writers serialize in the database; the last one applied wins and
// its full payload replaces the previous one. A history row is appended in the same transaction.
func (r *OverrideRepository) UpsertOverride(ctx context.Context, override model.AttendanceOverride) (*model.AttendanceOverride, error) {
	var saved model.AttendanceOverride
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO vehicle_attendance_overrides (
				vehicle_code,
				shift_date,
				shift,
				status,
				notes,
				author_id,
				updated_at
			) VALUES (?, ?, ?, ?::operating_status, ?, ?, ?)
			ON CONFLICT (vehicle_code, shift_date, shift) DO UPDATE SET
				status = EXCLUDED.status,
				notes = EXCLUDED.notes,
				author_id = EXCLUDED.author_id,
				updated_at = EXCLUDED.updated_at
			RETURNING
				id,
				vehicle_code,
				shift_date,
				shift,
				status,
				notes,
				author_id,
				created_at,
				updated_at
		`,
			override.VehicleCode,
			override.ShiftDate,
			override.Shift,
			override.Status,
			override.Notes,
			override.AuthorID,
			override.UpdatedAt,
		).Scan(&saved).Error
		if err != nil {
			return err
		}

		revision := model.OverrideRevision{
			ID:          uuid.New(),
			OverrideID:  saved.ID,
			VehicleCode: saved.VehicleCode,
			ShiftDate:   saved.ShiftDate,
			Shift:       saved.Shift,
			Status:      saved.Status,
			Notes:       saved.Notes,
			AuthorID:    saved.AuthorID,
			RecordedAt:  saved.UpdatedAt,
		}
		return tx.Exec(`
			INSERT INTO vehicle_attendance_override_history (
				id,
				override_id,
				vehicle_code,
				shift_date,
				shift,
				status,
				notes,
				author_id,
				recorded_at
			) VALUES (?, ?, ?, ?, ?, ?::operating_status, ?, ?, ?)
		`,
			revision.ID,
			revision.OverrideID,
			revision.VehicleCode,
			revision.ShiftDate,
			revision.Shift,
			revision.Status,
			revision.Notes,
			revision.AuthorID,
			revision.RecordedAt,
		).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListHistory returns every write for key, newest first.
func (r *OverrideRepository) ListHistory(ctx context.Context, key model.SlotKey) ([]model.OverrideRevision, error) {
	var revisions []model.OverrideRevision
	err := r.db.WithContext(ctx).
		Where("vehicle_code = ? AND shift_date = ? AND shift = ?", key.VehicleCode, key.Date, key.Shift).
		Order("recorded_at DESC").
		Find(&revisions).Error
	if err != nil {
		return nil, err
	}
	return revisions, nil
}
