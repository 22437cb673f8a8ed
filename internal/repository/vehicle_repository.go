package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/model"
)

// VehicleRepository reads the lifecycle attributes of fleet vehicles. The first operational
// date is the earliest approved report for the vehicle.
type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

type vehicleRow struct {
	VehicleCode          string
	ActiveInRoster       bool
	FirstOperationalDate *time.Time
}

func (r vehicleRow) toModel() model.Vehicle {
	return model.Vehicle{
		VehicleCode:          r.VehicleCode,
		ActiveInRoster:       r.ActiveInRoster,
		FirstOperationalDate: r.FirstOperationalDate,
	}
}

const vehicleSelect = `
	SELECT
		v.vehicle_number AS vehicle_code,
		COALESCE(v.online, FALSE) AS active_in_roster,
		fr.first_operational_date
	FROM vehicles v
	LEFT JOIN (
		SELECT vehicle_number, MIN(rent_date) AS first_operational_date
		FROM fleet_reports
		WHERE status = 'approved'
		GROUP BY vehicle_number
	) fr ON fr.vehicle_number = v.vehicle_number
`

func (r *VehicleRepository) GetVehicle(ctx context.Context, code string) (*model.Vehicle, error) {
	var row vehicleRow
	if err := r.db.WithContext(ctx).Raw(vehicleSelect+`
		WHERE v.vehicle_number = ?
		LIMIT 1
	`, code).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.VehicleCode == "" {
		return nil, gorm.ErrRecordNotFound
	}
	vehicle := row.toModel()
	return &vehicle, nil
}

// ListVehicles returns the vehicles with the given codes, or every known vehicle
// (retired ones included) when codes is nil.
func (r *VehicleRepository) ListVehicles(ctx context.Context, codes []string) ([]model.Vehicle, error) {
	query := vehicleSelect
	var args []interface{}
	if codes != nil {
		if len(codes) == 0 {
			return []model.Vehicle{}, nil
		}
		query += " WHERE v.vehicle_number IN ?"
		args = append(args, codes)
	}
	query += " ORDER BY v.vehicle_number ASC"

	var rows []vehicleRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	vehicles := make([]model.Vehicle, 0, len(rows))
	for _, row := range rows {
		vehicles = append(vehicles, row.toModel())
	}
	return vehicles, nil
}
