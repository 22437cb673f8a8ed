package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/model"
)

// ReportRepository reads operational reports submitted through the reporting workflow.
// Reports written before shifts were split carry no shift and are read as the daily slot.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportSelect = `
	SELECT
		fr.id,
		fr.vehicle_number,
		fr.rent_date,
		COALESCE(NULLIF(fr.shift, ''), 'day') AS shift,
		fr.status,
		fr.user_id,
		fr.driver_name,
		fr.total_trips,
		fr.total_earnings,
		fr.submission_date
	FROM fleet_reports fr
`

func (r *ReportRepository) FindApprovedReport(ctx context.Context, key model.SlotKey) (*model.OperationalReport, error) {
	var rows []model.OperationalReport
	if err := r.db.WithContext(ctx).Raw(reportSelect+`
		WHERE fr.vehicle_number = ?
			AND fr.rent_date = ?
			AND COALESCE(NULLIF(fr.shift, ''), 'day') = ?
			AND fr.status = ?
		ORDER BY fr.submission_date DESC NULLS LAST
		LIMIT 1
	`, key.VehicleCode, key.Date, key.Shift, model.ApprovalApproved).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// ListApprovedReports returns approved reports dated within [from, to] for the given vehicles.
func (r *ReportRepository) ListApprovedReports(
	ctx context.Context,
	codes []string,
	from, to time.Time,
) ([]model.OperationalReport, error) {
	if len(codes) == 0 {
		return []model.OperationalReport{}, nil
	}

	var rows []model.OperationalReport
	if err := r.db.WithContext(ctx).Raw(reportSelect+`
		WHERE fr.vehicle_number IN ?
			AND fr.rent_date >= ?
			AND fr.rent_date <= ?
			AND fr.status = ?
		ORDER BY fr.rent_date ASC, fr.vehicle_number ASC
	`, codes, from, to, model.ApprovalApproved).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
