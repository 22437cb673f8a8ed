package model

import (
	"time"

	"github.com/google/uuid"
)

type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

// OperationalReport is a shift report submitted by the external reporting workflow.
// Only approved reports count as evidence that a shift was worked.
type OperationalReport struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	VehicleCode   string        `gorm:"column:vehicle_number" json:"vehicle_code"`
	ShiftDate     time.Time     `gorm:"column:rent_date;type:date" json:"shift_date"`
	Shift         Shift         `gorm:"column:shift" json:"shift"`
	ApprovalState ApprovalState `gorm:"column:status" json:"approval_state"`
	DriverID      *uuid.UUID    `gorm:"column:user_id;type:uuid" json:"driver_id,omitempty"`
	DriverName    *string       `gorm:"column:driver_name" json:"driver_name,omitempty"`
	TotalTrips    *int          `gorm:"column:total_trips" json:"total_trips,omitempty"`
	TotalEarnings *float64      `gorm:"column:total_earnings" json:"total_earnings,omitempty"`
	SubmittedAt   *time.Time    `gorm:"column:submission_date" json:"submitted_at,omitempty"`
}

func (OperationalReport) TableName() string {
	return "fleet_reports"
}

func (r OperationalReport) Key() SlotKey {
	return SlotKey{VehicleCode: r.VehicleCode, Date: r.ShiftDate, Shift: r.Shift}
}

func (r OperationalReport) Approved() bool {
	return r.ApprovalState == ApprovalApproved
}
