package model

import "time"

// Vehicle is the lifecycle view of a fleet vehicle. Both attributes are owned by the
// fleet-management workflow; FirstOperationalDate is nil until a report has been approved.
type Vehicle struct {
	VehicleCode          string     `json:"vehicle_code"`
	ActiveInRoster       bool       `json:"active_in_roster"`
	FirstOperationalDate *time.Time `json:"first_operational_date,omitempty"`
}
