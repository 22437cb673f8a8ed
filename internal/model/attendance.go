package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OperatingStatus string

const (
	StatusRunning   OperatingStatus = "running"
	StatusStopped   OperatingStatus = "stopped"
	StatusBreakdown OperatingStatus = "breakdown"
	StatusLeave     OperatingStatus = "leave"
	StatusOffline   OperatingStatus = "offline"
	StatusSwapped   OperatingStatus = "swapped"
	StatusNotActive OperatingStatus = "not_active"
)

// AllStatuses is the closed set in display order.
var AllStatuses = []OperatingStatus{
	StatusRunning,
	StatusStopped,
	StatusBreakdown,
	StatusLeave,
	StatusOffline,
	StatusSwapped,
	StatusNotActive,
}

// ManualStatuses are the only values an operator may assign.
var ManualStatuses = []OperatingStatus{
	StatusRunning,
	StatusStopped,
	StatusBreakdown,
	StatusLeave,
}

func (s OperatingStatus) Valid() bool {
	for _, candidate := range AllStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

type Shift string

const (
	ShiftDay     Shift = "day"
	ShiftMorning Shift = "morning"
	ShiftNight   Shift = "night"
)

type ShiftMode string

const (
	ShiftModeDaily ShiftMode = "daily"
	ShiftModeSplit ShiftMode = "split"
)

// Shifts returns the shift identifiers tracked in the mode, in day order.
func (m ShiftMode) Shifts() []Shift {
	switch m {
	case ShiftModeDaily:
		return []Shift{ShiftDay}
	case ShiftModeSplit:
		return []Shift{ShiftMorning, ShiftNight}
	default:
		return nil
	}
}

func (m ShiftMode) Accepts(shift Shift) bool {
	for _, s := range m.Shifts() {
		if s == shift {
			return true
		}
	}
	return false
}

// SlotKey identifies one (vehicle, date, shift) cell. Date is a calendar date at 00:00 UTC.
type SlotKey struct {
	VehicleCode string
	Date        time.Time
	Shift       Shift
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s|%s|%s", k.VehicleCode, k.Date.Format("2006-01-02"), k.Shift)
}

type AttendanceOverride struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	VehicleCode string          `gorm:"column:vehicle_code;type:varchar(64);not null" json:"vehicle_code"`
	ShiftDate   time.Time       `gorm:"column:shift_date;type:date;not null" json:"shift_date"`
	Shift       Shift           `gorm:"column:shift;type:varchar(16);not null" json:"shift"`
	Status      OperatingStatus `gorm:"column:status;type:operating_status;not null" json:"status"`
	Notes       string          `gorm:"column:notes;type:text" json:"notes"`
	AuthorID    uuid.UUID       `gorm:"column:author_id;type:uuid;not null" json:"author_id"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (AttendanceOverride) TableName() string {
	return "vehicle_attendance_overrides"
}

func (o AttendanceOverride) Key() SlotKey {
	return SlotKey{VehicleCode: o.VehicleCode, Date: o.ShiftDate, Shift: o.Shift}
}

// OverrideRevision is an append-only copy of an override as it was written.
type OverrideRevision struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	OverrideID  uuid.UUID       `gorm:"column:override_id;type:uuid;not null" json:"override_id"`
	VehicleCode string          `gorm:"column:vehicle_code;type:varchar(64);not null" json:"vehicle_code"`
	ShiftDate   time.Time       `gorm:"column:shift_date;type:date;not null" json:"shift_date"`
	Shift       Shift           `gorm:"column:shift;type:varchar(16);not null" json:"shift"`
	Status      OperatingStatus `gorm:"column:status;type:operating_status;not null" json:"status"`
	Notes       string          `gorm:"column:notes;type:text" json:"notes"`
	AuthorID    uuid.UUID       `gorm:"column:author_id;type:uuid;not null" json:"author_id"`
	RecordedAt  time.Time       `gorm:"column:recorded_at;not null" json:"recorded_at"`
}

func (OverrideRevision) TableName() string {
	return "vehicle_attendance_override_history"
}

type CellSource string

const (
	CellSourceOverride CellSource = "override"
	CellSourceReport   CellSource = "report"
	CellSourceDerived  CellSource = "derived"
)

// AttendanceCell is one derived grid entry with the annotations a calendar needs.
type AttendanceCell struct {
	VehicleCode   string          `json:"vehicle_code"`
	Date          time.Time       `json:"date"`
	Shift         Shift           `json:"shift"`
	Status        OperatingStatus `json:"status"`
	Source        CellSource      `json:"source"`
	Rule          string          `json:"rule"`
	Notes         string          `json:"notes,omitempty"`
	AuthorID      *uuid.UUID      `json:"author_id,omitempty"`
	DriverName    string          `json:"driver_name,omitempty"`
	TotalTrips    *int            `json:"total_trips,omitempty"`
	TotalEarnings *float64        `json:"total_earnings,omitempty"`
}

func (c AttendanceCell) Key() SlotKey {
	return SlotKey{VehicleCode: c.VehicleCode, Date: c.Date, Shift: c.Shift}
}

type StatusTotals map[OperatingStatus]int

// NewStatusTotals returns totals with every status present at zero.
func NewStatusTotals() StatusTotals {
	totals := make(StatusTotals, len(AllStatuses))
	for _, status := range AllStatuses {
		totals[status] = 0
	}
	return totals
}

func (t StatusTotals) Sum() int {
	total := 0
	for _, count := range t {
		total += count
	}
	return total
}

type WeeklyGrid struct {
	WeekOffset    int                     `json:"week_offset"`
	WeekLabel     string                  `json:"week_label"`
	Dates         []time.Time             `json:"dates"`
	Shifts        []Shift                 `json:"shifts"`
	Vehicles      []string                `json:"vehicles"`
	Cells         []AttendanceCell        `json:"cells"`
	Totals        StatusTotals            `json:"totals"`
	VehicleTotals map[string]StatusTotals `json:"vehicle_totals"`
	index         map[string]int
}

// Add appends a cell and counts it in both the global and per-vehicle totals.
func (g *WeeklyGrid) Add(cell AttendanceCell) {
	if g.index == nil {
		g.index = make(map[string]int)
	}
	if g.Totals == nil {
		g.Totals = NewStatusTotals()
	}
	if g.VehicleTotals == nil {
		g.VehicleTotals = make(map[string]StatusTotals)
	}
	g.Cells = append(g.Cells, cell)
	g.index[cell.Key().String()] = len(g.Cells) - 1
	g.Totals[cell.Status]++

	perVehicle, ok := g.VehicleTotals[cell.VehicleCode]
	if !ok {
		perVehicle = NewStatusTotals()
		g.VehicleTotals[cell.VehicleCode] = perVehicle
	}
	perVehicle[cell.Status]++
}

func (g *WeeklyGrid) Cell(key SlotKey) (AttendanceCell, bool) {
	pos, ok := g.index[key.String()]
	if !ok {
		return AttendanceCell{}, false
	}
	return g.Cells[pos], true
}
