package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/attendance"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/calendar"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/config"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/model"
)

const maxVehicleCodeLength = 64

type VehicleStore interface {
	GetVehicle(ctx context.Context, code string) (*model.Vehicle, error)
	// ListVehicles returns every vehicle when codes is nil.
	ListVehicles(ctx context.Context, codes []string) ([]model.Vehicle, error)
}

type ReportStore interface {
	FindApprovedReport(ctx context.Context, key model.SlotKey) (*model.OperationalReport, error)
	ListApprovedReports(ctx context.Context, codes []string, from, to time.Time) ([]model.OperationalReport, error)
}

type OverrideStore interface {
	FindOverride(ctx context.Context, key model.SlotKey) (*model.AttendanceOverride, error)
	ListOverrides(ctx context.Context, codes []string, from, to time.Time) ([]model.AttendanceOverride, error)
	UpsertOverride(ctx context.Context, override model.AttendanceOverride) (*model.AttendanceOverride, error)
	ListHistory(ctx context.Context, key model.SlotKey) ([]model.OverrideRevision, error)
}

// AttendanceService answers status queries and records manual overrides. It keeps no state
// between calls: every read derives from what the stores return at that moment.
type AttendanceService struct {
	vehicles      VehicleStore
	reports       ReportStore
	overrides     OverrideStore
	shiftMode     model.ShiftMode
	location      *time.Location
	editorRoles   []string
	maxWeekOffset int
	validate      *validator.Validate
	clock         func() time.Time
}

func NewAttendanceService(vehicles VehicleStore, reports ReportStore, overrides OverrideStore, cfg *config.Config) *AttendanceService {
	loc := cfg.Attendance.Location
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceService{
		vehicles:      vehicles,
		reports:       reports,
		overrides:     overrides,
		shiftMode:     cfg.Attendance.ShiftMode,
		location:      loc,
		editorRoles:   cfg.Attendance.EditorRoles,
		maxWeekOffset: cfg.Attendance.MaxWeekOffset,
		validate:      validator.New(),
		clock:         time.Now,
	}
}

func (s *AttendanceService) ShiftMode() model.ShiftMode {
	return s.shiftMode
}

func (s *AttendanceService) Location() *time.Location {
	return s.location
}

type StatusQuery struct {
	VehicleCode string
	Date        time.Time
	Shift       model.Shift
	Now         time.Time
}

// GetStatus returns the single authoritative status for one (vehicle, date, shift).
func (s *AttendanceService) GetStatus(ctx context.Context, query StatusQuery) (model.OperatingStatus, error) {
	cell, err := s.GetCell(ctx, query)
	if err != nil {
		return "", err
	}
	return cell.Status, nil
}

// GetCell is GetStatus with the annotations explaining the result.
func (s *AttendanceService) GetCell(ctx context.Context, query StatusQuery) (*model.AttendanceCell, error) {
	key, err := s.slotKey(query.VehicleCode, query.Date, query.Shift)
	if err != nil {
		return nil, err
	}
	if query.Now.IsZero() {
		query.Now = s.clock()
	}

	vehicle, err := s.vehicles.GetVehicle(ctx, key.VehicleCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vehicle %s", ErrNotFound, key.VehicleCode)
		}
		return nil, newStoreError("get vehicle", err)
	}

	override, err := s.overrides.FindOverride(ctx, key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newStoreError("find override", err)
		}
		override = nil
	}

	report, err := s.reports.FindApprovedReport(ctx, key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newStoreError("find approved report", err)
		}
		report = nil
	}

	cell := attendance.Evaluate(key, attendance.Facts{
		Date:     key.Date,
		Today:    calendar.Today(query.Now, s.location),
		Vehicle:  *vehicle,
		Override: override,
		Report:   report,
	})
	return &cell, nil
}

type SetOverrideInput struct {
	VehicleCode string                `validate:"required,max=64"`
	Shift       model.Shift           `validate:"required"`
	Status      model.OperatingStatus `validate:"required,oneof=running stopped breakdown leave"`
	Notes       string                `validate:"max=2000"`
	Date        time.Time
	Principal   model.Principal
}

// SetOverride records a manual status for one key. Writing the same key again replaces the
// previous status, notes, author and timestamp; it never creates a second record. A failed
// write changes nothing, and because the write is keyed it can be retried safely.
func (s *AttendanceService) SetOverride(ctx context.Context, input SetOverrideInput) (*model.AttendanceOverride, error) {
	if !input.Principal.HasRole(s.editorRoles...) {
		return nil, ErrPermissionDenied
	}
	if input.Principal.UserID == uuid.Nil {
		return nil, invalid("author_id", "is required")
	}

	input.VehicleCode = strings.TrimSpace(input.VehicleCode)
	input.Notes = strings.TrimSpace(input.Notes)
	if err := s.validate.Struct(input); err != nil {
		return nil, translateValidation(err)
	}

	key, err := s.slotKey(input.VehicleCode, input.Date, input.Shift)
	if err != nil {
		return nil, err
	}

	if _, err := s.vehicles.GetVehicle(ctx, key.VehicleCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("vehicle_code", "is not a known vehicle")
		}
		return nil, newStoreError("get vehicle", err)
	}

	saved, err := s.overrides.UpsertOverride(ctx, model.AttendanceOverride{
		VehicleCode: key.VehicleCode,
		ShiftDate:   key.Date,
		Shift:       key.Shift,
		Status:      input.Status,
		Notes:       input.Notes,
		AuthorID:    input.Principal.UserID,
		UpdatedAt:   s.clock().UTC(),
	})
	if err != nil {
		return nil, newStoreError("upsert override", err)
	}
	return saved, nil
}

// OverrideHistory lists every write made to the key, newest first.
func (s *AttendanceService) OverrideHistory(ctx context.Context, vehicleCode string, date time.Time, shift model.Shift) ([]model.OverrideRevision, error) {
	key, err := s.slotKey(vehicleCode, date, shift)
	if err != nil {
		return nil, err
	}
	revisions, err := s.overrides.ListHistory(ctx, key)
	if err != nil {
		return nil, newStoreError("list override history", err)
	}
	return revisions, nil
}

type WeeklyGridInput struct {
	// VehicleCodes selects vehicles explicitly; it is ignored when AllVehicles is set.
	VehicleCodes []string
	AllVehicles  bool
	WeekOffset   int
	Now          time.Time
}

// GetWeeklyGrid derives every (vehicle, date, shift) cell of the requested week and counts
// them per status. An empty vehicle selection yields an empty grid with zero totals.
func (s *AttendanceService) GetWeeklyGrid(ctx context.Context, input WeeklyGridInput) (*model.WeeklyGrid, error) {
	if input.WeekOffset > s.maxWeekOffset || input.WeekOffset < -s.maxWeekOffset {
		return nil, invalid("week_offset", fmt.Sprintf("must be within ±%d", s.maxWeekOffset))
	}
	if input.Now.IsZero() {
		input.Now = s.clock()
	}

	dates := calendar.Window(input.Now, input.WeekOffset, s.location)
	shifts := s.shiftMode.Shifts()
	grid := &model.WeeklyGrid{
		WeekOffset:    input.WeekOffset,
		WeekLabel:     calendar.WeekLabel(dates[0]),
		Dates:         dates,
		Shifts:        shifts,
		Vehicles:      []string{},
		Cells:         []model.AttendanceCell{},
		Totals:        model.NewStatusTotals(),
		VehicleTotals: map[string]model.StatusTotals{},
	}

	var codes []string
	if !input.AllVehicles {
		var err error
		codes, err = normalizeCodes(input.VehicleCodes)
		if err != nil {
			return nil, err
		}
		if len(codes) == 0 {
			return grid, nil
		}
	}

	vehicles, err := s.vehicles.ListVehicles(ctx, codes)
	if err != nil {
		return nil, newStoreError("list vehicles", err)
	}
	if !input.AllVehicles && len(vehicles) != len(codes) {
		return nil, invalid("vehicles", "contains unknown vehicle codes: "+strings.Join(missingCodes(codes, vehicles), ","))
	}
	if len(vehicles) == 0 {
		return grid, nil
	}

	selected := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		selected = append(selected, v.VehicleCode)
	}

	from, to := dates[0], dates[len(dates)-1]
	overrides, err := s.overrides.ListOverrides(ctx, selected, from, to)
	if err != nil {
		return nil, newStoreError("list overrides", err)
	}
	reports, err := s.reports.ListApprovedReports(ctx, selected, from, to)
	if err != nil {
		return nil, newStoreError("list approved reports", err)
	}

	snapshot := attendance.NewSnapshot(vehicles, overrides, reports)
	today := calendar.Today(input.Now, s.location)
	grid.Vehicles = selected
	for _, code := range selected {
		grid.VehicleTotals[code] = model.NewStatusTotals()
		for _, date := range dates {
			for _, shift := range shifts {
				key := model.SlotKey{VehicleCode: code, Date: date, Shift: shift}
				grid.Add(attendance.Evaluate(key, snapshot.Facts(key, today)))
			}
		}
	}
	return grid, nil
}

func (s *AttendanceService) slotKey(vehicleCode string, date time.Time, shift model.Shift) (model.SlotKey, error) {
	vehicleCode = strings.TrimSpace(vehicleCode)
	if vehicleCode == "" {
		return model.SlotKey{}, invalid("vehicle_code", "is required")
	}
	if len(vehicleCode) > maxVehicleCodeLength {
		return model.SlotKey{}, invalid("vehicle_code", "is too long")
	}
	if date.IsZero() {
		return model.SlotKey{}, invalid("date", "is required")
	}
	if !s.shiftMode.Accepts(shift) {
		return model.SlotKey{}, invalid("shift", fmt.Sprintf("%q is not tracked in %s mode", shift, s.shiftMode))
	}
	return model.SlotKey{
		VehicleCode: vehicleCode,
		Date:        calendar.DateOnly(date),
		Shift:       shift,
	}, nil
}

func normalizeCodes(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	codes := make([]string, 0, len(raw))
	for _, code := range raw {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if len(code) > maxVehicleCodeLength {
			return nil, invalid("vehicles", "contains a vehicle code that is too long")
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}

func missingCodes(codes []string, vehicles []model.Vehicle) []string {
	found := make(map[string]struct{}, len(vehicles))
	for _, v := range vehicles {
		found[v.VehicleCode] = struct{}{}
	}
	var missing []string
	for _, code := range codes {
		if _, ok := found[code]; !ok {
			missing = append(missing, code)
		}
	}
	return missing
}

func translateValidation(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return invalid("input", err.Error())
	}
	fe := validationErrs[0]
	field := map[string]string{
		"VehicleCode": "vehicle_code",
		"Date":        "date",
		"Shift":       "shift",
		"Status":      "status",
		"Notes":       "notes",
	}[fe.Field()]
	if field == "" {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return invalid(field, "is required")
	case "oneof":
		return invalid(field, "must be one of: "+fe.Param())
	case "max":
		return invalid(field, "exceeds "+fe.Param()+" characters")
	default:
		return invalid(field, "is invalid")
	}
}
