package attendance

import (
	"time"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/calendar"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/model"
)

// Snapshot holds rows read for a batch of cells so each cell can be derived without
// further store access. It is built per call and never reused.
type Snapshot struct {
	vehicles  map[string]model.Vehicle
	overrides map[string]*model.AttendanceOverride
	reports   map[string]*model.OperationalReport
}

func NewSnapshot(vehicles []model.Vehicle, overrides []model.AttendanceOverride, reports []model.OperationalReport) *Snapshot {
	s := &Snapshot{
		vehicles:  make(map[string]model.Vehicle, len(vehicles)),
		overrides: make(map[string]*model.AttendanceOverride, len(overrides)),
		reports:   make(map[string]*model.OperationalReport, len(reports)),
	}
	for _, v := range vehicles {
		s.vehicles[v.VehicleCode] = v
	}
	for i := range overrides {
		o := &overrides[i]
		key := normalizeKey(o.Key()).String()
		// Keep the most recently updated row if the store ever returns more than one.
		if existing, ok := s.overrides[key]; ok && existing.UpdatedAt.After(o.UpdatedAt) {
			continue
		}
		s.overrides[key] = o
	}
	for i := range reports {
		r := &reports[i]
		if !r.Approved() {
			continue
		}
		key := normalizeKey(r.Key()).String()
		if _, ok := s.reports[key]; !ok {
			s.reports[key] = r
		}
	}
	return s
}

func (s *Snapshot) Vehicle(code string) (model.Vehicle, bool) {
	v, ok := s.vehicles[code]
	return v, ok
}

// Facts assembles the derivation input for key. The vehicle must be present in the snapshot.
func (s *Snapshot) Facts(key model.SlotKey, today time.Time) Facts {
	key = normalizeKey(key)
	return Facts{
		Date:     key.Date,
		Today:    today,
		Vehicle:  s.vehicles[key.VehicleCode],
		Override: s.overrides[key.String()],
		Report:   s.reports[key.String()],
	}
}

func normalizeKey(key model.SlotKey) model.SlotKey {
	key.Date = calendar.DateOnly(key.Date)
	return key
}
