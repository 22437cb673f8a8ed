package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/model"
)

// ── Mock VehicleStore ──

type mockVehicleStore struct {
	vehicles map[string]model.Vehicle
	err      error
}

func newMockVehicleStore(vehicles ...model.Vehicle) *mockVehicleStore {
	m := &mockVehicleStore{vehicles: make(map[string]model.Vehicle)}
	for _, v := range vehicles {
		m.vehicles[v.VehicleCode] = v
	}
	return m
}

func (m *mockVehicleStore) GetVehicle(_ context.Context, code string) (*model.Vehicle, error) {
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.vehicles[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (m *mockVehicleStore) ListVehicles(_ context.Context, codes []string) ([]model.Vehicle, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Vehicle
	if codes == nil {
		for _, v := range m.vehicles {
			result = append(result, v)
		}
	} else {
		for _, code := range codes {
			if v, ok := m.vehicles[code]; ok {
				result = append(result, v)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].VehicleCode < result[j].VehicleCode })
	return result, nil
}

// ── Mock ReportStore ──

type mockReportStore struct {
	reports []model.OperationalReport
	err     error
}

func (m *mockReportStore) FindApprovedReport(_ context.Context, key model.SlotKey) (*model.OperationalReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.reports {
		r := m.reports[i]
		if r.Approved() && r.Key().String() == key.String() {
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReportStore) ListApprovedReports(_ context.Context, codes []string, from, to time.Time) ([]model.OperationalReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.OperationalReport
	for _, r := range m.reports {
		if r.Approved() && contains(codes, r.VehicleCode) && !r.ShiftDate.Before(from) && !r.ShiftDate.After(to) {
			result = append(result, r)
		}
	}
	return result, nil
}

// ── Mock OverrideStore ──

// mockOverrideStore mimics the unique (vehicle, date, shift) index: writes are serialized and
// a second write for a key replaces the first.
type mockOverrideStore struct {
	mu        sync.Mutex
	overrides map[string]*model.AttendanceOverride
	history   []model.OverrideRevision
	writes    int
	err       error
}

func newMockOverrideStore() *mockOverrideStore {
	return &mockOverrideStore{overrides: make(map[string]*model.AttendanceOverride)}
}

func (m *mockOverrideStore) FindOverride(_ context.Context, key model.SlotKey) (*model.AttendanceOverride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.overrides[key.String()]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *mockOverrideStore) ListOverrides(_ context.Context, codes []string, from, to time.Time) ([]model.AttendanceOverride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []model.AttendanceOverride
	for _, o := range m.overrides {
		if contains(codes, o.VehicleCode) && !o.ShiftDate.Before(from) && !o.ShiftDate.After(to) {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (m *mockOverrideStore) UpsertOverride(_ context.Context, override model.AttendanceOverride) (*model.AttendanceOverride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.writes++
	key := override.Key().String()
	if existing, ok := m.overrides[key]; ok {
		existing.Status = override.Status
		existing.Notes = override.Notes
		existing.AuthorID = override.AuthorID
		existing.UpdatedAt = override.UpdatedAt
	} else {
		override.ID = uuid.New()
		override.CreatedAt = override.UpdatedAt
		m.overrides[key] = &override
	}
	saved := *m.overrides[key]
	m.history = append(m.history, model.OverrideRevision{
		ID:          uuid.New(),
		OverrideID:  saved.ID,
		VehicleCode: saved.VehicleCode,
		ShiftDate:   saved.ShiftDate,
		Shift:       saved.Shift,
		Status:      saved.Status,
		Notes:       saved.Notes,
		AuthorID:    saved.AuthorID,
		RecordedAt:  saved.UpdatedAt,
	})
	return &saved, nil
}

func (m *mockOverrideStore) ListHistory(_ context.Context, key model.SlotKey) ([]model.OverrideRevision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []model.OverrideRevision
	for i := len(m.history) - 1; i >= 0; i-- {
		rev := m.history[i]
		if rev.VehicleCode == key.VehicleCode && rev.ShiftDate.Equal(key.Date) && rev.Shift == key.Shift {
			result = append(result, rev)
		}
	}
	return result, nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
