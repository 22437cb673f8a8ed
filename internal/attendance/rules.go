// Package attendance derives one operating status per (vehicle, date, shift) from manual
// overrides, approved operational reports and vehicle lifecycle data.
package attendance

import (
	"time"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/calendar"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/model"
)

const (
	RuleOverride       = "override"
	RulePreActivation  = "pre_activation"
	RuleApprovedReport = "approved_report"
	RuleNotYetReported = "not_yet_reported"
	RuleLeftRoster     = "left_roster"
	RuleNoEvidence     = "no_evidence"
)

// Facts is everything the derivation looks at for one cell. Date and Today are calendar
// dates (see calendar.DateOnly). Override and Report are nil when absent.
type Facts struct {
	Date     time.Time
	Today    time.Time
	Vehicle  model.Vehicle
	Override *model.AttendanceOverride
	Report   *model.OperationalReport
}

type Rule struct {
	Name  string
	Apply func(f Facts) (model.OperatingStatus, bool)
}

// Rules is evaluated in order and the first match wins.
var Rules = []Rule{
	{Name: RuleOverride, Apply: overrideRule},
	{Name: RulePreActivation, Apply: preActivationRule},
	{Name: RuleApprovedReport, Apply: approvedReportRule},
	{Name: RuleNotYetReported, Apply: notYetReportedRule},
	{Name: RuleLeftRoster, Apply: leftRosterRule},
	{Name: RuleNoEvidence, Apply: noEvidenceRule},
}

func overrideRule(f Facts) (model.OperatingStatus, bool) {
	if f.Override == nil {
		return "", false
	}
	return f.Override.Status, true
}

func preActivationRule(f Facts) (model.OperatingStatus, bool) {
	first := f.Vehicle.FirstOperationalDate
	if first == nil || calendar.Before(f.Date, *first) {
		return model.StatusNotActive, true
	}
	return "", false
}

func approvedReportRule(f Facts) (model.OperatingStatus, bool) {
	if f.Report != nil && f.Report.Approved() {
		return model.StatusRunning, true
	}
	return "", false
}

func notYetReportedRule(f Facts) (model.OperatingStatus, bool) {
	if !calendar.Before(f.Date, f.Today) {
		return model.StatusOffline, true
	}
	return "", false
}

func leftRosterRule(f Facts) (model.OperatingStatus, bool) {
	if !f.Vehicle.ActiveInRoster {
		return model.StatusSwapped, true
	}
	return "", false
}

func noEvidenceRule(Facts) (model.OperatingStatus, bool) {
	return model.StatusStopped, true
}

type Decision struct {
	Status model.OperatingStatus
	Rule   string
}

// Decide applies Rules to f. The last rule always matches, so Decide is total.
func Decide(f Facts) Decision {
	for _, rule := range Rules {
		if status, ok := rule.Apply(f); ok {
			return Decision{Status: status, Rule: rule.Name}
		}
	}
	return Decision{Status: model.StatusStopped, Rule: RuleNoEvidence}
}

func Derive(f Facts) model.OperatingStatus {
	return Decide(f).Status
}

// Evaluate derives the cell for key and attaches the override or report annotations
// behind the decision.
func Evaluate(key model.SlotKey, f Facts) model.AttendanceCell {
	decision := Decide(f)
	cell := model.AttendanceCell{
		VehicleCode: key.VehicleCode,
		Date:        key.Date,
		Shift:       key.Shift,
		Status:      decision.Status,
		Source:      model.CellSourceDerived,
		Rule:        decision.Rule,
	}

	switch decision.Rule {
	case RuleOverride:
		authorID := f.Override.AuthorID
		cell.Source = model.CellSourceOverride
		cell.Notes = f.Override.Notes
		cell.AuthorID = &authorID
	case RuleApprovedReport:
		cell.Source = model.CellSourceReport
		if f.Report.DriverName != nil {
			cell.DriverName = *f.Report.DriverName
		}
		cell.TotalTrips = f.Report.TotalTrips
		cell.TotalEarnings = f.Report.TotalEarnings
	}
	return cell
}
