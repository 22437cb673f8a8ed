package model

type StatusAttributes struct {
	Label string
	// Color is an RGB hex string without the leading '#'.
	Color string
}

var statusAttributes = map[OperatingStatus]StatusAttributes{
	StatusRunning:   {Label: "Running", Color: "22C55E"},
	StatusStopped:   {Label: "Stopped", Color: "EF4444"},
	StatusBreakdown: {Label: "Breakdown", Color: "F97316"},
	StatusLeave:     {Label: "Leave", Color: "EAB308"},
	StatusOffline:   {Label: "Offline", Color: "9CA3AF"},
	StatusSwapped:   {Label: "Swapped", Color: "8B5CF6"},
	StatusNotActive: {Label: "Not active", Color: "E5E7EB"},
}

func (s OperatingStatus) Attributes() StatusAttributes {
	if attrs, ok := statusAttributes[s]; ok {
		return attrs
	}
	return StatusAttributes{Label: string(s), Color: "FFFFFF"}
}
