package controller

import "github.com/Veraticus/psychro/internal/model"

// Status texts shown while an action is in flight or after it succeeds.
const (
	StatusUpdatingChart = "Updating chart..."
	StatusPlotting      = "Plotting point..."
	StatusClearing      = "Clearing data..."
	StatusCleared       = "Data cleared successfully."
	StatusUpdatingZone  = "Updating design zone..."
)

// ErrorPrefix precedes every failed action's message.
const ErrorPrefix = "Error: "

// State is the controller-owned session state. It is created with the
// controller and never persisted.
type State struct {
	Status     map[Target]string
	Current    model.ChartRequest
	Zone       model.DesignZone
	Submitting bool

	// ZoneChecked mirrors the design-zone checkbox; ZoneActive is set once
	// bounds have been applied. They differ while the editor is open for a
	// zone that was not yet active.
	ZoneChecked bool
	ZoneActive  bool
	EditorOpen  bool
	WasActive   bool
}

func newState() State {
	return State{
		Status:  map[Target]string{TargetMain: "", TargetManual: ""},
		Current: model.DefaultRequest(),
		Zone:    model.DefaultDesignZone(),
	}
}

func (s State) clone() State {
	status := make(map[Target]string, len(s.Status))
	for k, v := range s.Status {
		status[k] = v
	}
	s.Status = status
	return s
}

// zoneArgs returns the zone arguments every request carries.
func (s State) zoneArgs() (bool, *model.DesignZone) {
	if !s.ZoneActive {
		return false, nil
	}
	zone := s.Zone
	return true, &zone
}
