package tui

import (
	"github.com/Veraticus/psychro/internal/controller"
	"github.com/Veraticus/psychro/internal/model"
)

// action names a controller call started from the TUI.
type action int

const (
	actionLoad action = iota
	actionUpload
	actionPlot
	actionClear
	actionToggleZone
	actionApplyZone
	actionRefresh
)

func (a action) String() string {
	switch a {
	case actionLoad:
		return "load"
	case actionUpload:
		return "upload"
	case actionPlot:
		return "plot"
	case actionClear:
		return "clear"
	case actionToggleZone:
		return "toggle zone"
	case actionApplyZone:
		return "apply zone"
	case actionRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// actionDoneMsg reports that a controller call returned.
type actionDoneMsg struct {
	err    error
	action action
}

// Messages forwarded by the Bridge from the controller.
type statusMsg struct {
	target controller.Target
	text   string
}

type chartRenderedMsg struct {
	figure    model.Figure
	container string
}
