// Package tui implements the interactive chart page as a bubbletea program.
package tui

import (
	"context"
	"errors"

	"github.com/Veraticus/psychro/internal/common"
	"github.com/Veraticus/psychro/internal/controller"
	"github.com/Veraticus/psychro/internal/model"
	"github.com/Veraticus/psychro/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode is the surface that receives key input.
type Mode int

const (
	ModeMain Mode = iota
	ModeZoneEditor
)

// Main form fields, in focus order.
const (
	fieldFile = iota
	fieldTemperature
	fieldHumidity
	fieldCount
)

// Zone editor fields, in focus order.
const (
	zoneMinTemp = iota
	zoneMaxTemp
	zoneMinRH
	zoneMaxRH
	zoneFieldCount
)

// Model holds the TUI state. Chart session state lives in the controller;
// the model only tracks input widgets and in-flight commands.
type Model struct {
	ctx        context.Context
	ctrl       *controller.Controller
	theme      themes.Theme
	keymap     KeyMap
	help       help.Model
	spinner    spinner.Model
	editorErr  string
	config     Config
	inputs     []textinput.Model
	zoneInputs []textinput.Model
	figure     model.Figure
	width      int
	height     int
	focus      int
	zoneFocus  int
	pending    int
	mode       Mode
	hasChart   bool
	plotting   bool
	quitting   bool
}

// newModel creates a new model. The default chart load counts as pending
// from the start; Init issues it.
func newModel(ctx context.Context, ctrl *controller.Controller, cfg Config) Model {
	h := help.New()
	h.ShowAll = cfg.ShowHelp
	h.Width = cfg.Width

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = s.Style.Foreground(cfg.Theme.Primary)

	m := Model{
		ctx:        ctx,
		ctrl:       ctrl,
		config:     cfg,
		theme:      cfg.Theme,
		keymap:     DefaultKeyMap(),
		help:       h,
		spinner:    s,
		inputs:     newMainInputs(),
		zoneInputs: newZoneInputs(),
		width:      cfg.Width,
		height:     cfg.Height,
		pending:    1,
	}
	m.setFocus(fieldFile)
	return m
}

func newMainInputs() []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)

	inputs[fieldFile] = textinput.New()
	inputs[fieldFile].Placeholder = "path/to/readings.xlsx"
	inputs[fieldFile].CharLimit = 4096

	inputs[fieldTemperature] = textinput.New()
	inputs[fieldTemperature].Placeholder = "25"
	inputs[fieldTemperature].CharLimit = 16

	inputs[fieldHumidity] = textinput.New()
	inputs[fieldHumidity].Placeholder = "50"
	inputs[fieldHumidity].CharLimit = 16

	return inputs
}

func newZoneInputs() []textinput.Model {
	inputs := make([]textinput.Model, zoneFieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 16
	}
	return inputs
}

// Init loads the default chart.
func (m Model) Init() tea.Cmd {
	ctrl := m.ctrl
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		actionCmd(m.ctx, actionLoad, ctrl.LoadDefault),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case actionDoneMsg:
		return m.handleDone(msg), nil

	case chartRenderedMsg:
		m.figure = msg.figure
		m.hasChart = true
		return m, nil

	case statusMsg:
		// Status text is read from the controller when rendering.
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

// handleKey routes key presses. Global keys first, then the active surface.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.mode == ModeZoneEditor {
		return m.handleEditorKey(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.NextField):
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case key.Matches(msg, m.keymap.PrevField):
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case key.Matches(msg, m.keymap.Submit):
		return m.submit()
	case key.Matches(msg, m.keymap.ToggleZone):
		return m.toggleZone()
	case key.Matches(msg, m.keymap.EditZone):
		if input, ok := m.ctrl.EditZone(); ok {
			m.openEditor(input)
			return m, textinput.Blink
		}
		return m, nil
	case key.Matches(msg, m.keymap.Clear):
		return m.start(actionClear, m.ctrl.Clear)
	case key.Matches(msg, m.keymap.Refresh):
		return m.start(actionRefresh, m.ctrl.Refresh)
	}

	return m.updateFocused(msg)
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel), key.Matches(msg, m.keymap.ToggleZone):
		m.ctrl.CancelZone()
		m.closeEditor()
		return m, nil
	case key.Matches(msg, m.keymap.NextField):
		m.setZoneFocus((m.zoneFocus + 1) % zoneFieldCount)
		return m, nil
	case key.Matches(msg, m.keymap.PrevField):
		m.setZoneFocus((m.zoneFocus + zoneFieldCount - 1) % zoneFieldCount)
		return m, nil
	case key.Matches(msg, m.keymap.Submit):
		in := m.zoneInput()
		ctrl := m.ctrl
		m.editorErr = ""
		return m.start(actionApplyZone, func(ctx context.Context) error {
			return ctrl.ApplyZone(ctx, in)
		})
	}

	return m.updateFocused(msg)
}

// submit uploads the file when the file field is focused and plots the
// point otherwise. A plot submitted while one is pending is dropped.
func (m Model) submit() (tea.Model, tea.Cmd) {
	ctrl := m.ctrl

	if m.focus == fieldFile {
		path := m.inputs[fieldFile].Value()
		return m.start(actionUpload, func(ctx context.Context) error {
			return ctrl.UploadFile(ctx, path)
		})
	}

	if m.plotting {
		return m, nil
	}
	m.plotting = true

	temperature := m.inputs[fieldTemperature].Value()
	humidity := m.inputs[fieldHumidity].Value()
	return m.start(actionPlot, func(ctx context.Context) error {
		return ctrl.PlotPoint(ctx, temperature, humidity)
	})
}

// toggleZone flips the design-zone checkbox. Checking only opens the editor;
// unchecking refreshes the chart without the zone.
func (m Model) toggleZone() (tea.Model, tea.Cmd) {
	ctrl := m.ctrl

	if ctrl.Snapshot().ZoneChecked {
		return m.start(actionToggleZone, func(ctx context.Context) error {
			_, err := ctrl.ToggleZone(ctx, false)
			return err
		})
	}

	input, err := ctrl.ToggleZone(m.ctx, true)
	if err != nil {
		return m, nil
	}
	m.openEditor(input)
	return m, textinput.Blink
}

func (m Model) handleDone(msg actionDoneMsg) Model {
	if m.pending > 0 {
		m.pending--
	}

	switch msg.action {
	case actionPlot:
		m.plotting = false
	case actionApplyZone:
		var vErr *common.ValidationError
		if errors.As(msg.err, &vErr) {
			m.editorErr = vErr.Message
		} else {
			m.closeEditor()
		}
	}

	if msg.err != nil && !common.IsValidation(msg.err) {
		common.LogDebug("TUI action failed", common.Fields{"action": msg.action.String(), "error": msg.err.Error()})
	}
	return m
}

func (m *Model) openEditor(input model.ZoneInput) {
	m.mode = ModeZoneEditor
	m.editorErr = ""
	m.zoneInputs[zoneMinTemp].SetValue(input.MinTemp)
	m.zoneInputs[zoneMaxTemp].SetValue(input.MaxTemp)
	m.zoneInputs[zoneMinRH].SetValue(input.MinRH)
	m.zoneInputs[zoneMaxRH].SetValue(input.MaxRH)
	m.setZoneFocus(zoneMinTemp)
	m.inputs[m.focus].Blur()
}

func (m *Model) closeEditor() {
	if m.mode != ModeZoneEditor {
		return
	}
	m.mode = ModeMain
	m.editorErr = ""
	for i := range m.zoneInputs {
		m.zoneInputs[i].Blur()
	}
	m.setFocus(m.focus)
}

func (m Model) zoneInput() model.ZoneInput {
	return model.ZoneInput{
		MinTemp: m.zoneInputs[zoneMinTemp].Value(),
		MaxTemp: m.zoneInputs[zoneMaxTemp].Value(),
		MinRH:   m.zoneInputs[zoneMinRH].Value(),
		MaxRH:   m.zoneInputs[zoneMaxRH].Value(),
	}
}

func (m *Model) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m *Model) setZoneFocus(i int) {
	m.zoneFocus = i
	for j := range m.zoneInputs {
		if j == i {
			m.zoneInputs[j].Focus()
		} else {
			m.zoneInputs[j].Blur()
		}
	}
}

// updateFocused passes msg to the focused text input.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.mode == ModeZoneEditor {
		m.zoneInputs[m.zoneFocus], cmd = m.zoneInputs[m.zoneFocus].Update(msg)
	} else {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}
