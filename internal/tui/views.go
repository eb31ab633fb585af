package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/psychro/internal/controller"
	"github.com/Veraticus/psychro/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.mode == ModeZoneEditor {
		return m.renderZoneEditor()
	}

	state := m.ctrl.Snapshot()

	sections := []string{
		m.theme.Title.Render("Psychrometric Chart"),
		m.renderForm(state),
		m.renderStatus(state),
		m.renderChart(state),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderForm(state controller.State) string {
	labels := [fieldCount]string{
		fieldFile:        "Data file",
		fieldTemperature: "Temperature °C",
		fieldHumidity:    "Humidity %",
	}

	rows := make([]string, 0, fieldCount+2)
	for i, input := range m.inputs {
		label := m.theme.Label.Render(labels[i])
		if i == m.focus {
			label = m.theme.FocusedLabel.Render(labels[i])
		}
		rows = append(rows, label+input.View())
	}

	rows = append(rows, "", m.renderZoneToggle(state))
	return m.theme.Panel.Width(m.panelWidth()).Render(strings.Join(rows, "\n"))
}

func (m Model) renderZoneToggle(state controller.State) string {
	box := "[ ]"
	if state.ZoneChecked {
		box = "[x]"
	}

	line := m.theme.Bold.Render(box + " Design zone")
	if state.ZoneActive {
		line += " " + m.theme.Subtitle.Render(formatZone(state.Zone))
	}
	return line
}

func (m Model) renderStatus(state controller.State) string {
	var lines []string

	if m.pending > 0 {
		lines = append(lines, m.spinner.View()+" "+m.theme.StatusInfo.Render("Working..."))
	}
	for _, target := range []controller.Target{controller.TargetMain, controller.TargetManual} {
		if text := state.Status[target]; text != "" {
			lines = append(lines, m.styleStatus(text))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}

// styleStatus colors a status line by what it reports.
func (m Model) styleStatus(text string) string {
	switch {
	case strings.HasPrefix(text, controller.ErrorPrefix):
		return m.theme.StatusError.Render(text)
	case text == controller.StatusCleared:
		return m.theme.StatusSuccess.Render(text)
	case strings.HasSuffix(text, "..."):
		return m.theme.StatusInfo.Render(text)
	default:
		return m.theme.StatusWarning.Render(text)
	}
}

func (m Model) renderChart(state controller.State) string {
	if !m.hasChart {
		return m.theme.Panel.Width(m.panelWidth()).Render(m.theme.Subtitle.Render("No chart yet"))
	}

	title := m.figure.Title()
	if title == "" {
		title = "Chart"
	}

	rows := []string{
		m.theme.Bold.Render(title),
		fmt.Sprintf("Source: %s", describeRequest(state.Current)),
		fmt.Sprintf("Traces: %d", m.figure.Traces()),
	}
	if names := m.figure.Names(); len(names) > 0 {
		rows = append(rows, "Series: "+strings.Join(names, ", "))
	}
	for _, path := range m.config.Outputs {
		rows = append(rows, m.theme.Subtitle.Render("→ "+path))
	}

	return m.theme.FocusedPanel.Width(m.panelWidth()).Render(strings.Join(rows, "\n"))
}

func (m Model) renderZoneEditor() string {
	labels := [zoneFieldCount]string{
		zoneMinTemp: "Min temp °C",
		zoneMaxTemp: "Max temp °C",
		zoneMinRH:   "Min RH %",
		zoneMaxRH:   "Max RH %",
	}

	rows := []string{m.theme.Title.Render("Design zone")}
	for i, input := range m.zoneInputs {
		label := m.theme.Label.Render(labels[i])
		if i == m.zoneFocus {
			label = m.theme.FocusedLabel.Render(labels[i])
		}
		rows = append(rows, label+input.View())
	}

	rows = append(rows, "")
	if m.editorErr != "" {
		rows = append(rows, m.theme.StatusWarning.Render(m.editorErr))
	}
	if m.pending > 0 {
		rows = append(rows, m.spinner.View()+" "+m.theme.StatusInfo.Render(controller.StatusUpdatingZone))
	}
	rows = append(rows, m.theme.Subtitle.Render("Enter apply · Esc cancel"))

	dialog := m.theme.Dialog.Render(strings.Join(rows, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

func (m Model) panelWidth() int {
	if m.width <= 4 {
		return 0
	}
	return m.width - 4
}

func formatZone(z model.DesignZone) string {
	return fmt.Sprintf("%s–%s °C, %s–%s %%RH",
		model.FormatNumber(z.MinTemp), model.FormatNumber(z.MaxTemp),
		model.FormatNumber(z.MinRH), model.FormatNumber(z.MaxRH))
}

func describeRequest(r model.ChartRequest) string {
	switch r.Kind {
	case model.RequestFromFile:
		return "file " + r.File
	case model.RequestManualPoint:
		return fmt.Sprintf("point %s °C / %s %%",
			model.FormatNumber(r.Point.Temperature), model.FormatNumber(r.Point.Humidity))
	default:
		return r.Kind.String()
	}
}
