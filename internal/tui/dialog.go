package tui

import (
	"github.com/charmbracelet/lipgloss"
)

type alert struct {
	title   string
	message string
}

// alertQueue implements document.Reporter. Reports queue up and are shown
// one at a time until dismissed.
type alertQueue struct {
	alerts []alert
}

func (q *alertQueue) Report(title, message string) {
	q.alerts = append(q.alerts, alert{title: title, message: message})
}

func (q *alertQueue) Len() int {
	return len(q.alerts)
}

func (q *alertQueue) current() (alert, bool) {
	if len(q.alerts) == 0 {
		return alert{}, false
	}
	return q.alerts[0], true
}

func (q *alertQueue) dismiss() {
	if len(q.alerts) > 0 {
		q.alerts = q.alerts[1:]
	}
}

func renderAlert(a alert, width, height int) string {
	boxWidth := min(60, max(width-4, 20))

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("124")).
		Padding(0, 1)

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Width(boxWidth - 4)

	hintStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("124")).
		Padding(1, 1).
		Width(boxWidth)

	content := titleStyle.Render(a.title) + "\n\n" +
		messageStyle.Render(a.message) + "\n\n" +
		hintStyle.Render("[any key to dismiss]")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box.Render(content))
}
