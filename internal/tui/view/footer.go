package view

import "github.com/charmbracelet/lipgloss"

// FooterHeight is the number of lines the footer takes.
const FooterHeight = 2

// FooterModel contains content and styles for rendering the footer.
type FooterModel struct {
	Width       int
	StatusText  string
	HelpText    string
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	Bg          lipgloss.Color
}

// RenderFooter renders the status line above the key help line.
func RenderFooter(model FooterModel) string {
	if model.Width <= 0 {
		return ""
	}
	pad := lipgloss.NewStyle().Background(model.Bg)
	status := FitLine(model.StatusStyle.Render(Truncate(model.StatusText, model.Width)), model.Width, pad)
	help := FitLine(model.HelpStyle.Render(Truncate(model.HelpText, model.Width)), model.Width, pad)
	return status + "\n" + help
}
