package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FormField is one labelled input of the slot form.
type FormField struct {
	Label   string
	Input   string // rendered input view
	Focused bool
}

// SlotFormModel contains the fields needed to render the slot form body.
type SlotFormModel struct {
	Date            string
	Fields          []FormField
	Resource        string // empty hides the resource picker
	ResourceFocused bool
	Free            string // e.g. "Свободно: 1 из 2"
	Err             string
}

// SlotFormStyles groups styles for the slot form body.
type SlotFormStyles struct {
	TagStyle          lipgloss.Style
	BodyStyle         lipgloss.Style
	LabelStyle        lipgloss.Style
	LabelFocusedStyle lipgloss.Style
	HintStyle         lipgloss.Style
	ErrorStyle        lipgloss.Style
}

// RenderSlotFormBody renders the modal body for the slot form.
func RenderSlotFormBody(model SlotFormModel, styles SlotFormStyles) string {
	var body strings.Builder
	sep := styles.BodyStyle.Render(" ")

	body.WriteString(styles.TagStyle.Render(model.Date))
	if model.Free != "" {
		body.WriteString(sep + styles.TagStyle.Render(model.Free))
	}
	body.WriteString("\n\n")

	for _, f := range model.Fields {
		body.WriteString(formLabel(f.Label, f.Focused, styles) + "\n")
		body.WriteString(f.Input + "\n\n")
	}

	if model.Resource != "" {
		body.WriteString(formLabel("СОТРУДНИК", model.ResourceFocused, styles) + "\n")
		body.WriteString(styles.BodyStyle.Render("< " + model.Resource + " >"))
		if model.ResourceFocused {
			body.WriteString(sep + styles.HintStyle.Render("←/→"))
		}
		body.WriteString("\n")
	}

	if model.Err != "" {
		body.WriteString("\n" + styles.ErrorStyle.Render(model.Err) + "\n")
	}
	return strings.TrimRight(body.String(), "\n")
}

func formLabel(label string, focused bool, styles SlotFormStyles) string {
	if focused {
		return styles.LabelFocusedStyle.Render(label)
	}
	return styles.LabelStyle.Render(label)
}
