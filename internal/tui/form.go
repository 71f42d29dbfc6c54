package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Versuscsdota/MirrorCRM/internal/grid"
	"github.com/Versuscsdota/MirrorCRM/internal/slot"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/view"
)

// Form validation errors.
var (
	ErrNoCapacity = errors.New("no free places at this time")
	ErrOutsideDay = errors.New("slot is outside the working day")
)

type formField int

const (
	fieldStart formField = iota
	fieldEnd
	fieldTitle
	fieldNotes
	fieldResource
)

var fieldLabels = [...]string{"НАЧАЛО", "КОНЕЦ", "НАЗВАНИЕ", "ЗАМЕТКИ"}

// slotForm is the create-slot form.
type slotForm struct {
	date        string
	inputs      [fieldResource]textinput.Model
	focus       formField
	resources   []slot.Resource
	resourceIdx int
	err         string
}

func newSlotForm(date, start, resourceID string, resources []slot.Resource, styles *Styles) *slotForm {
	f := &slotForm{date: date, resources: resources}

	placeholders := [...]string{"12:00", "по умолчанию +30 мин", "Слот", ""}
	limits := [...]int{5, 5, 120, 500}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = 32
		ti.Prompt = ""
		ti.PlaceholderStyle = styles.ModalPlaceholderStyle
		ti.TextStyle = styles.ModalInputTextStyle
		ti.Cursor.Style = styles.ModalInputCursorStyle
		ti.Cursor.TextStyle = styles.ModalInputTextStyle
		f.inputs[i] = ti
	}
	f.inputs[fieldStart].SetValue(start)

	for i, r := range resources {
		if r.ID == resourceID {
			f.resourceIdx = i
		}
	}

	f.setFocus(fieldStart)
	return f
}

func (f *slotForm) fieldCount() formField {
	if len(f.resources) == 0 {
		return fieldResource
	}
	return fieldResource + 1
}

func (f *slotForm) setFocus(field formField) {
	f.focus = field
	for i := range f.inputs {
		if formField(i) == field {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *slotForm) focusNext() {
	f.setFocus((f.focus + 1) % f.fieldCount())
}

func (f *slotForm) focusPrev() {
	n := f.fieldCount()
	f.setFocus((f.focus + n - 1) % n)
}

// update forwards a key to the focused field.
func (f *slotForm) update(msg tea.KeyMsg) tea.Cmd {
	if f.focus == fieldResource {
		n := len(f.resources)
		switch msg.String() {
		case "left", "h":
			f.resourceIdx = (f.resourceIdx + n - 1) % n
		case "right", "l", " ":
			f.resourceIdx = (f.resourceIdx + 1) % n
		}
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = ""
	return cmd
}

func (f *slotForm) resourceID() string {
	if len(f.resources) == 0 {
		return ""
	}
	return f.resources[f.resourceIdx].ID
}

func (f *slotForm) value(field formField) string {
	return strings.TrimSpace(f.inputs[field].Value())
}

// request validates the form and builds the create payload. An empty end
// means start plus defaultDuration minutes.
func (f *slotForm) request(defaultDuration int, g grid.Geometry, existing []slot.Slot) (slot.CreateRequest, error) {
	start, end := f.value(fieldStart), f.value(fieldEnd)
	var (
		s   *slot.Slot
		err error
	)
	if end == "" {
		s, err = slot.NewWithDuration(f.date, start, defaultDuration, f.value(fieldTitle), f.value(fieldNotes), f.resourceID())
	} else {
		s, err = slot.New(f.date, start, end, f.value(fieldTitle), f.value(fieldNotes), f.resourceID())
	}
	if err != nil {
		return slot.CreateRequest{}, err
	}
	if !s.WithinDay(g.DayStart, g.DayEnd) {
		return slot.CreateRequest{}, fmt.Errorf("%w (%s–%s)", ErrOutsideDay,
			slot.ClockFromMinutes(g.DayStart), slot.ClockFromMinutes(g.DayEnd))
	}
	if len(f.resources) == 0 && slot.FreeAt(existing, s.Start) == 0 {
		return slot.CreateRequest{}, fmt.Errorf("%w: %s", ErrNoCapacity, s.Start)
	}
	return s.Snapshot(), nil
}

// render draws the form modal.
func (f *slotForm) render(styles *Styles, existing []slot.Slot) string {
	fields := make([]view.FormField, 0, len(f.inputs))
	for i := range f.inputs {
		fields = append(fields, view.FormField{
			Label:   fieldLabels[i],
			Input:   f.inputs[i].View(),
			Focused: f.focus == formField(i),
		})
	}

	model := view.SlotFormModel{
		Date:            f.date,
		Fields:          fields,
		ResourceFocused: f.focus == fieldResource,
		Err:             f.err,
	}
	if len(f.resources) > 0 {
		model.Resource = f.resources[f.resourceIdx].FullName
	} else if start := f.value(fieldStart); slot.ValidateClock(start) == nil {
		model.Free = fmt.Sprintf("Свободно: %d из %d", slot.FreeAt(existing, start), slot.Capacity)
	}

	ms := styles.modalStyles()
	body := view.RenderSlotFormBody(model, styles.formStyles())
	footer := view.RenderModalButtons(ms, "[Enter] Создать", "[Esc] Отмена") +
		styles.ModalHintStyle.Render("  tab: следующее поле")
	return view.RenderModalFrame("Новый слот", body, footer, ms)
}
