// ABOUTME: Product form modal for creating and editing products
// ABOUTME: Stays open on a failed save so the user can correct and retry

package editor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/productform"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/styles"
)

// SaveMsg carries a validated product. ID is empty for a new product.
type SaveMsg struct {
	ID    string
	Input domain.ProductInput
}

// CancelledMsg is sent when the modal is closed without saving
type CancelledMsg struct{}

// Editor is the product form modal
type Editor struct {
	id     string
	name   string
	values productform.Values
	form   *huh.Form
	err    string
	saving bool
}

// NewCreate opens an empty form
func NewCreate() *Editor {
	e := &Editor{}
	e.form = e.createForm()
	return e
}

// NewEdit opens the form pre-filled with p
func NewEdit(p domain.Product) *Editor {
	e := &Editor{id: p.ID, name: p.Name, values: productform.FromProduct(p)}
	e.form = e.createForm()
	return e
}

func field(name string) func(string) error {
	return func(s string) error { return productform.ValidateField(name, s) }
}

func (e *Editor) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				CharLimit(120).
				Value(&e.values.Name).
				Validate(field("name")),
			huh.NewText().
				Title("Description").
				CharLimit(1000).
				Lines(3).
				Value(&e.values.Description).
				Validate(field("description")),
			huh.NewInput().
				Title("Price").
				Placeholder("e.g., 12.50").
				Value(&e.values.Price).
				Validate(field("price")),
			huh.NewInput().
				Title("Stock").
				Description("Leave empty if unknown").
				Value(&e.values.Stock).
				Validate(field("stock")),
			huh.NewInput().
				Title("Image URL").
				Value(&e.values.ImageURL).
				Validate(field("image_url")),
		).Title(e.Title()),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Title names the modal
func (e *Editor) Title() string {
	if e.id == "" {
		return "New product"
	}
	return "Edit " + e.name
}

// Init implements tea.Model
func (e *Editor) Init() tea.Cmd {
	return e.form.Init()
}

// Update implements tea.Model
func (e *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		if e.saving {
			return e, nil
		}
		if km.String() == "esc" {
			return e, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := e.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		e.form = f
	}

	if e.form.State == huh.StateCompleted && !e.saving {
		input, err := productform.Parse(e.values)
		if err != nil {
			return e, e.SetError(err.Error())
		}
		e.saving = true
		e.err = ""
		id := e.id
		return e, func() tea.Msg { return SaveMsg{ID: id, Input: input} }
	}

	return e, cmd
}

// SetError shows a failed save and reopens the form with the entered values
func (e *Editor) SetError(message string) tea.Cmd {
	e.err = message
	e.saving = false
	e.form = e.createForm()
	return e.form.Init()
}

// Saving reports whether a save request is in flight
func (e *Editor) Saving() bool {
	return e.saving
}

// Err returns the last save error shown
func (e *Editor) Err() string {
	return e.err
}

// Values returns the entered form values
func (e *Editor) Values() productform.Values {
	return e.values
}

// View implements tea.Model
func (e *Editor) View() string {
	var sb strings.Builder
	if e.err != "" {
		sb.WriteString(styles.Banner.Render(e.err))
		sb.WriteString("\n\n")
	}
	if e.saving {
		sb.WriteString(styles.Subtitle.Render("Saving..."))
	} else {
		sb.WriteString(e.form.View())
	}
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render("enter next  •  esc cancel"))
	return sb.String()
}
