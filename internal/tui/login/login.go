// ABOUTME: Login screen as a bubbletea model
// ABOUTME: Wraps a huh form and reports valid credentials with SubmitMsg

package login

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/productform"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/styles"
)

// SubmitMsg is sent when the form holds valid credentials
type SubmitMsg struct {
	Credentials domain.Credentials
}

// Login collects the administrator credentials
type Login struct {
	values  productform.Login
	form    *huh.Form
	notice  string
	err     string
	pending bool
	width   int
}

// New creates the login screen. notice is shown above the form, e.g. after a logout.
func New(notice string) *Login {
	l := &Login{notice: notice}
	l.form = l.createForm()
	return l
}

func (l *Login) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("E-mail").
				Placeholder("admin@siriafarma.pe").
				Value(&l.values.Email).
				Validate(func(s string) error { return productform.ValidateField("email", s) }),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.values.Password).
				Validate(func(s string) error { return productform.ValidateField("password", s) }),
		).Title("Sign in").
			Description("Siria Farma administration"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wm, ok := msg.(tea.WindowSizeMsg); ok {
		l.width = wm.Width
	}
	if _, ok := msg.(tea.KeyMsg); ok && l.pending {
		return l, nil
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted && !l.pending {
		creds, err := productform.ParseLogin(l.values)
		if err != nil {
			return l, l.SetError(err.Error())
		}
		l.pending = true
		l.err = ""
		return l, func() tea.Msg { return SubmitMsg{Credentials: creds} }
	}

	return l, cmd
}

// SetError shows a failed attempt and reopens the form. The e-mail is kept.
func (l *Login) SetError(message string) tea.Cmd {
	l.err = message
	l.pending = false
	l.values.Password = ""
	l.form = l.createForm()
	return l.form.Init()
}

// Pending reports whether a login request is in flight
func (l *Login) Pending() bool {
	return l.pending
}

// Email returns the e-mail currently entered
func (l *Login) Email() string {
	return l.values.Email
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder

	if l.notice != "" {
		sb.WriteString(styles.Notice.Render(l.notice))
		sb.WriteString("\n\n")
	}
	if l.err != "" {
		sb.WriteString(styles.Banner.Render(l.err))
		sb.WriteString("\n\n")
	}

	if l.pending {
		sb.WriteString(styles.Subtitle.Render("Signing in as " + l.values.Email + "..."))
	} else {
		sb.WriteString(l.form.View())
	}

	return lipgloss.NewStyle().Width(min(max(l.width-4, 40), 60)).Render(sb.String())
}
