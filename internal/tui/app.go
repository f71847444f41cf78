// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, runs the auth guard and routes keyboard input to child components

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalog "github.com/AronOmarPizarroCahuana/Siria-Admin/internal/dashboard"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/guard"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/output"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/dashboard"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/debuglog"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/editor"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/icons"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/login"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/products"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/styles"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/usecase"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenProducts
)

// Layout constants
const (
	minTerminalWidth = 80 // Frame never renders narrower than this
	frameOverhead    = 6  // Header, footer and the status lines around content
)

const (
	noticeSignIn  = "Please log in to continue."
	noticeExpired = "Your session is no longer valid, please log in again."
)

// Services are the use cases the TUI drives
type Services struct {
	Login     *usecase.Login
	Logout    *usecase.Logout
	List      *usecase.ListProducts
	Create    *usecase.CreateProduct
	Update    *usecase.UpdateProduct
	Delete    *usecase.DeleteProduct
	Dashboard *catalog.Service
	Guard     *guard.Guard
	PageSize  int
	LowStock  int
}

type loggedInMsg struct {
	auth domain.AuthResult
	err  error
}

type dashboardLoadedMsg struct {
	view catalog.View
}

// productsLoadedMsg carries the request id so stale pages can be dropped
type productsLoadedMsg struct {
	seq    int
	result domain.Result[domain.ProductPage]
}

type productSavedMsg struct {
	result domain.Result[domain.Product]
	err    error
}

type productDeletedMsg struct {
	message domain.Message
	err     error
}

type deleteExpiredMsg struct {
	armedAt time.Time
}

// App is the root model for the TUI
type App struct {
	svc        Services
	screen     Screen
	width      int
	height     int
	user       *domain.User
	banner     string // last failure
	notice     string // last success or pending confirmation
	loading    bool
	spinner    spinner.Model
	lastUpdate time.Time
	listSeq    int

	// Child models
	login     *login.Login
	dashboard *dashboard.Dashboard
	products  *products.Products
	editor    *editor.Editor
}

// New creates the TUI, starting on the dashboard when a session exists
func New(svc Services) *App {
	a := &App{
		svc:       svc,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary))),
		dashboard: dashboard.New(minTerminalWidth, 20),
		products:  products.New(svc.PageSize, svc.LowStock),
	}

	decision := svc.Guard.Check()
	if decision.Allowed {
		a.screen = ScreenDashboard
		a.user = decision.User
	} else {
		a.screen = ScreenLogin
		a.login = login.New("")
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenLogin {
		return a.login.Init()
	}
	return a.startLoading(a.loadDashboard())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(a.contentWidth(), a.contentHeight())
		a.products.SetSize(a.contentWidth(), a.contentHeight())
		if a.login != nil {
			a.login.Update(msg)
		}
		if a.editor != nil {
			_, cmd := a.editor.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.editor != nil {
			return a.updateEditor(msg)
		}

		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenDashboard:
			return a.updateDashboard(msg)
		case ScreenProducts:
			return a.updateProducts(msg)
		}

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case login.SubmitMsg:
		return a, a.submitLogin(msg.Credentials)

	case loggedInMsg:
		if msg.err != nil {
			debuglog.Error("login", msg.err)
			return a, a.login.SetError(msg.err.Error())
		}
		a.user = msg.auth.User
		a.login = nil
		return a, a.navigate(ScreenDashboard)

	case dashboardLoadedMsg:
		a.loading = false
		if msg.view.Reauth {
			return a, a.sessionRejected()
		}
		a.dashboard.SetView(msg.view)
		a.lastUpdate = time.Now()
		return a, nil

	case productsLoadedMsg:
		if msg.seq != a.listSeq {
			return a, nil
		}
		a.loading = false
		if !msg.result.Message.Status {
			if msg.result.Reauth {
				return a, a.sessionRejected()
			}
			a.banner = msg.result.Message.Message
			return a, nil
		}
		a.banner = ""
		a.products.SetProducts(msg.result.Payload)
		a.lastUpdate = time.Now()
		return a, nil

	case editor.SaveMsg:
		return a, a.saveProduct(msg)

	case editor.CancelledMsg:
		a.editor = nil
		return a, nil

	case productSavedMsg:
		if msg.err != nil {
			debuglog.Error("save product", msg.err)
			if domain.ReauthRequired(a.svc.Guard.Observe(msg.err)) {
				return a, a.redirectToLogin()
			}
			if a.editor != nil {
				return a, a.editor.SetError(msg.err.Error())
			}
			a.banner = msg.err.Error()
			return a, nil
		}
		a.editor = nil
		a.notice = output.Capitalize(msg.result.Message.Message)
		return a, a.startLoading(a.loadProducts())

	case productDeletedMsg:
		if msg.err != nil {
			debuglog.Error("delete product", msg.err)
			if domain.ReauthRequired(a.svc.Guard.Observe(msg.err)) {
				return a, a.redirectToLogin()
			}
			a.notice = ""
			a.banner = msg.err.Error()
			return a, nil
		}
		a.notice = output.Capitalize(msg.message.Message)
		return a, a.startLoading(a.loadProducts())

	case deleteExpiredMsg:
		if a.products.ExpirePending(msg.armedAt) {
			a.notice = ""
		}
		return a, nil

	default:
		// huh forms need their internal messages
		if a.editor != nil {
			_, cmd := a.editor.Update(msg)
			return a, cmd
		}
		if a.screen == ScreenLogin && a.login != nil {
			_, cmd := a.login.Update(msg)
			return a, cmd
		}
	}

	return a, nil
}

func (a *App) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		return a, tea.Quit
	}
	if a.login == nil {
		return a, nil
	}
	_, cmd := a.login.Update(msg)
	return a, cmd
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		return a, a.navigate(ScreenDashboard)
	case "p", "tab":
		return a, a.navigate(ScreenProducts)
	case "L":
		return a, a.logout()
	}
	return a, nil
}

func (a *App) updateProducts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		return a, a.navigate(ScreenProducts)
	case "d", "tab":
		return a, a.navigate(ScreenDashboard)
	case "L":
		return a, a.logout()
	case "n":
		return a, a.openEditor(editor.NewCreate())
	case "e", "enter":
		if p, ok := a.products.Selected(); ok {
			return a, a.openEditor(editor.NewEdit(p))
		}
		return a, nil
	case "x", "delete":
		return a, a.requestDelete()
	case "]":
		if a.products.NextPage() {
			return a, a.navigate(ScreenProducts)
		}
		return a, nil
	case "[":
		if a.products.PrevPage() {
			return a, a.navigate(ScreenProducts)
		}
		return a, nil
	}
	return a, a.products.Update(msg)
}

func (a *App) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, cmd := a.editor.Update(msg)
	return a, cmd
}

// navigate runs the guard before showing a protected screen
func (a *App) navigate(target Screen) tea.Cmd {
	decision := a.svc.Guard.Check()
	if !decision.Allowed {
		return a.toLogin(noticeSignIn)
	}
	a.user = decision.User
	a.screen = target
	a.banner = ""

	switch target {
	case ScreenDashboard:
		return a.startLoading(a.loadDashboard())
	case ScreenProducts:
		return a.startLoading(a.loadProducts())
	}
	return nil
}

// sessionRejected reports a 401 and lets the guard send the user to login
func (a *App) sessionRejected() tea.Cmd {
	a.svc.Guard.ReportUnauthorized()
	return a.redirectToLogin()
}

// redirectToLogin applies a reported 401: the guard clears the session
func (a *App) redirectToLogin() tea.Cmd {
	if a.svc.Guard.Check().Allowed {
		return nil
	}
	return a.toLogin(noticeExpired)
}

func (a *App) toLogin(notice string) tea.Cmd {
	a.screen = ScreenLogin
	a.user = nil
	a.editor = nil
	a.loading = false
	a.banner = ""
	a.notice = ""
	a.login = login.New(notice)
	a.products = products.New(a.svc.PageSize, a.svc.LowStock)
	a.products.SetSize(a.contentWidth(), a.contentHeight())
	return a.login.Init()
}

func (a *App) logout() tea.Cmd {
	a.svc.Logout.Execute()
	return a.toLogin("Logged out.")
}

func (a *App) openEditor(e *editor.Editor) tea.Cmd {
	a.editor = e
	a.notice = ""
	return e.Init()
}

func (a *App) requestDelete() tea.Cmd {
	p, confirmed, ok := a.products.RequestDelete()
	if !ok {
		return nil
	}
	if confirmed {
		a.notice = "Deleting " + p.Name + "..."
		return a.deleteProduct(p.ID)
	}

	armedAt, _ := a.products.PendingSince()
	a.notice = fmt.Sprintf("Press x again within %ds to delete %s", int(products.DeleteWindow.Seconds()), p.Name)
	return tea.Tick(products.DeleteWindow, func(time.Time) tea.Msg {
		return deleteExpiredMsg{armedAt: armedAt}
	})
}

func (a *App) startLoading(cmd tea.Cmd) tea.Cmd {
	a.loading = true
	return tea.Batch(cmd, a.spinner.Tick)
}

// submitLogin creates a command that authenticates
func (a *App) submitLogin(creds domain.Credentials) tea.Cmd {
	return func() tea.Msg {
		auth, err := a.svc.Login.Execute(context.Background(), creds)
		return loggedInMsg{auth: auth, err: err}
	}
}

// loadDashboard creates a command to fetch the dashboard figures
func (a *App) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		return dashboardLoadedMsg{view: a.svc.Dashboard.Load(context.Background())}
	}
}

// loadProducts creates a command to fetch the current page. Only the newest request is applied.
func (a *App) loadProducts() tea.Cmd {
	a.listSeq++
	seq := a.listSeq
	page, size := a.products.Page(), a.products.PageSize()
	return func() tea.Msg {
		return productsLoadedMsg{seq: seq, result: a.svc.List.Execute(context.Background(), page, size)}
	}
}

func (a *App) saveProduct(msg editor.SaveMsg) tea.Cmd {
	return func() tea.Msg {
		var res domain.Result[domain.Product]
		var err error
		if msg.ID == "" {
			res, err = a.svc.Create.Execute(context.Background(), msg.Input)
		} else {
			res, err = a.svc.Update.Execute(context.Background(), msg.ID, msg.Input)
		}
		return productSavedMsg{result: res, err: err}
	}
}

func (a *App) deleteProduct(id string) tea.Cmd {
	return func() tea.Msg {
		m, err := a.svc.Delete.Execute(context.Background(), id)
		return productDeletedMsg{message: m, err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenDashboard:
		content = a.viewDashboard()
	case ScreenProducts:
		content = a.viewProducts()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewLogin() string {
	if a.login == nil {
		return ""
	}
	return styles.ActivePanel.Render(a.login.View())
}

func (a *App) viewDashboard() string {
	return a.statusLines() + a.dashboard.View()
}

func (a *App) viewProducts() string {
	if a.editor != nil {
		modal := styles.Modal.Render(styles.Title.Render(a.editor.Title()) + "\n" + a.editor.View())
		return lipgloss.Place(a.contentWidth(), a.contentHeight(), lipgloss.Center, lipgloss.Center, modal)
	}
	return a.statusLines() + a.products.View()
}

// statusLines renders the error banner, notice and loading indicator
func (a *App) statusLines() string {
	var sb strings.Builder
	if a.banner != "" {
		sb.WriteString(styles.Banner.Render(icons.Critical.String() + " " + a.banner))
		sb.WriteString("\n")
	}
	if a.notice != "" {
		sb.WriteString(styles.Notice.Render(a.notice))
		sb.WriteString("\n")
	}
	if a.loading {
		sb.WriteString(a.spinner.View() + " Loading...")
		sb.WriteString("\n")
	}
	return sb.String()
}

func (a *App) frameWidth() int {
	// One column short of the terminal avoids wrapping on some terminals
	return max(a.width-1, minTerminalWidth)
}

func (a *App) contentWidth() int {
	return a.frameWidth() - 2
}

func (a *App) contentHeight() int {
	return max(a.height-frameOverhead, 10)
}

// renderHeader creates the header bar with app branding and the signed-in user
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Siria Farma Admin"))

	rightText := ""
	if a.screen != ScreenLogin {
		rightText = " " + contextStyle.Render(fmt.Sprintf("%s [%s]", a.user.FullName(), a.user.Initials())) + " "
	}

	fill := max(width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText), 0)
	return borderStyle.Render("╭─") + leftText + borderStyle.Render(strings.Repeat("─", fill)) + rightText + borderStyle.Render("─╮")
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch {
	case a.editor != nil:
		shortcuts = []string{"Enter Next", "Esc Cancel"}
	case a.screen == ScreenLogin:
		shortcuts = []string{"Enter Submit", "Esc Quit"}
	case a.screen == ScreenDashboard:
		shortcuts = []string{"p Products", "r Refresh", "L Logout", "q Quit"}
	case a.screen == ScreenProducts:
		shortcuts = []string{"n New", "e Edit", "x Delete", "[] Page", "r Refresh", "d Dashboard", "L Logout", "q Quit"}
	}

	var styled []string
	for _, s := range shortcuts {
		key, label, _ := strings.Cut(s, " ")
		styled = append(styled, keyStyle.Render(key)+" "+labelStyle.Render(label))
	}
	leftText := " " + strings.Join(styled, "  ") + " "

	rightText := ""
	if !a.lastUpdate.IsZero() && a.screen != ScreenLogin {
		rightText = " " + statusStyle.Render("Updated "+formatTimeSince(a.lastUpdate)) + " "
	}

	fill := max(width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText), 0)
	return borderStyle.Render("╰─") + leftText + borderStyle.Render(strings.Repeat("─", fill)) + rightText + borderStyle.Render("─╯")
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(svc Services) error {
	p := tea.NewProgram(New(svc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
