// ABOUTME: Product list screen backed by a bubbles table
// ABOUTME: Tracks paging and the two-press delete confirmation

package products

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/styles"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/widgets"
)

// DeleteWindow is how long a first delete press stays armed
const DeleteWindow = 3 * time.Second

// Products shows one page of the catalog
type Products struct {
	table      table.Model
	items      []domain.Product
	pagination *domain.Pagination
	page       int
	pageSize   int
	lowStock   int
	width      int

	pendingID string
	pendingAt time.Time
	now       func() time.Time
}

// New creates an empty product list
func New(pageSize, lowStock int) *Products {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Primary).
		Bold(false)
	t.SetStyles(s)

	return &Products{
		table:    t,
		page:     1,
		pageSize: pageSize,
		lowStock: lowStock,
		now:      time.Now,
	}
}

func columns(width int) []table.Column {
	idW, priceW, stockW := 12, 12, 10
	nameW := max(width-idW-priceW-stockW-8, 16)
	return []table.Column{
		{Title: "ID", Width: idW},
		{Title: "Name", Width: nameW},
		{Title: "Price", Width: priceW},
		{Title: "Stock", Width: stockW},
	}
}

// SetSize fits the table to the content area
func (p *Products) SetSize(width, height int) {
	p.width = width
	p.table.SetColumns(columns(width))
	p.table.SetWidth(width)
	p.table.SetHeight(max(height-4, 3))
}

// SetProducts replaces the rows with a freshly loaded page
func (p *Products) SetProducts(page domain.ProductPage) {
	p.items = page.Items
	p.pagination = page.Pagination

	rows := make([]table.Row, len(page.Items))
	for i, item := range page.Items {
		stock := strconv.Itoa(item.Stock)
		switch widgets.StockLevel(item.Stock, p.lowStock) {
		case widgets.StatusCritical:
			stock += " out"
		case widgets.StatusWarning:
			stock += " low"
		}
		rows[i] = table.Row{item.ID, item.Name, "S/ " + item.Price.StringFixed(2), stock}
	}
	p.table.SetRows(rows)
	if p.table.Cursor() >= len(rows) {
		p.table.SetCursor(max(len(rows)-1, 0))
	}
	p.clearPending()
}

// Items returns the products currently shown
func (p *Products) Items() []domain.Product {
	return p.items
}

// Selected returns the highlighted product
func (p *Products) Selected() (domain.Product, bool) {
	i := p.table.Cursor()
	if i < 0 || i >= len(p.items) {
		return domain.Product{}, false
	}
	return p.items[i], true
}

// RequestDelete arms deletion of the selected product, or confirms it when the
// same product was armed less than DeleteWindow ago.
func (p *Products) RequestDelete() (product domain.Product, confirmed, ok bool) {
	sel, ok := p.Selected()
	if !ok {
		return domain.Product{}, false, false
	}
	now := p.now()
	if p.pendingID == sel.ID && now.Sub(p.pendingAt) <= DeleteWindow {
		p.clearPending()
		return sel, true, true
	}
	p.pendingID = sel.ID
	p.pendingAt = now
	return sel, false, true
}

// PendingSince returns when the current delete was armed
func (p *Products) PendingSince() (time.Time, bool) {
	return p.pendingAt, p.pendingID != ""
}

// ExpirePending disarms the delete armed at armedAt. It reports whether anything changed.
func (p *Products) ExpirePending(armedAt time.Time) bool {
	if p.pendingID == "" || !p.pendingAt.Equal(armedAt) {
		return false
	}
	p.clearPending()
	return true
}

func (p *Products) clearPending() {
	p.pendingID = ""
	p.pendingAt = time.Time{}
}

// Page returns the page to load
func (p *Products) Page() int {
	return p.page
}

// PageSize returns the page size to load
func (p *Products) PageSize() int {
	return p.pageSize
}

// NextPage advances when another page is known or likely to exist
func (p *Products) NextPage() bool {
	if p.pagination != nil {
		if p.page >= p.pagination.TotalPages {
			return false
		}
	} else if len(p.items) < p.pageSize {
		return false
	}
	p.page++
	return true
}

// PrevPage goes back one page
func (p *Products) PrevPage() bool {
	if p.page <= 1 {
		return false
	}
	p.page--
	return true
}

// Update forwards navigation keys to the table
func (p *Products) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return cmd
}

// View renders the table and the paging line
func (p *Products) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("Products (page %d)", p.page)))
	sb.WriteString("\n")

	if len(p.items) == 0 {
		sb.WriteString(styles.Subtitle.Render("No products found."))
		return sb.String()
	}

	sb.WriteString(p.table.View())
	sb.WriteString("\n")
	if pg := p.pagination; pg != nil {
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Page %d of %d • %d products", pg.PageNumber, pg.TotalPages, pg.TotalRecords)))
	} else {
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d products on this page", len(p.items))))
	}
	return sb.String()
}
