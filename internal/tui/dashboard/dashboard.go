// ABOUTME: Dashboard screen showing catalog totals and the simulated sales widgets
// ABOUTME: Renders a loaded dashboard view with metric blocks and charts

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	catalog "github.com/AronOmarPizarroCahuana/Siria-Admin/internal/dashboard"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/icons"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/styles"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/widgets"
)

// Dashboard displays catalog metrics
type Dashboard struct {
	view   *catalog.View
	width  int
	height int
}

// New creates an empty dashboard
func New(width, height int) *Dashboard {
	return &Dashboard{width: width, height: height}
}

// SetView replaces the data shown
func (d *Dashboard) SetView(v catalog.View) {
	d.view = &v
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.view == nil {
		return styles.Subtitle.Render("Loading catalog data...")
	}
	v := d.view

	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Catalog"))
	sb.WriteString("\n")

	if v.Available {
		sb.WriteString(d.catalogBlocks(v.Summary))
		if v.Summary.Truncated {
			sb.WriteString("\n")
			sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Computed from the first %d products", catalog.SamplePageSize)))
		}
	} else {
		sb.WriteString(widgets.StatusText("Catalog unavailable: "+v.Message, widgets.StatusCritical))
	}
	sb.WriteString("\n\n")

	sb.WriteString(styles.Title.Render("Sales") + " " + widgets.Badge("SIMULATED", widgets.StatusNeutral))
	sb.WriteString("\n")
	sb.WriteString(d.simulatedBlocks(v.Stats, v.Sales))
	sb.WriteString("\n\n")
	sb.WriteString(salesChart(v.Sales))

	return lipgloss.NewStyle().
		Width(d.width).
		MaxHeight(max(d.height, 1)).
		Render(sb.String())
}

func (d *Dashboard) catalogBlocks(s catalog.Summary) string {
	cfg := widgets.DefaultMetricBlockConfig()

	share := 0.0
	if s.TotalProducts > 0 {
		share = float64(s.LowStock) * 100 / float64(s.TotalProducts)
	}
	lowColor := styles.Secondary
	if s.LowStock > 0 {
		lowColor = styles.Warning
	}

	blocks := []string{
		widgets.CountBlock(icons.Product, "Products", s.TotalProducts, "in catalog", cfg),
		widgets.MetricBlockWithBar(icons.Stock, "Low stock", fmt.Sprintf("%d  (<%d units)", s.LowStock, s.Threshold), share, lowColor, cfg),
		widgets.MetricBlock(icons.Money, "Inventory", "S/ "+s.InventoryValue.StringFixed(2), "price × stock", cfg),
	}
	return d.arrange(blocks)
}

func (d *Dashboard) simulatedBlocks(stats []catalog.Stat, sales []catalog.SalesPoint) string {
	cfg := widgets.DefaultMetricBlockConfig()

	series := make([]float64, len(sales))
	for i, p := range sales {
		series[i] = float64(p.Sales)
	}

	blocks := make([]string, 0, len(stats))
	for _, s := range stats {
		growth := widgets.GrowthBadge(s.Growth)
		switch {
		case s.Money:
			blocks = append(blocks, widgets.MetricBlockWithSparkline(icons.Money, s.Label, "S/ "+s.Value.StringFixed(2), series, "vs last month", cfg)+"\n"+growth)
		case s.Label == "Orders":
			blocks = append(blocks, widgets.MetricBlock(icons.Orders, s.Label, s.Value.StringFixed(0), "vs last month", cfg)+"\n"+growth)
		default:
			blocks = append(blocks, widgets.MetricBlock(icons.User, s.Label, s.Value.StringFixed(0), "vs last month", cfg)+"\n"+growth)
		}
	}
	return d.arrange(blocks)
}

// arrange lays blocks side by side, or stacked when the terminal is narrow
func (d *Dashboard) arrange(blocks []string) string {
	total := 0
	for _, b := range blocks {
		total += lipgloss.Width(b) + 1
	}
	if d.width > 0 && total > d.width {
		return lipgloss.JoinVertical(lipgloss.Left, blocks...)
	}
	spaced := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 {
			spaced = append(spaced, " ")
		}
		spaced = append(spaced, b)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
}

func salesChart(sales []catalog.SalesPoint) string {
	labels := make([]string, len(sales))
	values := make([]int, len(sales))
	for i, p := range sales {
		labels[i] = p.Month
		values[i] = p.Sales
	}
	return icons.Chart.String() + " Monthly sales\n" + widgets.BarChart(labels, values, 5, styles.Primary)
}
