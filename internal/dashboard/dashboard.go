// ABOUTME: Dashboard figures: real catalog counts plus labelled placeholder series
// ABOUTME: Counts come from the first 100 products; sales and customers are simulated

package dashboard

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
)

// SamplePageSize is how many products the dashboard looks at.
const SamplePageSize = 100

// DefaultLowStockThreshold counts products with fewer units as low stock.
const DefaultLowStockThreshold = 10

// Summary holds the figures computed from real catalog data.
type Summary struct {
	TotalProducts  int             `json:"total_products" yaml:"total_products"`
	LowStock       int             `json:"low_stock" yaml:"low_stock"`
	Threshold      int             `json:"low_stock_threshold" yaml:"low_stock_threshold"`
	InventoryValue decimal.Decimal `json:"inventory_value" yaml:"inventory_value"`
	// Truncated is set when the catalog has more products than were sampled.
	Truncated bool `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// Summarize counts products and those with stock below threshold.
func Summarize(products []domain.Product, threshold int) Summary {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	s := Summary{TotalProducts: len(products), Threshold: threshold, InventoryValue: decimal.Zero}
	for _, p := range products {
		if p.Stock < threshold {
			s.LowStock++
		}
		s.InventoryValue = s.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return s
}

// SalesPoint is one bar of the simulated sales chart.
type SalesPoint struct {
	Month string `json:"month" yaml:"month"`
	Sales int    `json:"sales" yaml:"sales"`
}

// Stat is one simulated counter with its month-over-month change.
type Stat struct {
	Label  string          `json:"label" yaml:"label"`
	Value  decimal.Decimal `json:"value" yaml:"value"`
	Growth int             `json:"growth_percent" yaml:"growth_percent"`
	Money  bool            `json:"money,omitempty" yaml:"money,omitempty"`
}

// SimulatedSales returns the fixed January to June series.
func SimulatedSales() []SalesPoint {
	return []SalesPoint{
		{Month: "Jan", Sales: 45},
		{Month: "Feb", Sales: 52},
		{Month: "Mar", Sales: 48},
		{Month: "Apr", Sales: 61},
		{Month: "May", Sales: 55},
		{Month: "Jun", Sales: 67},
	}
}

// SimulatedStats returns the fixed customer, order and revenue counters.
func SimulatedStats() []Stat {
	return []Stat{
		{Label: "Customers", Value: decimal.NewFromInt(156), Growth: 12},
		{Label: "Orders", Value: decimal.NewFromInt(1234), Growth: 8},
		{Label: "Revenue", Value: decimal.RequireFromString("45678.50"), Growth: 15, Money: true},
	}
}

// Lister loads a page of products.
type Lister interface {
	Execute(ctx context.Context, page, pageSize int) domain.Result[domain.ProductPage]
}

// View is everything the dashboard shows.
type View struct {
	Summary   Summary      `json:"summary" yaml:"summary"`
	Message   string       `json:"message,omitempty" yaml:"message,omitempty"`
	Available bool         `json:"available" yaml:"available"`
	Reauth    bool         `json:"reauth,omitempty" yaml:"reauth,omitempty"`
	Sales     []SalesPoint `json:"simulated_sales" yaml:"simulated_sales"`
	Stats     []Stat       `json:"simulated_stats" yaml:"simulated_stats"`
}

// Service builds the dashboard view.
type Service struct {
	list      Lister
	threshold int
}

// NewService creates a dashboard service; threshold <= 0 uses the default.
func NewService(list Lister, threshold int) *Service {
	return &Service{list: list, threshold: threshold}
}

// Load fetches the sample page. A failed load still returns the simulated
// widgets, with Available false and the failure message.
func (s *Service) Load(ctx context.Context) View {
	v := View{Sales: SimulatedSales(), Stats: SimulatedStats()}

	res := s.list.Execute(ctx, 1, SamplePageSize)
	if !res.Message.Status {
		v.Summary = Summarize(nil, s.threshold)
		v.Message = res.Message.Message
		v.Reauth = res.Reauth
		return v
	}

	v.Available = true
	v.Summary = Summarize(res.Payload.Items, s.threshold)
	if p := res.Payload.Pagination; p != nil && p.TotalRecords > len(res.Payload.Items) {
		v.Summary.Truncated = true
	}
	return v
}

// MaxSales is the tallest bar of series, used to scale charts.
func MaxSales(series []SalesPoint) int {
	top := 0
	for _, p := range series {
		top = max(top, p.Sales)
	}
	return top
}
