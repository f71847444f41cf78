// ABOUTME: Dashboard command showing catalog totals and the simulated widgets
// ABOUTME: Loads a sample page of products and summarizes it

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/dashboard"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/output"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/usecase"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show catalog totals",
	Long: `Show product count, low-stock count and inventory value computed from the
first page of up to 100 products.

Sales, orders, revenue and customer figures are simulated placeholders.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		exitCode := runDashboard(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(ctx context.Context, w io.Writer) int {
	d, code := setup(w)
	if d == nil {
		return code
	}
	if _, code := d.requireAuth(w); code != exitOK {
		return code
	}

	view := dashboard.NewService(usecase.NewListProducts(d.products), d.cfg.LowStockThreshold).Load(ctx)
	if err := output.Write(w, d.format, view, func() string { return formatDashboardHuman(view) }); err != nil {
		return d.fail(w, err)
	}
	switch {
	case view.Available:
	case view.Reauth:
		return exitNotAuthenticated
	default:
		return exitError
	}
	return exitOK
}

func formatDashboardHuman(v dashboard.View) string {
	var sb strings.Builder

	sb.WriteString("CATALOG\n")
	if v.Available {
		fmt.Fprintf(&sb, "  Products:         %d\n", v.Summary.TotalProducts)
		fmt.Fprintf(&sb, "  Low stock (<%d):  %d\n", v.Summary.Threshold, v.Summary.LowStock)
		fmt.Fprintf(&sb, "  Inventory value:  S/ %s\n", v.Summary.InventoryValue.StringFixed(2))
		if v.Summary.Truncated {
			fmt.Fprintf(&sb, "  (computed from the first %d products)\n", dashboard.SamplePageSize)
		}
	} else {
		fmt.Fprintf(&sb, "  Unavailable: %s\n", v.Message)
	}

	sb.WriteString("\nSIMULATED\n")
	for _, s := range v.Stats {
		value := s.Value.StringFixed(0)
		if s.Money {
			value = "S/ " + s.Value.StringFixed(2)
		}
		fmt.Fprintf(&sb, "  %-10s %12s  +%d%%\n", s.Label, value, s.Growth)
	}

	top := dashboard.MaxSales(v.Sales)
	for _, p := range v.Sales {
		width := 0
		if top > 0 {
			width = p.Sales * 30 / top
		}
		fmt.Fprintf(&sb, "  %-3s %s %d\n", p.Month, strings.Repeat("█", width), p.Sales)
	}

	return strings.TrimRight(sb.String(), "\n")
}
