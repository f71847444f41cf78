// ABOUTME: Launches the interactive terminal interface
// ABOUTME: Logs are redirected to debug.log in the config directory while it runs

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/dashboard"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/tui/debuglog"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/usecase"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive interface",
	Long: `Start the interactive interface with login, dashboard and product screens.

Diagnostic logs are written to debug.log in SIRIA_CONFIG_DIR.`,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runTUI(os.Stderr)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// newServices wires the use cases the TUI drives
func newServices(d *deps) tui.Services {
	list := usecase.NewListProducts(d.products)
	return tui.Services{
		Login:     usecase.NewLogin(d.auth, d.session),
		Logout:    usecase.NewLogout(d.session),
		List:      list,
		Create:    usecase.NewCreateProduct(d.products),
		Update:    usecase.NewUpdateProduct(d.products),
		Delete:    usecase.NewDeleteProduct(d.products),
		Dashboard: dashboard.NewService(list, d.cfg.LowStockThreshold),
		Guard:     d.guard,
		PageSize:  d.cfg.PageSize,
		LowStock:  d.cfg.LowStockThreshold,
	}
}

func runTUI(w io.Writer) int {
	d, code := setup(w)
	if d == nil {
		return code
	}

	if err := debuglog.Init(d.cfg.ConfigDir); err != nil {
		fmt.Fprintf(w, "Warning: debug log disabled: %v\n", err)
	}
	defer debuglog.Close()

	if err := tui.Run(newServices(d)); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}
