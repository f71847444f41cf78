// ABOUTME: products command group: list, get, create, update and delete
// ABOUTME: Form flags go through the same validation as the interactive form

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/output"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/productform"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/usecase"
)

const refreshNote = "Note: the server did not return the saved product; run 'siria-admin products list' to see its final state."

var (
	listPage     int
	listPageSize int
	deleteYes    bool
	formValues   productform.Values
)

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"product", "p"},
	Short:   "Manage catalog products",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of products",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		exitCode := runProductsList(ctx, os.Stdout, listPage, listPageSize)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var productsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		exitCode := runProductsGet(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var productsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	Example: `  siria-admin products create --name "Paracetamol 500mg" --price 4.50 --stock 120
  siria-admin products create --name Ibuprofeno --price 6 --image-url https://cdn.example/ibu.png`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		exitCode := runProductsCreate(ctx, os.Stdout, formValues)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a product",
	Long: `Update a product. Only the flags given are changed; the remaining
fields keep the values currently stored by the backend.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		exitCode := runProductsUpdate(ctx, os.Stdout, args[0], changedFormFields(cmd.Flags()))
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Long: `Delete a product. The deletion must be confirmed, either interactively
or with --yes.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		confirmed := deleteYes
		if !confirmed && term.IsTerminal(int(os.Stdin.Fd())) {
			confirmed = confirmDelete(args[0])
		}

		exitCode := runProductsDelete(ctx, os.Stdout, args[0], confirmed)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	productsListCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	productsListCmd.Flags().IntVar(&listPageSize, "page-size", 0, "Products per page (default from SIRIA_PAGE_SIZE)")

	for _, c := range []*cobra.Command{productsCreateCmd, productsUpdateCmd} {
		c.Flags().StringVar(&formValues.Name, "name", "", "Product name")
		c.Flags().StringVar(&formValues.Description, "description", "", "Description")
		c.Flags().StringVar(&formValues.Price, "price", "", "Price, e.g. 12.50")
		c.Flags().StringVar(&formValues.Stock, "stock", "", "Units in stock")
		c.Flags().StringVar(&formValues.ImageURL, "image-url", "", "Image URL")
	}

	productsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Confirm the deletion")

	productsCmd.AddCommand(productsListCmd, productsGetCmd, productsCreateCmd, productsUpdateCmd, productsDeleteCmd)
	rootCmd.AddCommand(productsCmd)
}

// changedFormFields returns the product flags the user actually set, keyed by form field.
func changedFormFields(flags *pflag.FlagSet) map[string]string {
	changes := map[string]string{}
	flags.Visit(func(f *pflag.Flag) {
		name := strings.ReplaceAll(f.Name, "-", "_")
		switch name {
		case "name", "description", "price", "stock", "image_url":
			changes[name] = f.Value.String()
		}
	})
	return changes
}

func confirmDelete(id string) bool {
	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete product %s?", id)).
		Description("This cannot be undone.").
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	return err == nil && ok
}

func runProductsList(ctx context.Context, w io.Writer, page, pageSize int) int {
	d, code := setup(w)
	if d == nil {
		return code
	}
	if _, code := d.requireAuth(w); code != exitOK {
		return code
	}
	if pageSize == 0 {
		pageSize = d.cfg.PageSize
	}

	res := usecase.NewListProducts(d.products).Execute(ctx, page, pageSize)
	if !res.Message.Status {
		code := exitError
		switch {
		case res.Reauth:
			code = exitNotAuthenticated
		case page < 1 || pageSize < 1:
			code = exitUsage
		}
		output.WriteError(w, d.format, res.Message.Message, code)
		return code
	}

	if err := output.Write(w, d.format, res.Payload, func() string {
		return formatProductPageHuman(res.Payload, d.cfg.LowStockThreshold)
	}); err != nil {
		return d.fail(w, err)
	}
	return exitOK
}

func formatProductPageHuman(page domain.ProductPage, lowStock int) string {
	s := output.ProductTable(page.Items, lowStock)
	if footer := output.PageFooter(page.Pagination); footer != "" {
		s += "\n" + footer
	}
	return s
}

func runProductsGet(ctx context.Context, w io.Writer, id string) int {
	d, code := setup(w)
	if d == nil {
		return code
	}
	if _, code := d.requireAuth(w); code != exitOK {
		return code
	}

	res, err := usecase.NewGetProduct(d.products).Execute(ctx, id)
	if err != nil {
		return d.fail(w, err)
	}
	if err := output.Write(w, d.format, res.Payload, func() string {
		return output.ProductDetail(res.Payload)
	}); err != nil {
		return d.fail(w, err)
	}
	return exitOK
}

func runProductsCreate(ctx context.Context, w io.Writer, values productform.Values) int {
	d, code := setup(w)
	if d == nil {
		return code
	}
	if _, code := d.requireAuth(w); code != exitOK {
		return code
	}

	input, err := productform.Parse(values)
	if err != nil {
		return d.fail(w, err)
	}
	res, err := usecase.NewCreateProduct(d.products).Execute(ctx, input)
	if err != nil {
		return d.fail(w, err)
	}
	return d.writeSaved(w, res)
}

// runProductsUpdate loads the product and applies changes (form field -> raw value) on top.
func runProductsUpdate(ctx context.Context, w io.Writer, id string, changes map[string]string) int {
	d, code := setup(w)
	if d == nil {
		return code
	}
	if _, code := d.requireAuth(w); code != exitOK {
		return code
	}
	if len(changes) == 0 {
		output.WriteError(w, d.format, "nothing to update, pass at least one field flag", exitUsage)
		return exitUsage
	}

	current, err := usecase.NewGetProduct(d.products).Execute(ctx, id)
	if err != nil {
		return d.fail(w, err)
	}
	values := applyChanges(productform.FromProduct(current.Payload), changes)

	input, err := productform.Parse(values)
	if err != nil {
		return d.fail(w, err)
	}
	res, err := usecase.NewUpdateProduct(d.products).Execute(ctx, id, input)
	if err != nil {
		return d.fail(w, err)
	}
	return d.writeSaved(w, res)
}

func applyChanges(v productform.Values, changes map[string]string) productform.Values {
	for field, value := range changes {
		switch field {
		case "name":
			v.Name = value
		case "description":
			v.Description = value
		case "price":
			v.Price = value
		case "stock":
			v.Stock = value
		case "image_url":
			v.ImageURL = value
		}
	}
	return v
}

func (d *deps) writeSaved(w io.Writer, res domain.Result[domain.Product]) int {
	if err := output.Write(w, d.format, res, func() string {
		s := output.Capitalize(res.Message.Message) + "\n" + output.ProductDetail(res.Payload)
		if res.NeedsRefresh {
			s += "\n" + refreshNote
		}
		return s
	}); err != nil {
		return d.fail(w, err)
	}
	return exitOK
}

func runProductsDelete(ctx context.Context, w io.Writer, id string, confirmed bool) int {
	d, code := setup(w)
	if d == nil {
		return code
	}
	if _, code := d.requireAuth(w); code != exitOK {
		return code
	}
	if !confirmed {
		output.WriteError(w, d.format, fmt.Sprintf("refusing to delete %s without confirmation, pass --yes", id), exitUsage)
		return exitUsage
	}

	msg, err := usecase.NewDeleteProduct(d.products).Execute(ctx, id)
	if err != nil {
		return d.fail(w, err)
	}
	if err := output.Write(w, d.format, msg, func() string { return output.Capitalize(msg.Message) }); err != nil {
		return d.fail(w, err)
	}
	return exitOK
}
