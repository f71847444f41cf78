// ABOUTME: Plain-terminal tables for product listings
// ABOUTME: Built with lipgloss/table using ASCII borders so output pipes cleanly

package output

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
)

// ProductTable renders products as a table with id, name, price and stock columns.
func ProductTable(products []domain.Product, lowStock int) string {
	if len(products) == 0 {
		return "No products found."
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		stock := strconv.Itoa(p.Stock)
		if p.Stock < lowStock {
			stock += " (low)"
		}
		rows = append(rows, []string{p.ID, p.Name, p.Price.StringFixed(2), stock})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "PRICE", "STOCK").
		Rows(rows...).
		String()
}

// PageFooter summarizes pagination, or "" when the API sent none.
func PageFooter(p *domain.Pagination) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("Page %d of %d (%d products)", p.PageNumber, p.TotalPages, p.TotalRecords)
}

// ProductDetail renders a single product as aligned key/value lines.
func ProductDetail(p domain.Product) string {
	image := p.ImageURL
	if image == "" {
		image = "-"
	}
	desc := p.Description
	if desc == "" {
		desc = "-"
	}
	return fmt.Sprintf(`ID:          %s
Name:        %s
Description: %s
Price:       %s
Stock:       %d
Image:       %s`, p.ID, p.Name, desc, p.Price.StringFixed(2), p.Stock, image)
}
