package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const stockSheet = "Estoque"

var stockExportHeaders = []string{
	"Produto", "Categorias", "Marcas", "Entradas", "Saídas", "Saldo", "Unidade",
	"Valor médio (R$)", "Valor total (R$)", "Situação",
}

// ExportProductGroupsXLSX writes one spreadsheet row per product group.
func ExportProductGroupsXLSX(w io.Writer, groups []ProductGroup) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", stockSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(stockSheet, "A1", &stockExportHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(stockSheet, 1, 1, bold)
	}

	for i, g := range groups {
		status := "OK"
		if g.IsDeficit() {
			status = "Déficit"
		}
		row := []interface{}{
			g.Name,
			strings.Join(g.Categories, ", "),
			strings.Join(g.Brands, ", "),
			g.TotalEntries,
			g.TotalExits,
			g.NetQuantity,
			g.ReferenceUnit,
			g.AverageCost,
			g.TotalValue,
			status,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(stockSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(stockSheet, "A", "A", 30)
	_ = f.SetColWidth(stockSheet, "B", "C", 20)
	_ = f.SetColWidth(stockSheet, "D", "J", 14)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
