// internal/service/export.go
package service

import (
	"fmt"
	"io"
	"time"

	"customer-portal/internal/domain"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Transactions"

var exportHeaders = []string{
	"ID", "User ID", "Amount", "Currency", "Provider", "Payee Account", "SWIFT",
	"Payee Name", "Description", "Status", "Created At", "Verified At", "Submitted At",
}

var exportColumnWidths = []struct {
	from, to string
	width    float64
}{
	{"A", "B", 38},
	{"C", "D", 12},
	{"E", "I", 24},
	{"J", "J", 12},
	{"K", "M", 22},
}

// WriteTransactionsXLSX writes transactions as a single-sheet workbook.
func WriteTransactionsXLSX(w io.Writer, transactions []domain.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("export: name sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for i, t := range transactions {
		row := []interface{}{
			t.ID, t.UserID, t.Amount, t.Currency, t.Provider, t.PayeeAccount, t.SWIFT,
			t.PayeeName, t.Description, string(t.Status),
			formatTime(&t.CreatedAt), formatTime(t.VerifiedAt), formatTime(t.SubmittedToSWIFTAt),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("export: write row %d: %w", i+2, err)
		}
	}

	for _, c := range exportColumnWidths {
		if err := f.SetColWidth(exportSheet, c.from, c.to, c.width); err != nil {
			return fmt.Errorf("export: set width %s:%s: %w", c.from, c.to, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
