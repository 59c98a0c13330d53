// internal/service/export_test.go
package service

import (
	"bytes"
	"testing"
	"time"

	"customer-portal/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteTransactionsXLSX(t *testing.T) {
	verified := domain.NewTransaction("user-0000000001", decimal.NewFromInt(250), "USD", "Acme", "400500600700", "ABCDEF12", "Bob", "rent")
	now := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, verified.Verify(now))
	require.NoError(t, verified.Submit(now))
	pending := domain.NewTransaction("user-0000000002", decimal.RequireFromString("10.5"), "EUR", "Acme", "400500600701", "ABCDEF13", "", "")

	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsXLSX(&buf, []domain.Transaction{*verified, *pending}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])

	assert.Equal(t, verified.ID, rows[1][0])
	assert.Equal(t, "250.00", rows[1][2])
	assert.Equal(t, "submitted", rows[1][9])
	assert.Equal(t, "2026-05-01T09:30:00Z", rows[1][12])

	assert.Equal(t, "10.50", rows[2][2])
	assert.Equal(t, "pending", rows[2][9])

	for _, c := range exportColumnWidths {
		for _, col := range []string{c.from, c.to} {
			width, err := f.GetColWidth(exportSheet, col)
			require.NoError(t, err)
			assert.Equal(t, c.width, width, "column %s", col)
		}
	}
}
