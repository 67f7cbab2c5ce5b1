// Package export shapes transaction lists into deterministic tabular rows
// for a downstream file writer. It never touches files itself.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"fintrack/internal/core"
)

// DescriptionPlaceholder fills the description column when a transaction
// has none, so every cell in the export is populated.
const DescriptionPlaceholder = "-"

// Row is one export line in fixed column order, matching the on-screen
// table: description, category, date, amount, type.
type Row struct {
	Description string
	Category    string
	Date        string
	Amount      string
	Type        string
}

// Header returns the column titles in row order.
func Header() []string {
	return []string{"Description", "Category", "Date", "Amount", "Type"}
}

// Strings returns the row's cells in column order.
func (r Row) Strings() []string {
	return []string{r.Description, r.Category, r.Date, r.Amount, r.Type}
}

// FromTransaction shapes a single transaction into its export row. Amounts
// are exact decimal strings; dangling categories render as uncategorized.
func FromTransaction(t core.Transaction) Row {
	description := t.Description
	if description == "" {
		description = DescriptionPlaceholder
	}
	category := t.CategoryName
	if category == "" {
		category = core.UncategorizedLabel
	}
	return Row{
		Description: description,
		Category:    category,
		Date:        t.Date.String(),
		Amount:      core.FormatCents(t.Amount.Cents),
		Type:        string(t.Type),
	}
}

// Rows shapes a transaction list, preserving its order.
func Rows(transactions []core.Transaction) []Row {
	rows := make([]Row, len(transactions))
	for i, t := range transactions {
		rows[i] = FromTransaction(t)
	}
	return rows
}

// WriteCSV renders header plus rows as RFC 4180 CSV. Fields containing the
// delimiter or quotes are quoted with doubled embedded quotes, losslessly.
func WriteCSV(w io.Writer, transactions []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range Rows(transactions) {
		if err := cw.Write(row.Strings()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
