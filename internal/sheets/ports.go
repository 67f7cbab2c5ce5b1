// Package sheets defines the outbound port for the export sheet the sync
// worker writes to.
package sheets

import (
	"context"

	"fintrack/internal/export"
)

// RowAppender appends one shaped transaction row to the downstream sheet
// and returns an opaque reference to the written row.
type RowAppender interface {
	AppendRow(ctx context.Context, row export.Row) (rowRef string, err error)
}
