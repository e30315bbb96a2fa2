package sheets

import (
	"context"
	"errors"
)

// ErrTableNotFound is returned when a named worksheet does not exist in the
// spreadsheet. Callers decide whether that is fatal: the catalogue falls back
// to the first worksheet, the admin directory treats it as "no accounts".
var ErrTableNotFound = errors.New("sheets: table not found")

// Store is the tabular collaborator behind the catalogue and the admin
// directory. An empty table name addresses the spreadsheet's first worksheet.
//
// Rows returns data rows only (everything below the header). UpdateCell
// addresses the data area: row 0 is the first row under the header, col 0 is
// the first column.
type Store interface {
	Header(ctx context.Context, table string) ([]string, error)
	Rows(ctx context.Context, table string) ([][]string, error)
	Append(ctx context.Context, table string, row []string) error
	UpdateCell(ctx context.Context, table string, row, col int, value string) error
	Create(ctx context.Context, table string, header []string) error
}
