package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/swaroop-public12/dresscatalogue/internal/models"
	"github.com/swaroop-public12/dresscatalogue/internal/sheets"
)

// Columns is the canonical catalogue schema. The worksheet's header row
// stays authoritative for order; these names are what LoadAll expects and
// what Append/UpdateByID are allowed to write.
var Columns = []string{"id", "name", "price", "discount", "expected_price", "image_url", "sold", "likes"}

// soldTokens are the cell values that count as "sold", compared
// case-insensitively.
var soldTokens = map[string]bool{"true": true, "yes": true, "y": true, "1": true}

// Adapter reads and writes the catalogue worksheet.
type Adapter struct {
	store sheets.Store
	table string
}

func NewAdapter(store sheets.Store, table string) *Adapter {
	return &Adapter{store: store, table: table}
}

// resolve falls back to the spreadsheet's first worksheet when the named
// catalogue table does not exist.
func (a *Adapter) resolve(ctx context.Context) (string, error) {
	if _, err := a.store.Header(ctx, a.table); err != nil {
		if errors.Is(err, sheets.ErrTableNotFound) {
			return "", nil
		}
		return "", err
	}
	return a.table, nil
}

// LoadAll returns every catalogue row, normalized: sold becomes a strict
// bool, likes a non-negative int, prices numbers. Cells missing from the
// remote schema read as empty.
func (a *Adapter) LoadAll(ctx context.Context) ([]models.CatalogueItem, error) {
	table, err := a.resolve(ctx)
	if err != nil {
		return nil, err
	}
	header, err := a.store.Header(ctx, table)
	if err != nil {
		return nil, err
	}
	rows, err := a.store.Rows(ctx, table)
	if err != nil {
		return nil, err
	}

	col := columnIndex(header)
	items := make([]models.CatalogueItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.CatalogueItem{
			ID:            strings.TrimSpace(cell(row, col, "id")),
			Name:          cell(row, col, "name"),
			Price:         parseFloat(cell(row, col, "price")),
			Discount:      parseFloat(cell(row, col, "discount")),
			ExpectedPrice: int64(parseFloat(cell(row, col, "expected_price"))),
			ImageURL:      strings.TrimSpace(cell(row, col, "image_url")),
			Sold:          soldTokens[strings.ToLower(strings.TrimSpace(cell(row, col, "sold")))],
			Likes:         parseLikes(cell(row, col, "likes")),
		})
	}
	return items, nil
}

// Append writes one row, mapping fields onto the worksheet's header order.
// Field names not present in the header are dropped; header columns absent
// from fields are written empty.
func (a *Adapter) Append(ctx context.Context, fields map[string]string) error {
	table, err := a.resolve(ctx)
	if err != nil {
		return err
	}
	header, err := a.store.Header(ctx, table)
	if err != nil {
		return err
	}
	row := make([]string, len(header))
	for i, name := range header {
		row[i] = fields[name]
	}
	return a.store.Append(ctx, table, row)
}

// UpdateByID updates the first row whose id cell equals id. Only fields
// named in the header are written, one cell at a time. Returns false when
// no row matches; that is not an error.
func (a *Adapter) UpdateByID(ctx context.Context, id string, fields map[string]string) (bool, error) {
	table, err := a.resolve(ctx)
	if err != nil {
		return false, err
	}
	header, err := a.store.Header(ctx, table)
	if err != nil {
		return false, err
	}
	col := columnIndex(header)
	idCol, ok := col["id"]
	if !ok {
		return false, nil
	}
	rows, err := a.store.Rows(ctx, table)
	if err != nil {
		return false, err
	}
	for i, row := range rows {
		if len(row) <= idCol || strings.TrimSpace(row[idCol]) != id {
			continue
		}
		for name, value := range fields {
			c, ok := col[name]
			if !ok {
				continue
			}
			if err := a.store.UpdateCell(ctx, table, i, c, value); err != nil {
				return false, err
			}
		}
		return true, nil
	}
	return false, nil
}

// MaxID returns the largest numeric id in the catalogue, 0 when the table is
// empty or holds no numeric ids.
func (a *Adapter) MaxID(ctx context.Context) (int, error) {
	items, err := a.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, it := range items {
		if n, ok := it.NumericID(); ok && n > max {
			max = n
		}
	}
	return max, nil
}

// Like increments the likes counter of the item with the given id. Returns
// false when the id does not exist.
func (a *Adapter) Like(ctx context.Context, id string) (bool, error) {
	items, err := a.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it.ID == id {
			return a.UpdateByID(ctx, id, map[string]string{
				"likes": strconv.Itoa(it.Likes + 1),
			})
		}
	}
	return false, nil
}

func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	return col
}

func cell(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseLikes(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
