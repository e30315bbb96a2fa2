package sheets

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is an in-memory Store used by tests and local development runs
// that have no spreadsheet to talk to.
type MemStore struct {
	mu     sync.RWMutex
	order  []string
	tables map[string][][]string // first row is the header
}

func NewMemStore() *MemStore {
	return &MemStore{tables: make(map[string][][]string)}
}

// Seed installs a table with the given header and data rows, replacing any
// existing table of that name.
func (m *MemStore) Seed(table string, header []string, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table]; !ok {
		m.order = append(m.order, table)
	}
	all := [][]string{append([]string(nil), header...)}
	for _, r := range rows {
		all = append(all, append([]string(nil), r...))
	}
	m.tables[table] = all
}

func (m *MemStore) lookup(table string) ([][]string, string, error) {
	if table == "" {
		if len(m.order) == 0 {
			return nil, "", ErrTableNotFound
		}
		table = m.order[0]
	}
	rows, ok := m.tables[table]
	if !ok {
		return nil, table, ErrTableNotFound
	}
	return rows, table, nil
}

func (m *MemStore) Header(_ context.Context, table string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, _, err := m.lookup(table)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return append([]string(nil), rows[0]...), nil
}

func (m *MemStore) Rows(_ context.Context, table string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, _, err := m.lookup(table)
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	out := make([][]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		out = append(out, append([]string(nil), r...))
	}
	return out, nil
}

func (m *MemStore) Append(_ context.Context, table string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, name, err := m.lookup(table)
	if err != nil {
		return err
	}
	m.tables[name] = append(m.tables[name], append([]string(nil), row...))
	return nil
}

func (m *MemStore) UpdateCell(_ context.Context, table string, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, name, err := m.lookup(table)
	if err != nil {
		return err
	}
	dataRow := row + 1 // skip header
	if dataRow < 1 || dataRow >= len(rows) {
		return fmt.Errorf("row %d out of range in table %q", row, table)
	}
	for len(rows[dataRow]) <= col {
		rows[dataRow] = append(rows[dataRow], "")
	}
	rows[dataRow][col] = value
	m.tables[name] = rows
	return nil
}

func (m *MemStore) Create(_ context.Context, table string, header []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table]; ok {
		return fmt.Errorf("table %q already exists", table)
	}
	m.order = append(m.order, table)
	m.tables[table] = [][]string{append([]string(nil), header...)}
	return nil
}
