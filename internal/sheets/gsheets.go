package sheets

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client talks to a single Google spreadsheet through the Sheets API.
// It satisfies Store.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string

	mu         sync.Mutex
	firstTitle string // cached title of the first worksheet
}

// NewClient opens the spreadsheet using a service-account credentials file,
// the same access model the catalogue sheet is shared with.
func NewClient(ctx context.Context, spreadsheetID, credentialsFile string) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// resolve maps the empty table name to the first worksheet's title.
func (c *Client) resolve(ctx context.Context, table string) (string, error) {
	if table != "" {
		return table, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.firstTitle != "" {
		return c.firstTitle, nil
	}
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get spreadsheet: %w", err)
	}
	if len(ss.Sheets) == 0 {
		return "", ErrTableNotFound
	}
	c.firstTitle = ss.Sheets[0].Properties.Title
	return c.firstTitle, nil
}

func (c *Client) values(ctx context.Context, table, cells string) ([][]string, error) {
	title, err := c.resolve(ctx, table)
	if err != nil {
		return nil, err
	}
	rng := fmt.Sprintf("'%s'!%s", title, cells)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError(err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *Client) Header(ctx context.Context, table string) ([]string, error) {
	rows, err := c.values(ctx, table, "1:1")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (c *Client) Rows(ctx context.Context, table string) ([][]string, error) {
	rows, err := c.values(ctx, table, "A1:ZZ")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

func (c *Client) Append(ctx context.Context, table string, row []string) error {
	title, err := c.resolve(ctx, table)
	if err != nil {
		return err
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(row)}}
	_, err = c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, fmt.Sprintf("'%s'!A1", title), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return mapAPIError(err)
	}
	return nil
}

func (c *Client) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	title, err := c.resolve(ctx, table)
	if err != nil {
		return err
	}
	// Data row 0 lives on sheet row 2, below the header.
	cell := fmt.Sprintf("'%s'!%s%d", title, columnName(col), row+2)
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err = c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, cell, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return mapAPIError(err)
	}
	return nil
}

func (c *Client) Create(ctx context.Context, table string, header []string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: table},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %q: %w", table, err)
	}
	if len(header) == 0 {
		return nil
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(header)}}
	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, fmt.Sprintf("'%s'!A1", table), vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header of %q: %w", table, err)
	}
	return nil
}

// mapAPIError normalizes the API's "no such worksheet" responses. The Sheets
// API reports an unknown sheet name in a range as a 400 parse error.
func mapAPIError(err error) error {
	if gerr, ok := err.(*googleapi.Error); ok {
		if gerr.Code == http.StatusBadRequest || gerr.Code == http.StatusNotFound {
			return ErrTableNotFound
		}
	}
	return err
}

func toInterfaces(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

// columnName converts a zero-based column index to A1 letters (0 -> A,
// 25 -> Z, 26 -> AA).
func columnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}
