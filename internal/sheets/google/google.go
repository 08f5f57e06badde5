// Package google implements the sheets.RangeClient against the Google
// Sheets API. Each Client instance is bound to one spreadsheet id; callers
// hold one client per logical session instead of sharing a process-wide
// handle.
package google

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"bizbook/internal/sheets"
	"bizbook/internal/token"
)

type Client struct {
	exec          *sheets.Executor
	spreadsheetID string
}

var _ sheets.RangeClient = (*Client)(nil)

// New creates an unbound client. Bind it to a spreadsheet with For before
// issuing range operations.
func New(exec *sheets.Executor) *Client {
	return &Client{exec: exec}
}

// For returns a client bound to the given spreadsheet id. The receiver is
// not modified, so concurrent sessions can target different spreadsheets.
func (c *Client) For(spreadsheetID string) *Client {
	return &Client{exec: c.exec, spreadsheetID: strings.TrimSpace(spreadsheetID)}
}

// SpreadsheetID returns the bound spreadsheet id, empty when unbound.
func (c *Client) SpreadsheetID() string {
	return c.spreadsheetID
}

// service builds a Sheets API handle for one access token. The handle is
// rebuilt per call so a token swapped in by the executor's retry is used
// immediately.
func (c *Client) service(ctx context.Context, tok token.Token) (*gsheet.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok.Value, TokenType: "Bearer"})
	svc, err := gsheet.NewService(ctx, goption.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return svc, nil
}

func (c *Client) Read(ctx context.Context, rng string) ([][]string, error) {
	if c.spreadsheetID == "" {
		return nil, sheets.ErrNoActiveSheet
	}
	var out [][]string
	err := c.exec.Do(ctx, func(ctx context.Context, tok token.Token) error {
		svc, err := c.service(ctx, tok)
		if err != nil {
			return err
		}
		resp, err := svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("read %s: %w", rng, err)
		}
		out = toRows(resp.Values)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = [][]string{}
	}
	return out, nil
}

func (c *Client) Append(ctx context.Context, rng string, row []string) error {
	if c.spreadsheetID == "" {
		return sheets.ErrNoActiveSheet
	}
	return c.exec.Do(ctx, func(ctx context.Context, tok token.Token) error {
		svc, err := c.service(ctx, tok)
		if err != nil {
			return err
		}
		vr := &gsheet.ValueRange{Values: [][]any{toCells(row)}}
		_, err = svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
			ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("append %s: %w", rng, err)
		}
		return nil
	})
}

func (c *Client) Update(ctx context.Context, rng string, row []string) error {
	if c.spreadsheetID == "" {
		return sheets.ErrNoActiveSheet
	}
	return c.exec.Do(ctx, func(ctx context.Context, tok token.Token) error {
		svc, err := c.service(ctx, tok)
		if err != nil {
			return err
		}
		vr := &gsheet.ValueRange{Values: [][]any{toCells(row)}}
		_, err = svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
			ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("update %s: %w", rng, err)
		}
		return nil
	})
}

func (c *Client) Clear(ctx context.Context, rng string) error {
	if c.spreadsheetID == "" {
		return sheets.ErrNoActiveSheet
	}
	return c.exec.Do(ctx, func(ctx context.Context, tok token.Token) error {
		svc, err := c.service(ctx, tok)
		if err != nil {
			return err
		}
		_, err = svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("clear %s: %w", rng, err)
		}
		return nil
	})
}

func toRows(values [][]any) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = strings.TrimSpace(fmt.Sprint(v))
		}
		out[i] = cells
	}
	return out
}

func toCells(row []string) []any {
	cells := make([]any, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
