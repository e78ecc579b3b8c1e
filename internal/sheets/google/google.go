package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"findash/internal/core"
	flog "findash/internal/log"
	ports "findash/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// rowIndexTTL bounds how long the id-to-row map is trusted. Rows edited by
// hand in the spreadsheet are picked up after it expires.
const rowIndexTTL = time.Minute

// Config selects the spreadsheet and the credentials used to reach it.
type Config struct {
	SpreadsheetID string
	SheetName     string
	// CredentialsJSON takes precedence over CredentialsFile.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string

	mu    sync.Mutex
	index *rowIndex
}

// Ensure interface conformance
var _ ports.LedgerMirror = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newClient(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

func newClient(svc *gsheet.Service, spreadsheetID, sheet string) *Client {
	if strings.TrimSpace(sheet) == "" {
		sheet = "Ledger"
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet}
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Falls back to GOOGLE_APPLICATION_CREDENTIALS when no credentials are configured.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	credentialsFile := strings.TrimSpace(cfg.CredentialsFile)
	if cfg.CredentialsJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case cfg.CredentialsJSON != "":
		logger().InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case credentialsFile != "":
		logger().InfoContext(ctx, "Reading credentials from file", "path", credentialsFile)
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	logger().InfoContext(ctx, "Google Sheets service created successfully")
	return service, nil
}

// Upsert writes t into its existing row, or appends a new row.
func (c *Client) Upsert(ctx context.Context, t core.Transaction) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx, err := c.rows(ctx)
	if err != nil {
		return err
	}

	row, exists := idx.rows[t.ID]
	if !exists {
		row = idx.next
	}

	rng := fmt.Sprintf("%s!A%d:%s%d", c.sheet, row, lastColumn, row)
	vr := &gsheet.ValueRange{Values: [][]any{rowValues(t)}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		c.index = nil
		return fmt.Errorf("update %s: %w", rng, err)
	}

	if !exists {
		idx.rows[t.ID] = row
		idx.next++
	}
	logger().DebugContext(ctx, "Mirrored transaction", "id", t.ID, "range", rng)
	return nil
}

// Remove clears the row holding id. The emptied row is reused by ReplaceAll.
func (c *Client) Remove(ctx context.Context, id string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx, err := c.rows(ctx)
	if err != nil {
		return err
	}
	row, ok := idx.rows[id]
	if !ok {
		return nil
	}

	rng := fmt.Sprintf("%s!A%d:%s%d", c.sheet, row, lastColumn, row)
	_, err = c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		c.index = nil
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	delete(idx.rows, id)
	return nil
}

// ReplaceAll clears the sheet and writes the header followed by txs.
func (c *Client) ReplaceAll(ctx context.Context, txs []core.Transaction) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = nil

	clearRng := fmt.Sprintf("%s!A:%s", c.sheet, lastColumn)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRng, err)
	}

	values := make([][]any, 0, len(txs)+1)
	values = append(values, headerValues())
	for _, t := range txs {
		values = append(values, rowValues(t))
	}
	rng := fmt.Sprintf("%s!A1:%s%d", c.sheet, lastColumn, len(values))
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}

	logger().InfoContext(ctx, "Rewrote ledger sheet", "sheet", c.sheet, "rows", len(txs))
	return nil
}

// rows returns the cached row index, reading column A when it is stale.
// Callers hold c.mu.
func (c *Client) rows(ctx context.Context) (*rowIndex, error) {
	if c.index.valid(time.Now()) {
		return c.index, nil
	}
	rng := fmt.Sprintf("%s!A:A", c.sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	c.index = buildRowIndex(resp.Values, time.Now())
	return c.index, nil
}

func logger() *slog.Logger {
	return slog.Default().With(flog.FieldComponent, flog.ComponentSheets)
}
