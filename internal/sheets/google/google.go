// Package google mirrors the ledger to a Google Sheets spreadsheet using
// Service Account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"nossosgastos/internal/core"
	ports "nossosgastos/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	ledgerSheet   string
}

var (
	_ ports.LedgerWriter  = (*Client)(nil)
	_ ports.LedgerDeleter = (*Client)(nil)
)

// New creates a Sheets client for the given spreadsheet and sheet name.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, ledgerSheet string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(ledgerSheet) == "" {
		ledgerSheet = "Transações"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   ledgerSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Append mirrors a ledger row to the bottom of the ledger sheet and returns
// the A1 reference of the written row.
func (c *Client) Append(ctx context.Context, t core.Transaction) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	installment := ""
	if t.IsInstallment {
		installment = fmt.Sprintf("%d/%d", t.InstallmentCurrent, t.InstallmentTotal)
	}

	vr := &gsheet.ValueRange{Values: [][]any{{
		t.ID,
		t.StatementDate.String(),
		string(t.Type),
		t.Description,
		t.Amount.Reais(),
		t.CategoryID,
		string(t.Person),
		t.CardID,
		installment,
		t.InstallmentGroupID,
	}}}

	rng := fmt.Sprintf("%s!A:J", c.ledgerSheet)
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.ledgerSheet, err)
	}

	rowRef := ""
	if resp.Updates != nil {
		rowRef = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Mirrored transaction to spreadsheet",
		"transaction_id", t.ID,
		"row_ref", rowRef)
	return rowRef, nil
}

// Delete clears the mirrored row whose first column matches the transaction
// id. The row itself is kept so later references stay stable.
func (c *Client) Delete(ctx context.Context, transactionID string) error {
	cleared, err := c.clearMatching(ctx, 0, transactionID)
	if err != nil {
		return err
	}
	if cleared == 0 {
		// Already absent is fine: deletes are replayed on retry.
		slog.WarnContext(ctx, "Mirrored transaction not found for delete", "transaction_id", transactionID)
	}
	return nil
}

// DeleteGroup clears every mirrored row of an installment group.
func (c *Client) DeleteGroup(ctx context.Context, groupID string) error {
	cleared, err := c.clearMatching(ctx, 9, groupID)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Cleared mirrored installment group", "group_id", groupID, "rows", cleared)
	return nil
}

func (c *Client) clearMatching(ctx context.Context, column int, value string) (int, error) {
	if c.svc == nil {
		return 0, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:J", c.ledgerSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("scan sheet %s: %w", c.ledgerSheet, err)
	}

	cleared := 0
	for i, row := range resp.Values {
		if len(row) <= column {
			continue
		}
		cell, ok := row[column].(string)
		if !ok || cell != value {
			continue
		}
		clearRange := fmt.Sprintf("%s!A%d:J%d", c.ledgerSheet, i+1, i+1)
		_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
			Context(ctx).Do()
		if err != nil {
			return cleared, fmt.Errorf("clear row %s: %w", clearRange, err)
		}
		cleared++
	}
	return cleared, nil
}
