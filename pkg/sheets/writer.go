// Package sheets writes normalized rows into a Google Sheet. It is the only
// sink the gateway knows; writes are never retried here.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/haneul-labs/fassto-gateway/pkg/config"
	pkgerrors "github.com/haneul-labs/fassto-gateway/pkg/errors"
	"github.com/haneul-labs/fassto-gateway/pkg/logger"
)

var errLoggerRequired = errors.New("sheets logger is required")

// Client wraps the Sheets values API with append and overwrite semantics.
type Client struct {
	svc        *sheetsapi.Service
	valueInput string
	logger     *logger.Logger
}

// NewClient builds the Sheets service with the configured credentials.
// Without explicit credentials the Google client falls back to ADC.
func NewClient(ctx context.Context, cfg config.SheetsConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	valueInput := strings.TrimSpace(cfg.ValueInputOption)
	if valueInput == "" {
		valueInput = "RAW"
	}

	logg.Info(ctx, "sheets client initialized")
	return &Client{svc: svc, valueInput: valueInput, logger: logg}, nil
}

// Append adds rows after the last populated row of the named sheet.
func (c *Client) Append(ctx context.Context, spreadsheetID, sheetName string, rows [][]any) error {
	vr := &sheetsapi.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.
		Append(spreadsheetID, sheetName, vr).
		ValueInputOption(c.valueInput).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return c.sinkError(ctx, err, "append rows")
	}
	c.logger.Info(c.logger.WithFields(ctx, map[string]any{"rows": len(rows), "sheet": sheetName}), "rows appended")
	return nil
}

// Overwrite writes rows starting from the top-left cell of the named sheet.
func (c *Client) Overwrite(ctx context.Context, spreadsheetID, sheetName string, rows [][]any) error {
	vr := &sheetsapi.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.
		Update(spreadsheetID, sheetName+"!A1", vr).
		ValueInputOption(c.valueInput).
		Context(ctx).
		Do()
	if err != nil {
		return c.sinkError(ctx, err, "overwrite rows")
	}
	c.logger.Info(c.logger.WithFields(ctx, map[string]any{"rows": len(rows), "sheet": sheetName}), "rows overwritten")
	return nil
}

func (c *Client) sinkError(ctx context.Context, err error, op string) error {
	msg := op + " failed"
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = fmt.Sprintf("%s failed: %s", op, apiErr.Message)
	}
	c.logger.Error(ctx, "sheet write failed", err)
	return pkgerrors.Wrap(pkgerrors.CodeSink, err, msg)
}
