// Package sheetsync runs the fetch-and-log flow: resolve the date window,
// obtain a token, fetch deliveries, normalize, and write to the sheet.
package sheetsync

import (
	"context"
	"errors"
	"time"

	"github.com/haneul-labs/fassto-gateway/internal/daterange"
	"github.com/haneul-labs/fassto-gateway/internal/normalize"
	"github.com/haneul-labs/fassto-gateway/pkg/fassto"
	"github.com/haneul-labs/fassto-gateway/pkg/logger"
	"github.com/haneul-labs/fassto-gateway/pkg/metrics"
)

// Upstream is the slice of the Fassto client this flow needs.
type Upstream interface {
	Connect(ctx context.Context) (fassto.AccessToken, error)
	FetchDeliveries(ctx context.Context, token fassto.AccessToken, dates daterange.Range) ([]fassto.Record, error)
}

// Sink is the tabular write contract. The service never retries sink calls.
type Sink interface {
	Append(ctx context.Context, spreadsheetID, sheetName string, rows [][]any) error
	Overwrite(ctx context.Context, spreadsheetID, sheetName string, rows [][]any) error
}

type Request struct {
	SpreadsheetID   string
	SheetName       string
	StartDate       string
	EndDate         string
	Overwrite       bool
	IncludeItemName bool
}

type Result struct {
	Count        int
	Dates        daterange.Range
	DateFallback bool
}

type Service struct {
	upstream Upstream
	sink     Sink
	logger   *logger.Logger
	metrics  *metrics.UpstreamMetrics
	now      func() time.Time
}

var (
	errUpstreamRequired = errors.New("sheetsync upstream client is required")
	errSinkRequired     = errors.New("sheetsync sink is required")
	errLoggerRequired   = errors.New("sheetsync logger is required")
)

func NewService(upstream Upstream, sink Sink, logg *logger.Logger, m *metrics.UpstreamMetrics) (*Service, error) {
	if upstream == nil {
		return nil, errUpstreamRequired
	}
	if sink == nil {
		return nil, errSinkRequired
	}
	if logg == nil {
		return nil, errLoggerRequired
	}
	return &Service{upstream: upstream, sink: sink, logger: logg, metrics: m, now: time.Now}, nil
}

// Run executes one sync. A zero-record fetch is a valid outcome and skips
// the sink write entirely.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	ctx = s.logger.WithSpreadsheet(ctx, req.SpreadsheetID)

	dates, fallback := daterange.ResolveAt(req.StartDate, req.EndDate, s.now())
	if fallback {
		s.logger.Warn(s.logger.WithFields(ctx, map[string]any{
			"start": dates.Start,
			"end":   dates.End,
		}), "invalid or missing date range, defaulted to today")
	}

	token, err := s.upstream.Connect(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.upstream.FetchDeliveries(ctx, token, dates)
	if err != nil {
		return nil, err
	}

	result := &Result{Count: len(records), Dates: dates, DateFallback: fallback}
	if len(records) == 0 {
		s.logger.Info(ctx, "upstream returned no deliveries, skipping sheet write")
		return result, nil
	}

	rows := normalize.Rows(records, s.now(), req.IncludeItemName)
	if req.Overwrite {
		err = s.sink.Overwrite(ctx, req.SpreadsheetID, req.SheetName, rows)
	} else {
		err = s.sink.Append(ctx, req.SpreadsheetID, req.SheetName, rows)
	}
	if err != nil {
		return nil, err
	}
	s.metrics.AddSinkRows(len(rows))

	s.logger.Info(s.logger.WithField(ctx, "count", result.Count), "sync complete")
	return result, nil
}
