// Package proxy runs the gateway flow: obtain a token, read a dynamic FMS
// path, and shape the result for the requesting spreadsheet script.
package proxy

import (
	"context"
	"errors"

	"github.com/haneul-labs/fassto-gateway/internal/normalize"
	"github.com/haneul-labs/fassto-gateway/pkg/fassto"
	"github.com/haneul-labs/fassto-gateway/pkg/logger"
)

// Upstream is the slice of the Fassto client this flow needs.
type Upstream interface {
	Connect(ctx context.Context) (fassto.AccessToken, error)
	Fetch(ctx context.Context, token fassto.AccessToken, req fassto.ProxyRequest) ([]fassto.Record, error)
}

type Request struct {
	Path        string
	PathParams  map[string]string
	QueryParams map[string]string
	Method      string
	ReportType  string
}

type Result struct {
	Count int
	Data  any
}

type Service struct {
	upstream Upstream
	logger   *logger.Logger
}

var (
	errUpstreamRequired = errors.New("proxy upstream client is required")
	errLoggerRequired   = errors.New("proxy logger is required")
)

func NewService(upstream Upstream, logg *logger.Logger) (*Service, error) {
	if upstream == nil {
		return nil, errUpstreamRequired
	}
	if logg == nil {
		return nil, errLoggerRequired
	}
	return &Service{upstream: upstream, logger: logg}, nil
}

func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	token, err := s.upstream.Connect(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.upstream.Fetch(ctx, token, fassto.ProxyRequest{
		Path:        req.Path,
		PathParams:  req.PathParams,
		QueryParams: req.QueryParams,
		Method:      req.Method,
	})
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return &Result{Count: 0, Data: []fassto.Record{}}, nil
	}

	data := normalize.Shape(records, req.ReportType)
	s.logger.Info(s.logger.WithField(ctx, "count", len(records)), "proxy fetch complete")
	return &Result{Count: len(records), Data: data}, nil
}
