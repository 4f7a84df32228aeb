package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/haneul-labs/fassto-gateway/api/responses"
	"github.com/haneul-labs/fassto-gateway/api/validators"
	"github.com/haneul-labs/fassto-gateway/internal/proxy"
	pkgerrors "github.com/haneul-labs/fassto-gateway/pkg/errors"
	"github.com/haneul-labs/fassto-gateway/pkg/logger"
)

// ProxyService is the slice of the proxy service the controller needs.
type ProxyService interface {
	Run(ctx context.Context, req proxy.Request) (*proxy.Result, error)
}

type ProxyBody struct {
	APIPath     string            `json:"apiPath" validate:"required"`
	PathParams  map[string]string `json:"pathParams"`
	QueryParams map[string]string `json:"queryParams"`
	Method      string            `json:"method" validate:"omitempty,oneof=GET POST"`
	ReportType  string            `json:"reportType"`
}

// FMSProxy wires the dynamic FMS path endpoint into the HTTP layer.
func FMSProxy(svc ProxyService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "proxy service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body ProxyBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithField(r.Context(), "api_path", body.APIPath)

		result, err := svc.Run(ctx, proxy.Request{
			Path:        body.APIPath,
			PathParams:  body.PathParams,
			QueryParams: body.QueryParams,
			Method:      body.Method,
			ReportType:  body.ReportType,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if result.Count == 0 {
			responses.Write(w, http.StatusOK, responses.Info("no records returned", result.Data))
			return
		}
		msg := fmt.Sprintf("fetched %d records", result.Count)
		responses.Write(w, http.StatusOK, responses.Success(msg, result.Count, result.Data))
	}
}
