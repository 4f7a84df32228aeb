package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/haneul-labs/fassto-gateway/api/responses"
	"github.com/haneul-labs/fassto-gateway/api/validators"
	"github.com/haneul-labs/fassto-gateway/internal/sheetsync"
	pkgerrors "github.com/haneul-labs/fassto-gateway/pkg/errors"
	"github.com/haneul-labs/fassto-gateway/pkg/logger"
)

// SyncService is the slice of the sheet-sync service the controller needs.
type SyncService interface {
	Run(ctx context.Context, req sheetsync.Request) (*sheetsync.Result, error)
}

type SyncBody struct {
	SpreadsheetID   string `json:"spreadsheetId" validate:"required"`
	SheetName       string `json:"sheetName" validate:"required"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	Mode            string `json:"mode" validate:"omitempty,oneof=append overwrite"`
	IncludeItemName bool   `json:"includeItemName"`
}

// SheetSync wires the delivery-to-spreadsheet flow into the HTTP layer.
func SheetSync(svc SyncService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "sync service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body SyncBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithSpreadsheet(r.Context(), body.SpreadsheetID)

		result, err := svc.Run(ctx, sheetsync.Request{
			SpreadsheetID:   body.SpreadsheetID,
			SheetName:       body.SheetName,
			StartDate:       body.StartDate,
			EndDate:         body.EndDate,
			Overwrite:       body.Mode == "overwrite",
			IncludeItemName: body.IncludeItemName,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		switch {
		case result.Count == 0:
			msg := fmt.Sprintf("no delivery records between %s and %s", result.Dates.Start, result.Dates.End)
			responses.Write(w, http.StatusOK, responses.Info(msg, nil))
		case result.DateFallback:
			msg := fmt.Sprintf("synced %d rows using fallback dates %s to %s", result.Count, result.Dates.Start, result.Dates.End)
			responses.Write(w, http.StatusOK, responses.Warning(msg, result.Count, nil))
		default:
			msg := fmt.Sprintf("synced %d rows for %s to %s", result.Count, result.Dates.Start, result.Dates.End)
			responses.Write(w, http.StatusOK, responses.Success(msg, result.Count, nil))
		}
	}
}
