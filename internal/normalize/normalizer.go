// Package normalize reconciles the inconsistently named upstream item shapes
// into fixed tabular rows and report objects.
package normalize

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/haneul-labs/fassto-gateway/internal/daterange"
	"github.com/haneul-labs/fassto-gateway/pkg/fassto"
)

// ReportCombinedOrder selects the combined-order report shape in proxy mode.
const ReportCombinedOrder = "COMBINED_ORDER_REPORT"

// Field fallback tables: evaluated in order, first non-empty value wins,
// else empty string. Kept data-driven so they are independently testable.
var (
	trackingNumberSources = []string{"outDlvNo", "trackingNo"}
	customerNameSources   = []string{"custNm", "receiverName"}
	statusSources         = []string{"status"}
)

const timestampLayout = "2006-01-02 15:04:05"

// Row maps one upstream record to the fixed-position sheet row:
// [timestamp, trackingNumber, customerName, (itemName), status].
// The timestamp is the normalization instant, not any upstream field.
func Row(rec fassto.Record, at time.Time, includeItemName bool) []any {
	row := []any{
		at.In(daterange.Zone).Format(timestampLayout),
		firstNonEmpty(rec, trackingNumberSources),
		firstNonEmpty(rec, customerNameSources),
	}
	if includeItemName {
		row = append(row, firstItemName(rec))
	}
	return append(row, firstNonEmpty(rec, statusSources))
}

// Rows maps every record with a shared timestamp.
func Rows(recs []fassto.Record, at time.Time, includeItemName bool) [][]any {
	rows := make([][]any, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, Row(rec, at, includeItemName))
	}
	return rows
}

// Shape applies the report-type selector: the combined-order report gets the
// fixed labeled object shape, anything else passes through unchanged.
func Shape(recs []fassto.Record, reportType string) any {
	if reportType != ReportCombinedOrder {
		return recs
	}
	shaped := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		shaped = append(shaped, reportRow(rec))
	}
	return shaped
}

// reportRow builds the combined-order report object. The labels are the
// literal contract with the spreadsheet caller. packDt intentionally fills
// both the order-time and dispatch-time fields; see DESIGN.md.
func reportRow(rec fassto.Record) map[string]any {
	return map[string]any{
		"주문일시":     cellString(rec["packDt"]),
		"발송일시":     cellString(rec["packDt"]),
		"운송장번호":    cellString(rec["invoiceNo"]),
		"주문자 성함":   cellString(rec["custNm"]),
		"주문자 전화번호": cellString(rec["custTelNo"]),
		"주문자 주소":   cellString(rec["custAddr"]),
		"상품명":      cellString(rec["godNm"]),
		"주문 수량":    quantity(rec["packQty"]),
	}
}

func firstNonEmpty(rec fassto.Record, sources []string) string {
	for _, key := range sources {
		if s := cellString(rec[key]); s != "" {
			return s
		}
	}
	return ""
}

// firstItemName digs itemList[0].itemNm out of the nested item array.
func firstItemName(rec fassto.Record) string {
	items, ok := rec["itemList"].([]any)
	if !ok || len(items) == 0 {
		return ""
	}
	first, ok := items[0].(map[string]any)
	if !ok {
		return ""
	}
	return cellString(first["itemNm"])
}

// cellString renders a decoded JSON value as a spreadsheet cell. Zero-ish
// values become "" to match the fallback-by-truthiness contract; nested
// structures are serialized rather than dropped.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if !t {
			return ""
		}
		return "true"
	default:
		encoded, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

func quantity(v any) any {
	if n, ok := v.(float64); ok {
		return n
	}
	return 0
}
