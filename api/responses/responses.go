package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/haneul-labs/fassto-gateway/pkg/errors"
	"github.com/haneul-labs/fassto-gateway/pkg/logger"
)

const (
	StatusSuccess = "success"
	StatusInfo    = "info"
	StatusWarning = "warning"
	StatusError   = "error"
)

// maxMessageLen caps outbound error messages so oversized upstream payloads
// never leak to the caller.
const maxMessageLen = 200

// Envelope is the fixed response shape of every endpoint.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func Success(message string, count int, data any) Envelope {
	return Envelope{Status: StatusSuccess, Message: message, Count: &count, Data: data}
}

func Info(message string, data any) Envelope {
	zero := 0
	return Envelope{Status: StatusInfo, Message: message, Count: &zero, Data: data}
}

func Warning(message string, count int, data any) Envelope {
	return Envelope{Status: StatusWarning, Message: message, Count: &count, Data: data}
}

func Write(w http.ResponseWriter, status int, env Envelope) {
	writeJSON(w, status, env)
}

// WriteError renders any error through the taxonomy: typed errors keep their
// code's status (or the mirrored upstream status), everything else becomes a
// generic 500.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if typed.Code() != pkgerrors.CodeInternal && typed.Message() != "" {
		msg = typed.Message()
	}

	env := Envelope{Status: StatusError, Message: truncate(msg)}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			env.Data = details
		}
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)
		ctx = logg.WithFields(ctx, map[string]any{
			"error":           dump.TopMessage,
			"error_code":      dump.Code,
			"error_chain":     dump.Chain,
			"upstream_status": dump.UpstreamStatus,
		})
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, typed.HTTPStatus(), env)
}

func truncate(msg string) string {
	runes := []rune(msg)
	if len(runes) <= maxMessageLen {
		return msg
	}
	return string(runes[:maxMessageLen])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
