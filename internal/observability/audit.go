package observability

import (
	"log/slog"
	"net/http"
	"strconv"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// AuditInput describes a security-relevant action for the audit stream.
type AuditInput struct {
	EventName   string
	ActorUserID string
	TargetType  string
	TargetID    string
	Action      string
	Outcome     string
	Reason      string
}

// EmitAudit writes a structured audit event on the default logger. Extra
// key/value pairs follow the slog convention.
func EmitAudit(r *http.Request, in AuditInput, kv ...any) {
	attrs := []any{
		"audit", true,
		"event", in.EventName,
		"actor_user_id", in.ActorUserID,
		"target_type", in.TargetType,
		"target_id", in.TargetID,
		"action", in.Action,
		"outcome", in.Outcome,
		"reason", in.Reason,
		"request_id", chimiddleware.GetReqID(r.Context()),
		"path", r.URL.Path,
	}
	attrs = append(attrs, kv...)
	slog.Default().InfoContext(r.Context(), "audit_event", attrs...)
}

func ActorUserID(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}
