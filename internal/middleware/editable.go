package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
)

type ContextKey string

const EditableKey ContextKey = "editable"

const (
	editableParam      = "editable"
	editableSessionKey = "editable"
)

// LoadEditable remembers ?editable=true|false in the session and puts the
// flag on the request context. With allowEditing off every request is
// read only, whatever the session says.
func LoadEditable(sessionManager *scs.SessionManager, allowEditing bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if r.URL.Query().Has(editableParam) {
				editable := r.URL.Query().Get(editableParam) == "true"
				sessionManager.Put(ctx, editableSessionKey, editable)
				slog.Debug("editable flag changed", "editable", editable, "path", r.URL.Path)
			}

			editable := allowEditing && sessionManager.GetBool(ctx, editableSessionKey)
			next.ServeHTTP(w, r.WithContext(WithEditable(ctx, editable)))
		})
	}
}

func WithEditable(ctx context.Context, editable bool) context.Context {
	return context.WithValue(ctx, EditableKey, editable)
}

func IsEditable(ctx context.Context) bool {
	editable, ok := ctx.Value(EditableKey).(bool)
	return ok && editable
}
