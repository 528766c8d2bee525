package views

import (
	"fmt"
	"io"
	"reflect"

	"github.com/AdamBeresnev/super8/internal/tournament"
	"github.com/a-h/templ"
)

const placeholderName = "TBD"

// Names maps player ids to display names, falling back to TBD
type Names map[string]string

func NewNames(players []tournament.Player) Names {
	names := make(Names, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names
}

func (n Names) Of(id string) string {
	if name, ok := n[id]; ok && id != "" {
		return name
	}
	return placeholderName
}

// htmlWriter keeps the first write error so components can write without
// checking every call
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// printf escapes string arguments, including named string types, before
// formatting. Numbers pass through so %d keeps working.
func (hw *htmlWriter) printf(format string, args ...any) {
	escaped := make([]any, len(args))
	for i, a := range args {
		if v := reflect.ValueOf(a); v.Kind() == reflect.String {
			escaped[i] = templ.EscapeString(v.String())
			continue
		}
		escaped[i] = a
	}
	hw.raw(fmt.Sprintf(format, escaped...))
}
