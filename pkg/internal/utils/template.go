package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RenderTemplate expands the time placeholders {yyyy} {MM} {dd} {HH} {mm} {ts}, a random {uid},
// and any extra placeholders in tmpl. Times are rendered in UTC.
func RenderTemplate(tmpl string, now time.Time, extra map[string]string) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	ts := now.UTC()
	repl := map[string]string{
		"{yyyy}": ts.Format("2006"),
		"{MM}":   ts.Format("01"),
		"{dd}":   ts.Format("02"),
		"{HH}":   ts.Format("15"),
		"{mm}":   ts.Format("04"),
		"{ts}":   strconv.FormatInt(ts.UnixMilli(), 10),
	}
	for k, v := range extra {
		repl["{"+strings.Trim(k, "{}")+"}"] = v
	}
	if strings.Contains(tmpl, "{uid}") {
		repl["{uid}"] = uuid.NewString()
	}
	out := tmpl
	for k, v := range repl {
		out = strings.ReplaceAll(out, k, v)
	}
	return out
}
