package internallogger

import (
	"sort"

	"go.uber.org/zap"
)

// fieldsFromMap turns base fields into zap fields in key order so every line carries them in the
// same position. Empty keys are dropped.
func fieldsFromMap(fields map[string]interface{}) []zap.Field {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)
	out := make([]zap.Field, len(keys))
	for i, k := range keys {
		out[i] = zap.Any(k, fields[k])
	}
	return out
}
