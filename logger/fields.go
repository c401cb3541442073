package logger

import "time"

// Standard field keys used across collectkit.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldKey       = "key"
	FieldEvent     = "event"
	FieldAttempt   = "attempt"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields builds a field map from alternating key-value pairs. Non-string
// keys and a trailing key without a value are dropped.
//
//	log.Info("cache miss", logger.Fields("key", k, "namespace", ns))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for a failed operation.
func ErrorFields(op string, err error) map[string]any {
	return map[string]any{FieldOperation: op, FieldError: err.Error()}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]any {
	return map[string]any{FieldOperation: op, FieldDuration: d.Milliseconds()}
}
