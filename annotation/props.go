package annotation

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/mitchellh/copystructure"
)

// Props carries per-call annotator options and per-annotation service
// metadata. The pipeline never interprets annotation props; it only copies
// and extends them. Props handed to an Annotator must be treated as read-only.
type Props map[string]any

// Clone returns a deep copy of p so nested slices and maps are never shared
// between a derived annotation and its predecessor.
func (p Props) Clone() Props {
	if p == nil {
		return Props{}
	}
	copied, err := copystructure.Copy(map[string]any(p))
	if err != nil {
		// values copystructure cannot walk (funcs, channels) fall back to a shallow copy
		return maps.Clone(p)
	}
	return Props(copied.(map[string]any))
}

// With returns a copy of p with the given key set.
func (p Props) With(key string, value any) Props {
	out := p.Clone()
	out[key] = value
	return out
}

// String returns the value at key formatted as a string, or def when absent.
func (p Props) String(key, def string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Int returns the value at key as an int, or def when absent or unparseable.
func (p Props) Int(key string, def int) int {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int32:
		return int(t)
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return def
}

// Float returns the value at key as a float64, or def when absent or unparseable.
func (p Props) Float(key string, def float64) float64 {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns the value at key as a bool. String values are parsed with
// strconv.ParseBool so "true"/"false" flags from the command line work.
func (p Props) Bool(key string, def bool) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
	}
	return def
}

// Strings returns the value at key as a string slice. A single string is
// split on "|" and ",".
func (p Props) Strings(key string) []string {
	v, ok := p[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return slices.Clone(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		fields := strings.FieldsFunc(t, func(r rune) bool { return r == '|' || r == ',' })
		out := make([]string, 0, len(fields))
		for _, f := range fields {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
		return out
	}
	return nil
}

// ValidateProps cross-checks props against the keys an annotator advertises
// through SupportedProperties. Unknown keys are reported as
// *ConfigurationError values joined in sorted key order.
func ValidateProps(name string, supported map[string]string, props Props) error {
	var errs []error
	for _, key := range slices.Sorted(maps.Keys(props)) {
		if _, ok := supported[key]; !ok {
			errs = append(errs, &ConfigurationError{Annotator: name, Key: key})
		}
	}
	return errors.Join(errs...)
}
