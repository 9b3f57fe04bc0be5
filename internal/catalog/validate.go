package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports a malformed or conflicting catalog entry. GroupID
// and MapID are set when the offending group or map is known.
type ValidationError struct {
	GroupID *uint16
	MapID   *uint16
	Field   string
	Reason  string
	Value   any
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("catalog")
	if e.GroupID != nil {
		fmt.Fprintf(&b, ": group %d", *e.GroupID)
	}
	if e.MapID != nil {
		fmt.Fprintf(&b, ": map %d", *e.MapID)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Value != nil {
		fmt.Fprintf(&b, " (got %v)", e.Value)
	}
	return b.String()
}

// field helpers over a generically decoded JSON object. Numbers arrive as
// json.Number because the decoder runs with UseNumber.

type numberLike interface{ String() string }

func asUint16(v any) (uint16, bool) {
	n, ok := v.(numberLike)
	if !ok {
		return 0, false
	}
	u, err := strconv.ParseUint(n.String(), 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(u), true
}

func asNonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// optionalBool treats an absent or null field as false.
func optionalBool(obj map[string]any, key string) (bool, bool) {
	v, present := obj[key]
	if !present || v == nil {
		return false, true
	}
	b, ok := v.(bool)
	return b, ok
}
