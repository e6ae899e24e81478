package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/feedmesh/blogroll/pkg/domain"
)

// Op is a filter comparison operator
type Op string

// supported filter operators
const (
	OpEq       Op = "="
	OpGt       Op = ">"
	OpLt       Op = "<"
	OpGte      Op = ">="
	OpLte      Op = "<="
	OpContains Op = "~"
	OpPrefix   Op = "~^"
	OpSuffix   Op = "~$"
)

// Condition is a single field comparison inside a filter expression
type Condition struct {
	Field string
	Op    Op
	Value string
}

// Filter is a compiled filter expression, all conditions are AND-ed
type Filter []Condition

// ParseFilter compiles a compact textual filter expression, e.g.
// "age:>25+name:~jo". Each segment is field:value with an optional operator
// prefix on the value, segments are joined with "+" as boolean AND. Values may
// be single-quoted to protect separators.
func ParseFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	var filter Filter
	for _, segment := range splitSegments(expr) {
		field, rest, found := strings.Cut(segment, ":")
		if !found || field == "" {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("Invalid filter segment %q", segment)}
		}

		op := OpEq
		for _, candidate := range []Op{OpGte, OpLte, OpPrefix, OpSuffix, OpGt, OpLt, OpContains} {
			if strings.HasPrefix(rest, string(candidate)) {
				op = candidate
				rest = rest[len(candidate):]
				break
			}
		}

		value := strings.TrimSpace(rest)
		if len(value) >= 2 && strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") {
			value = value[1 : len(value)-1]
		}

		filter = append(filter, Condition{Field: strings.TrimSpace(field), Op: op, Value: value})
	}
	return filter, nil
}

// splitSegments splits on "+" while respecting single-quoted values
func splitSegments(expr string) []string {
	var segments []string
	var current strings.Builder
	quoted := false
	for _, r := range expr {
		switch {
		case r == '\'':
			quoted = !quoted
			current.WriteRune(r)
		case r == '+' && !quoted:
			segments = append(segments, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	segments = append(segments, current.String())
	return segments
}

// Match evaluates the filter against an entity primitive, a map of field name
// to value. Missing or nil fields never match.
func (f Filter) Match(fields map[string]any) bool {
	for _, c := range f {
		if !c.match(fields[c.Field]) {
			return false
		}
	}
	return true
}

func (c Condition) match(value any) bool {
	if value == nil {
		return false
	}

	switch c.Op {
	case OpContains:
		return strings.Contains(stringValue(value), c.Value)
	case OpPrefix:
		return strings.HasPrefix(stringValue(value), c.Value)
	case OpSuffix:
		return strings.HasSuffix(stringValue(value), c.Value)
	}

	cmp, ok := compareToTarget(value, c.Value)
	if !ok {
		return false
	}
	switch c.Op {
	case OpEq:
		return cmp == 0
	case OpGt:
		return cmp > 0
	case OpLt:
		return cmp < 0
	case OpGte:
		return cmp >= 0
	case OpLte:
		return cmp <= 0
	}
	return false
}

// compareToTarget compares a typed entity value to the textual filter target,
// returning -1/0/1 and whether the comparison was possible at all
func compareToTarget(value any, target string) (int, bool) {
	switch v := value.(type) {
	case bool:
		t, err := strconv.ParseBool(target)
		if err != nil {
			return 0, false
		}
		switch {
		case v == t:
			return 0, true
		case v: // true > false
			return 1, true
		default:
			return -1, true
		}
	case time.Time:
		t, err := parseFilterTime(target)
		if err != nil {
			return 0, false
		}
		return v.Compare(t), true
	case int, int64, float64:
		t, err := strconv.ParseFloat(target, 64)
		if err != nil {
			return 0, false
		}
		f := floatValue(v)
		switch {
		case f == t:
			return 0, true
		case f > t:
			return 1, true
		default:
			return -1, true
		}
	default:
		return strings.Compare(stringValue(value), target), true
	}
}

// SQL translates the filter to a SQL predicate using a field-to-column map.
// Column values may be arbitrary query fragments, which is how derived fields
// like click counts participate in filtering.
func (f Filter) SQL(columns map[string]string) (clause string, args []any, err error) {
	var parts []string
	for _, c := range f {
		column, ok := columns[c.Field]
		if !ok {
			return "", nil, &domain.ValidationError{Message: fmt.Sprintf("Cannot filter by %s", c.Field)}
		}

		switch c.Op {
		case OpContains:
			parts = append(parts, fmt.Sprintf("%s LIKE ? ESCAPE '\\'", column))
			args = append(args, "%"+escapeLike(c.Value)+"%")
		case OpPrefix:
			parts = append(parts, fmt.Sprintf("%s LIKE ? ESCAPE '\\'", column))
			args = append(args, escapeLike(c.Value)+"%")
		case OpSuffix:
			parts = append(parts, fmt.Sprintf("%s LIKE ? ESCAPE '\\'", column))
			args = append(args, "%"+escapeLike(c.Value))
		default:
			parts = append(parts, fmt.Sprintf("%s %s ?", column, c.Op))
			// time values are bound typed so the driver renders them the same
			// way it renders stored timestamp columns
			if t, err := parseFilterTime(c.Value); err == nil {
				args = append(args, t)
			} else {
				args = append(args, c.Value)
			}
		}
	}
	return strings.Join(parts, " AND "), args, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

func parseFilterTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format %q", s)
}

func stringValue(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}

func floatValue(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
