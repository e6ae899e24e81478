// Package untrusted provides null-safe, path-tracked typed extraction over
// decoded JSON. Every accessor fails with a message naming the full path of
// the offending field, so wire-layer validation errors point at the exact
// input location.
package untrusted

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/feedmesh/blogroll/pkg/domain"
)

// Data is an immutable view over a decoded JSON value and the path that led
// to it. The zero value represents a JSON null at the root.
type Data struct {
	value any
	path  []string
}

// New wraps a value produced by json.Unmarshal into an empty interface
func New(value any) Data {
	return Data{value: value}
}

// IsNull reports whether the value is JSON null
func (d Data) IsNull() bool {
	return d.value == nil
}

// Key returns the named field, failing when the value is not an object or
// the field is absent
func (d Data) Key(name string) (Data, error) {
	obj, err := d.object()
	if err != nil {
		return Data{}, err
	}
	value, ok := obj[name]
	if !ok {
		return Data{}, d.failAt(name, "%s is required")
	}
	return d.child(name, value), nil
}

// OptionalKey returns the named field, or nil when the field is absent.
// A present-but-null field still returns a Data with IsNull true, so callers
// can distinguish "not sent" from "explicitly cleared".
func (d Data) OptionalKey(name string) (*Data, error) {
	obj, err := d.object()
	if err != nil {
		return nil, err
	}
	value, ok := obj[name]
	if !ok {
		return nil, nil
	}
	child := d.child(name, value)
	return &child, nil
}

// StringValue returns the value as a string
func (d Data) StringValue() (string, error) {
	s, ok := d.value.(string)
	if !ok {
		return "", d.fail("%s must be a string")
	}
	return s, nil
}

// NullableString returns nil for JSON null, otherwise the string value
func (d Data) NullableString() (*string, error) {
	if d.IsNull() {
		return nil, nil
	}
	s, err := d.StringValue()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Bool returns the value as a boolean, numbers are not coerced
func (d Data) Bool() (bool, error) {
	b, ok := d.value.(bool)
	if !ok {
		return false, d.fail("%s must be a boolean")
	}
	return b, nil
}

// Int returns the value as an integer, accepting JSON numbers without a
// fractional part and decimal strings
func (d Data) Int() (int, error) {
	switch v := d.value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, d.fail("%s must be an integer")
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, d.fail("%s must be an integer")
		}
		return n, nil
	default:
		return 0, d.fail("%s must be a number")
	}
}

// URL returns the value parsed as an absolute http(s) URL
func (d Data) URL() (*url.URL, error) {
	s, err := d.StringValue()
	if err != nil {
		return nil, err
	}
	u, parseErr := url.Parse(s)
	if parseErr != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, d.fail("%s must be a valid URL")
	}
	return u, nil
}

// NullableURL returns nil for JSON null, otherwise the parsed URL
func (d Data) NullableURL() (*url.URL, error) {
	if d.IsNull() {
		return nil, nil
	}
	return d.URL()
}

// Enum returns the string value when it is one of the allowed set
func (d Data) Enum(allowed ...string) (string, error) {
	s, err := d.StringValue()
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", d.fail("%s must be one of " + strings.Join(allowed, ", "))
}

// Array returns the elements with their paths extended by index
func (d Data) Array() ([]Data, error) {
	arr, ok := d.value.([]any)
	if !ok {
		return nil, d.fail("%s must be an array")
	}
	items := make([]Data, len(arr))
	for i, v := range arr {
		items[i] = d.child(strconv.Itoa(i), v)
	}
	return items, nil
}

// Index returns the element at position i
func (d Data) Index(i int) (Data, error) {
	if i < 0 {
		return Data{}, &domain.ValidationError{Message: "index must be a positive integer"}
	}
	arr, ok := d.value.([]any)
	if !ok {
		return Data{}, d.fail("%s must be an array")
	}
	if i >= len(arr) {
		return Data{}, d.fail(fmt.Sprintf("%%s must be an array of length %d", i+1))
	}
	return d.child(strconv.Itoa(i), arr[i]), nil
}

func (d Data) object() (map[string]any, error) {
	obj, ok := d.value.(map[string]any)
	if !ok {
		return nil, d.fail("%s must be an object")
	}
	return obj, nil
}

func (d Data) child(name string, value any) Data {
	path := make([]string, 0, len(d.path)+1)
	path = append(path, d.path...)
	path = append(path, name)
	return Data{value: value, path: path}
}

// fail builds a validation error, format must contain a single %s that the
// field path is substituted into
func (d Data) fail(format string) error {
	return &domain.ValidationError{Message: fmt.Sprintf(format, d.pathString(d.path))}
}

func (d Data) failAt(name, format string) error {
	return &domain.ValidationError{Message: fmt.Sprintf(format, d.pathString(append(append([]string{}, d.path...), name)))}
}

func (d Data) pathString(path []string) string {
	if len(path) == 0 {
		return "data"
	}
	return strings.Join(path, ".")
}
