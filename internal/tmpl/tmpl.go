// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package tmpl implements literal placeholder substitution.
//
// A placeholder is a {{KEY}} span. Substitution is a single pass driven by a
// regular expression: the text between the braces must equal a variable name
// exactly, so SITE never matches inside {{SITE_NAME}}. Values inserted by a
// pass are never rescanned.
package tmpl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Vars maps placeholder names to values. Values are usually strings, but may be
// any JSON value; arrays and objects are never substituted by [Substitute] and
// are left for hooks that know how to expand them.
type Vars map[string]any

// Merge returns a new Vars with all layers applied in order. Later layers win.
func Merge(layers ...Vars) Vars {
	out := make(Vars)
	for _, l := range layers {
		for k, v := range l {
			out[k] = v
		}
	}
	return out
}

// String returns the value of key in its substituted form and whether it can
// be substituted at all.
func (v Vars) String(key string) (string, bool) {
	val, ok := v[key]
	if !ok {
		return "", false
	}
	return Format(val)
}

// Lookup returns the string form of key, or def if key is missing, empty or
// not a scalar.
func (v Vars) Lookup(key, def string) string {
	s, ok := v.String(key)
	if !ok || s == "" {
		return def
	}
	return s
}

var placeholderRe = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Substitute replaces every {{KEY}} in template with the string form of
// vars[KEY]. Unknown keys and non-scalar values are left verbatim.
func Substitute(template string, vars Vars) string {
	if len(vars) == 0 || !strings.Contains(template, "{{") {
		return template
	}
	return placeholderRe.ReplaceAllStringFunc(template, func(span string) string {
		s, ok := vars.String(span[2 : len(span)-2])
		if !ok {
			return span
		}
		return s
	})
}

// Format returns the substituted form of a single value. The second result is
// false for arrays and objects.
func Format(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), true
	case float32, float64:
		return fmt.Sprintf("%v", v), true
	case []any, []string, map[string]any, Vars:
		return "", false
	case fmt.Stringer:
		return v.String(), true
	}
	return "", false
}

// ErrTrailingData is returned by [Decode] when a document is followed by
// anything but whitespace.
var ErrTrailingData = errors.New("unexpected data after JSON document")

// Decode decodes a single JSON document from b into v, keeping numbers as
// [json.Number].
func Decode(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}
