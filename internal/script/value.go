// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package script

import (
	"encoding/json"
	"fmt"
	"math/big"
	"slices"

	"go.astrophena.name/sitegen/internal/tmpl"

	"go.starlark.net/starlark"
)

// ToValue converts a JSON-like Go value to a Starlark value. Starlark values
// are passed through unchanged. Object keys are emitted in sorted order.
func ToValue(v any) (starlark.Value, error) {
	switch v := v.(type) {
	case starlark.Value:
		return v, nil
	case nil:
		return starlark.None, nil
	case string:
		return starlark.String(v), nil
	case bool:
		return starlark.Bool(v), nil
	case int:
		return starlark.MakeInt(v), nil
	case int64:
		return starlark.MakeInt64(v), nil
	case float64:
		return starlark.Float(v), nil
	case json.Number:
		return numberValue(v), nil
	case []string:
		elems := make([]starlark.Value, len(v))
		for i, s := range v {
			elems[i] = starlark.String(s)
		}
		return starlark.NewList(elems), nil
	case []any:
		elems := make([]starlark.Value, len(v))
		for i, e := range v {
			sv, err := ToValue(e)
			if err != nil {
				return nil, err
			}
			elems[i] = sv
		}
		return starlark.NewList(elems), nil
	case tmpl.Vars:
		return dictValue(v)
	case map[string]any:
		return dictValue(v)
	}
	return nil, fmt.Errorf("cannot convert %T to Starlark value", v)
}

// numberValue returns an Int for integers written in canonical form and keeps
// any other number literal, such as 1.10 or 1e3, as a String so that it
// substitutes exactly as written.
func numberValue(n json.Number) starlark.Value {
	s := n.String()
	if i, ok := new(big.Int).SetString(s, 10); ok && i.String() == s {
		return starlark.MakeBigInt(i)
	}
	return starlark.String(s)
}

func dictValue(m map[string]any) (starlark.Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	d := starlark.NewDict(len(m))
	for _, k := range keys {
		sv, err := ToValue(m[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		if err := d.SetKey(starlark.String(k), sv); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// FromValue converts a Starlark value to a JSON-like Go value. Numbers become
// [json.Number] so that they substitute exactly as written.
func FromValue(v starlark.Value) (any, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.String:
		return string(v), nil
	case starlark.Bool:
		return bool(v), nil
	case starlark.Int:
		return json.Number(v.String()), nil
	case starlark.Float:
		return json.Number(v.String()), nil
	case *starlark.List:
		return seqValue(v)
	case starlark.Tuple:
		return seqValue(v)
	case *starlark.Dict:
		m := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			k, ok := starlark.AsString(item[0])
			if !ok {
				return nil, fmt.Errorf("dict key %s is not a string", item[0])
			}
			gv, err := FromValue(item[1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = gv
		}
		return m, nil
	}
	return nil, fmt.Errorf("cannot convert Starlark %s to Go value", v.Type())
}

func seqValue(seq starlark.Indexable) ([]any, error) {
	out := make([]any, seq.Len())
	for i := range seq.Len() {
		gv, err := FromValue(seq.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = gv
	}
	return out, nil
}

// Vars converts a Starlark dict to substitution variables.
func Vars(v starlark.Value) (tmpl.Vars, error) {
	gv, err := FromValue(v)
	if err != nil {
		return nil, err
	}
	m, ok := gv.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("want dict, got %s", v.Type())
	}
	return tmpl.Vars(m), nil
}
