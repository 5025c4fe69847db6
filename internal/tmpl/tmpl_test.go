// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package tmpl

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.astrophena.name/base/testutil"
)

func TestSubstitute(t *testing.T) {
	cases := map[string]struct {
		tpl  string
		vars Vars
		want string
	}{
		"two keys": {
			tpl:  "{{X}} and {{Y}}",
			vars: Vars{"X": "1", "Y": "2"},
			want: "1 and 2",
		},
		"unmatched token": {
			tpl:  "{{X}} and {{Z}}",
			vars: Vars{"X": "1"},
			want: "1 and {{Z}}",
		},
		"array value": {
			tpl:  "<ul>{{ITEMS}}</ul>",
			vars: Vars{"ITEMS": []any{"a", "b"}},
			want: "<ul>{{ITEMS}}</ul>",
		},
		"object value": {
			tpl:  "{{OBJ}}",
			vars: Vars{"OBJ": map[string]any{"a": "b"}},
			want: "{{OBJ}}",
		},
		"every occurrence": {
			tpl:  "{{A}}{{A}}{{A}}",
			vars: Vars{"A": "x"},
			want: "xxx",
		},
		"prefix key does not match longer key": {
			tpl:  "{{SITE}} / {{SITE_NAME}}",
			vars: Vars{"SITE": "s", "SITE_NAME": "name"},
			want: "s / name",
		},
		"prefix key only": {
			tpl:  "{{SITE_NAME}}",
			vars: Vars{"SITE": "s"},
			want: "{{SITE_NAME}}",
		},
		"no rescan of inserted values": {
			tpl:  "{{A}}",
			vars: Vars{"A": "{{B}}", "B": "b"},
			want: "{{B}}",
		},
		"number and bool": {
			tpl:  "{{N}} {{B}} {{I}}",
			vars: Vars{"N": json.Number("42.50"), "B": true, "I": 3},
			want: "42.50 true 3",
		},
		"null becomes empty": {
			tpl:  "[{{N}}]",
			vars: Vars{"N": nil},
			want: "[]",
		},
		"component placeholders untouched": {
			tpl:  "{{COMPONENT:hero}} {{X}}",
			vars: Vars{"X": "1"},
			want: "{{COMPONENT:hero}} 1",
		},
		"regexp metacharacters in value": {
			tpl:  "{{X}}",
			vars: Vars{"X": "$1 ${2} \\"},
			want: "$1 ${2} \\",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := Substitute(tc.tpl, tc.vars)
			testutil.AssertEqual(t, got, tc.want)
			// Pure: same input, same output.
			testutil.AssertEqual(t, Substitute(tc.tpl, tc.vars), got)
		})
	}
}

func TestDecode(t *testing.T) {
	cases := map[string]struct {
		in      string
		want    Vars
		wantErr error
	}{
		"object":           {in: `{"N": 1.10}`, want: Vars{"N": json.Number("1.10")}},
		"trailing space":   {in: "{\"A\": \"x\"}\n\t ", want: Vars{"A": "x"}},
		"trailing garbage": {in: `{"A": "x"} }}}`, wantErr: ErrTrailingData},
		"second document":  {in: `{"A": "x"} {"B": "y"}`, wantErr: ErrTrailingData},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var got Vars
			err := Decode([]byte(tc.in), &got)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			testutil.AssertEqual(t, got, tc.want)
		})
	}

	var v Vars
	if err := Decode([]byte(`{"A": `), &v); err == nil || errors.Is(err, ErrTrailingData) {
		t.Fatalf("want syntax error, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	base := Vars{"A": "1", "B": "2"}
	got := Merge(base, Vars{"B": "3"}, nil, Vars{"C": "4"})
	testutil.AssertEqual(t, got, Vars{"A": "1", "B": "3", "C": "4"})
	// Inputs stay untouched.
	testutil.AssertEqual(t, base, Vars{"A": "1", "B": "2"})
}

func TestLookup(t *testing.T) {
	v := Vars{"EMPTY": "", "SET": "x", "LIST": []any{"a"}}
	testutil.AssertEqual(t, v.Lookup("EMPTY", "def"), "def")
	testutil.AssertEqual(t, v.Lookup("SET", "def"), "x")
	testutil.AssertEqual(t, v.Lookup("LIST", "def"), "def")
	testutil.AssertEqual(t, v.Lookup("MISSING", "def"), "def")
}

func TestPlaceComponents(t *testing.T) {
	var f Fragments
	f.Set("foo", "<div>FOO</div>")
	f.Set("bar", "<div>BAR</div>")

	got := PlaceComponents("<p>{{COMPONENT:foo}}</p>", &f)
	testutil.AssertEqual(t, got, "<div>BAR</div>\n<p><div>FOO</div></p>")
	testutil.AssertEqual(t, strings.Count(got, "FOO"), 1)
	testutil.AssertEqual(t, strings.Count(got, "BAR"), 1)
}

func TestPlaceComponentsLastWriteWins(t *testing.T) {
	var f Fragments
	f.Set("a", "first")
	f.Set("b", "B")
	f.Set("a", "second")

	testutil.AssertEqual(t, f.Len(), 2)
	testutil.AssertEqual(t, f.Names(), []string{"a", "b"})
	testutil.AssertEqual(t, PlaceComponents("body", &f), "second\nB\nbody")
}

func TestPlaceComponentsUnknownPlaceholder(t *testing.T) {
	var f Fragments
	f.Set("a", "A")
	got := PlaceComponents("{{COMPONENT:missing}}{{COMPONENT:a}}", &f)
	testutil.AssertEqual(t, got, "{{COMPONENT:missing}}A")
}

func TestPlaceComponentsEmpty(t *testing.T) {
	var f Fragments
	testutil.AssertEqual(t, PlaceComponents("body", &f), "body")
}
