// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package component

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"go.astrophena.name/base/testutil"
	"go.astrophena.name/base/txtar"
	"go.astrophena.name/sitegen/internal/config"
	"go.astrophena.name/sitegen/internal/tmpl"
)

const components = `
-- components/_layout.html --
<html>{{CONTENT}}</html>
-- components/card/card.html --
<div class="card">{{TITLE}} at {{SITE_NAME}}</div>
-- components/header/header.html --
<header class="{{HEADER_MODE}}"></header>
-- components/header/header-dark.html --
<header class="dark"></header>
-- components/hero/hero.html --
<section style="height: {{HERO_HEIGHT}}; --overlay: {{HERO_OVERLAY}}">{{HERO_TITLE}}|{{HERO_SUBTITLE}}|{{HERO_BG_IMAGE}}</section>
-- components/faq/faq.html --
<div class="faq">{{FAQ_TITLE}}{{FAQ_ITEMS}}</div>
-- components/faq/faqItem.html --
<div class="faq-item" id="q{{ITEM_INDEX}}"><h3>{{QUESTION}}</h3><p>{{ANSWER}}</p></div>
-- components/products/products.html --
<div class="row">{{PRODUCTS_HTML}}</div>
-- components/products/productCard.html --
<div class="product-card" id="{{PRODUCT_ID}}"><div class="carousel">{{CAROUSEL_IMAGES}}{{CAROUSEL_CONTROLS}}</div><h5>{{PRODUCT_NAME}}</h5><span class="price">{{PRODUCT_PRICE}}</span><a href="{{PRODUCT_LINK}}">{{BUTTON_TEXT}}</a></div>
-- components/contactIcons/contactIcons.html --
<div class="icons">{{SOCIAL_ICONS}}</div>
-- components/shout/shout.html --
<p>{{TEXT}}</p>
-- components/shout/shout.build.star --
def build(vars, resolve, substitute):
    return substitute(resolve("shout"), {"TEXT": vars["TEXT"].upper() + "!"})
-- products/lamp/product.json --
{"name": "Lamp", "price": "10 $"}
-- products/lamp/1.jpg --
-- products/lamp/2.jpg --
-- products/lamp/3.jpg --
-- products/chair/product.json --
{"name": "Chair & Co"}
-- products/chair/1.png --
`

func setup(t *testing.T) (string, *Builder) {
	t.Helper()
	root := t.TempDir()
	testutil.ExtractTxtar(t, txtar.Parse([]byte(components)), root)

	r := NewRegistry(filepath.Join(root, "components"), root)
	RegisterDefaults(t.Context(), r, root, "product-")
	return root, &Builder{
		Resolver: &Resolver{Root: filepath.Join(root, "components"), Aliases: config.DefaultAliases},
		Registry: r,
		Globals:  tmpl.Vars{"SITE_NAME": "Acme"},
	}
}

func TestResolve(t *testing.T) {
	_, b := setup(t)

	cases := map[string]struct {
		name    string
		want    string
		wantErr error
	}{
		"own directory":   {name: "card", want: `<div class="card">`},
		"flat layout":     {name: "_layout", want: "<html>"},
		"alias":           {name: "faqItem", want: `<div class="faq-item"`},
		"header variant":  {name: "header-dark", want: `<header class="dark">`},
		"missing":         {name: "nope", wantErr: ErrComponentNotFound},
		"path escape":     {name: "../components/card/card", wantErr: ErrComponentNotFound},
		"alias not found": {name: "header-light", wantErr: ErrComponentNotFound},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := b.Resolver.Resolve(tc.name)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(got, tc.want) {
				t.Fatalf("Resolve(%q) = %q, want prefix %q", tc.name, got, tc.want)
			}
		})
	}
}

func TestLookupRejectsEscapingNames(t *testing.T) {
	_, b := setup(t)
	name := "../shout"
	// A script reachable through the escaping name must not be loaded.
	if err := os.WriteFile(b.Registry.ScriptPath(name), []byte("def build(vars, resolve, substitute):\n    return \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	hook, err := b.Registry.Lookup(t.Context(), name)
	if !errors.Is(err, ErrComponentNotFound) {
		t.Fatalf("want ErrComponentNotFound, got %v", err)
	}
	if hook != nil {
		t.Fatal("want no hook")
	}
}

func TestBuildPlain(t *testing.T) {
	_, b := setup(t)
	got, err := b.Build(t.Context(), "card", tmpl.Vars{"TITLE": "Hello"})
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, strings.TrimSpace(got), `<div class="card">Hello at Acme</div>`)
}

func TestBuildLocalVarsWin(t *testing.T) {
	_, b := setup(t)
	got, err := b.Build(t.Context(), "card", tmpl.Vars{"TITLE": "Hi", "SITE_NAME": "Local"})
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, strings.TrimSpace(got), `<div class="card">Hi at Local</div>`)
}

func TestBuildMissing(t *testing.T) {
	_, b := setup(t)
	if _, err := b.Build(t.Context(), "nope", nil); !errors.Is(err, ErrComponentNotFound) {
		t.Fatalf("want ErrComponentNotFound, got %v", err)
	}
}

func TestBuildScriptHook(t *testing.T) {
	root, b := setup(t)

	got, err := b.Build(t.Context(), "shout", tmpl.Vars{"TEXT": "hi"})
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, strings.TrimSpace(got), "<p>HI!</p>")

	// Edits to the script are picked up by the next build.
	script := filepath.Join(root, "components", "shout", "shout.build.star")
	if err := os.WriteFile(script, []byte(`
def build(vars, resolve, substitute):
    return "<b>" + vars["TEXT"] + "</b>"
`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = b.Build(t.Context(), "shout", tmpl.Vars{"TEXT": "hi"})
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, got, "<b>hi</b>")
}

func TestScriptHookWinsOverGoHook(t *testing.T) {
	root, b := setup(t)
	script := filepath.Join(root, "components", "hero", "hero.build.star")
	if err := os.WriteFile(script, []byte("def build(vars, resolve, substitute):\n    return \"scripted\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := b.Build(t.Context(), "hero", nil)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, got, "scripted")
}

func TestScriptHookErrors(t *testing.T) {
	root, b := setup(t)
	script := filepath.Join(root, "components", "card", "card.build.star")

	for name, src := range map[string]string{
		"no build function": "x = 1\n",
		"wrong result type": "def build(vars, resolve, substitute):\n    return 42\n",
		"runtime failure":   "def build(vars, resolve, substitute):\n    return resolve(\"nope\")\n",
	} {
		t.Run(name, func(t *testing.T) {
			if err := os.WriteFile(script, []byte(src), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := b.Build(t.Context(), "card", nil); err == nil {
				t.Fatal("want error")
			}
		})
	}
}

func TestHero(t *testing.T) {
	_, b := setup(t)

	cases := map[string]struct {
		vars tmpl.Vars
		want string
	}{
		"defaults": {
			want: `<section style="height: 100vh; --overlay: 0.45">Welcome|Your subtitle here|assets/images/hero.png</section>`,
		},
		"overrides": {
			vars: tmpl.Vars{"HERO_TITLE": "Hi", "HERO_HEIGHT": "50vh", "HERO_OVERLAY": json.Number("0")},
			want: `<section style="height: 50vh; --overlay: 0">Hi|Your subtitle here|assets/images/hero.png</section>`,
		},
		"explicit empty overlay": {
			vars: tmpl.Vars{"HERO_OVERLAY": ""},
			want: `<section style="height: 100vh; --overlay: ">Welcome|Your subtitle here|assets/images/hero.png</section>`,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := b.Build(t.Context(), "hero", tc.vars)
			if err != nil {
				t.Fatal(err)
			}
			testutil.AssertEqual(t, strings.TrimSpace(got), tc.want)
		})
	}
}

func TestFAQ(t *testing.T) {
	_, b := setup(t)
	got, err := b.Build(t.Context(), "faq", tmpl.Vars{
		"FAQ_TITLE": "Questions",
		"FAQ_ITEMS": []any{
			map[string]any{"question": "Why?", "answer": "Because."},
			map[string]any{"question": "How?", "answer": "Like this."},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(got))
	if err != nil {
		t.Fatal(err)
	}
	items := doc.Find(".faq .faq-item")
	testutil.AssertEqual(t, items.Length(), 2)
	id, _ := items.Eq(1).Attr("id")
	testutil.AssertEqual(t, id, "q2")
	testutil.AssertEqual(t, items.Eq(0).Find("h3").Text(), "Why?")
	if !strings.Contains(got, "Questions") {
		t.Fatalf("FAQ title missing:\n%s", got)
	}
}

func TestFAQInvalidItem(t *testing.T) {
	_, b := setup(t)
	if _, err := b.Build(t.Context(), "faq", tmpl.Vars{"FAQ_ITEMS": []any{"oops"}}); err == nil {
		t.Fatal("want error for malformed FAQ item")
	}
}

func TestProducts(t *testing.T) {
	_, b := setup(t)
	got, err := b.Build(t.Context(), "products", tmpl.Vars{"BUTTON_TEXT": "Buy"})
	if err != nil {
		t.Fatal(err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(got))
	if err != nil {
		t.Fatal(err)
	}

	cards := doc.Find(".product-card")
	testutil.AssertEqual(t, cards.Length(), 2)

	chair := doc.Find("#chair")
	testutil.AssertEqual(t, chair.Find(".carousel-item").Length(), 1)
	testutil.AssertEqual(t, chair.Find(".carousel-control-prev").Length(), 0)
	testutil.AssertEqual(t, chair.Find("h5").Text(), "Chair & Co")
	testutil.AssertEqual(t, chair.Find(".price").Text(), "Price not available")

	lamp := doc.Find("#lamp")
	testutil.AssertEqual(t, lamp.Find(".carousel-item").Length(), 3)
	testutil.AssertEqual(t, lamp.Find(".carousel-indicators button").Length(), 3)
	href, _ := lamp.Find("a").Last().Attr("href")
	testutil.AssertEqual(t, href, "product-lamp.html")
	testutil.AssertEqual(t, lamp.Find("a").Last().Text(), "Buy")
	src, _ := lamp.Find(".carousel-item img").First().Attr("src")
	testutil.AssertEqual(t, src, "products/lamp/1.jpg")
}

func TestProductsEmpty(t *testing.T) {
	_, b := setup(t)
	got, err := b.Build(t.Context(), "products", tmpl.Vars{"PRODUCTS_DIR": "nothing-here"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "No products available") {
		t.Fatalf("want empty notice, got:\n%s", got)
	}
}

func TestContactIcons(t *testing.T) {
	_, b := setup(t)

	got, err := b.Build(t.Context(), "contactIcons", tmpl.Vars{
		"SOCIAL_GITHUB":         "https://github.com/acme",
		"SOCIAL_TELEGRAM":       "https://t.me/acme",
		"SOCIAL_LINKS_VIBER":    "viber://chat?number=1",
		"SOCIAL_MYSPACE":        "https://myspace.com/acme",
		"SOCIAL_INSTAGRAM":      "",
		"SOCIAL_UNRELATED_LIST": []any{"x"},
	})
	if err != nil {
		t.Fatal(err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(got))
	if err != nil {
		t.Fatal(err)
	}
	var labels []string
	doc.Find(".icons a").Each(func(_ int, s *goquery.Selection) {
		l, _ := s.Attr("aria-label")
		labels = append(labels, l)
	})
	testutil.AssertEqual(t, labels, []string{"Telegram", "Viber", "GitHub"})
	testutil.AssertEqual(t, doc.Find(".icons img.bi").Length(), 1)

	empty, err := b.Build(t.Context(), "contactIcons", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(empty, "No social links configured") {
		t.Fatalf("want notice, got:\n%s", empty)
	}
}
