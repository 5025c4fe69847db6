// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package component

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"go.astrophena.name/base/logger"
	"go.astrophena.name/sitegen/internal/catalog"
	"go.astrophena.name/sitegen/internal/tmpl"
)

// RegisterDefaults registers the built-in hooks: hero, faq, products and
// contactIcons. Catalog paths are resolved against siteRoot and product links
// use pagePrefix.
func RegisterDefaults(ctx context.Context, r *Registry, siteRoot, pagePrefix string) {
	r.Register("hero", HookFunc(buildHero))
	r.Register("faq", HookFunc(buildFAQ))
	r.Register("products", &productsHook{ctx: ctx, root: siteRoot, prefix: pagePrefix})
	r.Register("contactIcons", HookFunc(buildContactIcons))
}

var heroDefaults = []struct{ key, def string }{
	{"HERO_TITLE", "Welcome"},
	{"HERO_SUBTITLE", "Your subtitle here"},
	{"HERO_BG_IMAGE", "assets/images/hero.png"},
	{"HERO_HEIGHT", "100vh"},
}

func buildHero(vars tmpl.Vars, resolve ResolveFunc, substitute SubstituteFunc) (string, error) {
	hero := tmpl.Merge(vars)
	for _, d := range heroDefaults {
		hero[d.key] = vars.Lookup(d.key, d.def)
	}
	// An explicit overlay is kept even when it's empty.
	if _, ok := vars["HERO_OVERLAY"]; !ok {
		hero["HERO_OVERLAY"] = "0.45"
	}
	template, err := resolve("hero")
	if err != nil {
		return "", err
	}
	return substitute(template, hero), nil
}

func buildFAQ(vars tmpl.Vars, resolve ResolveFunc, substitute SubstituteFunc) (string, error) {
	itemTemplate, err := resolve("faqItem")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	items, _ := vars["FAQ_ITEMS"].([]any)
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return "", fmt.Errorf("FAQ_ITEMS[%d]: want object, got %T", i, item)
		}
		q := tmpl.Vars(m)
		sb.WriteString(substitute(itemTemplate, tmpl.Vars{
			"ITEM_INDEX": strconv.Itoa(i + 1),
			"QUESTION":   q.Lookup("question", ""),
			"ANSWER":     q.Lookup("answer", ""),
		}))
		sb.WriteString("\n")
	}

	template, err := resolve("faq")
	if err != nil {
		return "", err
	}
	return substitute(template, tmpl.Merge(vars, tmpl.Vars{"FAQ_ITEMS": sb.String()})), nil
}

const noProducts = `<div class="col-12"><p class="text-center text-muted">No products available</p></div>`

type productsHook struct {
	ctx    context.Context
	root   string
	prefix string
}

func (h *productsHook) Build(vars tmpl.Vars, resolve ResolveFunc, substitute SubstituteFunc) (string, error) {
	dir := vars.Lookup("PRODUCTS_DIR", "products")
	buttonText := vars.Lookup("BUTTON_TEXT", "View Details")

	cardTemplate, err := resolve("productCard")
	if err != nil {
		return "", err
	}

	items, err := catalog.Load(h.ctx, filepath.Join(h.root, dir))
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info(h.ctx, "products directory not found", slog.String("dir", dir))
	} else if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, it := range items {
		name := it.Name("Untitled Product")
		c := &catalog.Carousel{
			Target:     "carousel-" + it.ID,
			Alt:        it.Name("Product"),
			ImageClass: "d-block w-100 product-image",
			Images:     it.ImageURLs(filepath.ToSlash(dir)),
			Indent:     "          ",
		}
		sb.WriteString(substitute(cardTemplate, tmpl.Vars{
			"PRODUCT_ID":          it.ID,
			"CAROUSEL_IMAGES":     c.Slides(),
			"CAROUSEL_CONTROLS":   c.Controls(),
			"PRODUCT_NAME":        html.EscapeString(name),
			"PRODUCT_DESCRIPTION": html.EscapeString(it.Field("description", "")),
			"PRODUCT_PRICE":       html.EscapeString(it.Field("price", "Price not available")),
			"PRODUCT_LINK":        h.prefix + it.ID + ".html",
			"BUTTON_TEXT":         buttonText,
		}))
		sb.WriteString("\n")
	}
	productsHTML := sb.String()
	if productsHTML == "" {
		productsHTML = noProducts
	}

	template, err := resolve("products")
	if err != nil {
		return "", err
	}
	return substitute(template, tmpl.Merge(vars, tmpl.Vars{"PRODUCTS_HTML": productsHTML})), nil
}

// socialPlatforms lists supported platforms in the order they are rendered.
var socialPlatforms = []struct {
	name, icon, label string
}{
	{"telegram", "bi-telegram", "Telegram"},
	{"whatsapp", "bi-whatsapp", "WhatsApp"},
	{"instagram", "bi-instagram", "Instagram"},
	{"signal", "bi-signal", "Signal"},
	{"viber", "viber-custom", "Viber"},
	{"facebook", "bi-facebook", "Facebook"},
	{"twitter", "bi-twitter", "Twitter"},
	{"linkedin", "bi-linkedin", "LinkedIn"},
	{"youtube", "bi-youtube", "YouTube"},
	{"github", "bi-github", "GitHub"},
	{"email", "bi-envelope", "Email"},
	{"phone", "bi-telephone", "Phone"},
}

const viberIcon = "assets/images/viber-brands-solid-full.svg"

// buildContactIcons renders links from the "social" configuration object,
// flattened as SOCIAL_<PLATFORM>. SOCIAL_LINKS_<PLATFORM> is accepted too.
func buildContactIcons(vars tmpl.Vars, resolve ResolveFunc, substitute SubstituteFunc) (string, error) {
	var sb strings.Builder
	for _, p := range socialPlatforms {
		key := strings.ToUpper(p.name)
		url := vars.Lookup("SOCIAL_"+key, vars.Lookup("SOCIAL_LINKS_"+key, ""))
		if url == "" {
			continue
		}
		fmt.Fprintf(&sb, "\n          <a href=\"%s\" target=\"_blank\" aria-label=\"%s\">", html.EscapeString(url), p.label)
		if p.name == "viber" {
			fmt.Fprintf(&sb, "\n            <img class=\"bi\" src=\"%s\" alt=\"%s\">", viberIcon, p.label)
		} else {
			fmt.Fprintf(&sb, "\n            <i class=\"bi %s\"></i>", p.icon)
		}
		sb.WriteString("\n          </a>")
	}
	icons := sb.String()
	if icons == "" {
		icons = "<!-- No social links configured -->"
	}

	template, err := resolve("contactIcons")
	if err != nil {
		return "", err
	}
	return substitute(template, tmpl.Merge(vars, tmpl.Vars{"SOCIAL_ICONS": icons})), nil
}
