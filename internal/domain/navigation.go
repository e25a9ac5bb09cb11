package domain

import (
	"errors"
	"strconv"
)

// Translator looks up the display text for a source-language message.
type Translator interface {
	T(key string) string
}

// NavLink is one entry of the header navigation.
type NavLink struct {
	Text         string `json:"text"`
	ItemKey      string `json:"itemKey"`
	To           string `json:"to,omitempty"`
	IsExternal   bool   `json:"isExternal"`
	ExternalLink string `json:"externalLink,omitempty"`
}

// Source-language labels of the built-in links.
const (
	LabelHome    = "首页"
	LabelConsole = "控制台"
	LabelPricing = "模型广场"
	LabelDocs    = "文档"
	LabelAbout   = "关于"
)

// IframeSandbox is the sandbox attribute applied to embedded custom menus.
const IframeSandbox = "allow-scripts allow-same-origin allow-forms allow-popups allow-popups-to-escape-sandbox"

// IframeRoute returns the console route of the k-th visible iframe entry.
func IframeRoute(k int) string {
	return "/iframe/" + strconv.Itoa(k)
}

// DeriveNavLinks builds the header links from the module configuration.
// A nil configuration shows every built-in module. The docs link only
// appears when docsLink is set, whatever the docs flag says.
func DeriveNavLinks(modules *HeaderNavModules, docsLink string, tr Translator) []NavLink {
	if modules == nil {
		modules = DefaultHeaderNavModules()
	}
	if tr == nil {
		tr = identityTranslator{}
	}

	links := make([]NavLink, 0, 5+len(modules.CustomMenus))

	if modules.Home {
		links = append(links, NavLink{Text: tr.T(LabelHome), ItemKey: ModuleHome, To: "/"})
	}
	if modules.Console {
		links = append(links, NavLink{Text: tr.T(LabelConsole), ItemKey: ModuleConsole, To: "/console"})
	}
	if modules.Pricing.Enabled {
		links = append(links, NavLink{Text: tr.T(LabelPricing), ItemKey: ModulePricing, To: "/pricing"})
	}
	if docsLink != "" && modules.Docs {
		links = append(links, NavLink{
			Text:         tr.T(LabelDocs),
			ItemKey:      ModuleDocs,
			IsExternal:   true,
			ExternalLink: docsLink,
		})
	}
	if modules.About {
		links = append(links, NavLink{Text: tr.T(LabelAbout), ItemKey: ModuleAbout, To: "/about"})
	}

	iframeIndex := 0
	visible := 0
	for _, menu := range modules.CustomMenus {
		if !menu.Visible() {
			continue
		}
		link := NavLink{
			Text:    menu.Text,
			ItemKey: "custom_" + strconv.Itoa(visible),
		}
		visible++

		switch menu.Type.Effective() {
		case MenuInternal:
			link.To = menu.URL
		case MenuIframe:
			link.To = IframeRoute(iframeIndex)
			iframeIndex++
		default:
			link.IsExternal = true
			link.ExternalLink = menu.URL
		}
		links = append(links, link)
	}

	return links
}

// ErrIframeNotFound is returned when a route id does not name an embeddable menu.
var ErrIframeNotFound = errors.New("iframe menu not found")

// IframeMenus returns the visible iframe entries in stored order. The
// position of an entry in this list is its route id, and it uses the same
// visibility rule as DeriveNavLinks so both sides agree on the index.
func IframeMenus(modules *HeaderNavModules) []CustomMenu {
	if modules == nil {
		return nil
	}
	var out []CustomMenu
	for _, menu := range modules.CustomMenus {
		if menu.Type == MenuIframe && menu.Visible() {
			out = append(out, menu)
		}
	}
	return out
}

// ResolveIframeMenu returns the entry behind the route parameter id.
// Non-numeric, negative and out-of-range ids resolve to ErrIframeNotFound.
func ResolveIframeMenu(modules *HeaderNavModules, id string) (*CustomMenu, error) {
	menus := IframeMenus(modules)

	idx, err := strconv.Atoi(id)
	if err != nil || idx < 0 || idx >= len(menus) {
		return nil, ErrIframeNotFound
	}

	menu := menus[idx]
	return &menu, nil
}

type identityTranslator struct{}

func (identityTranslator) T(key string) string { return key }
