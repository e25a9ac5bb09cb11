package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MenuType is the delivery mode of a custom menu entry.
type MenuType string

const (
	// MenuInternal routes inside the console.
	MenuInternal MenuType = "internal"
	// MenuIframe embeds an external page inside the console.
	MenuIframe MenuType = "iframe"
	// MenuExternal opens an external page in a new tab.
	MenuExternal MenuType = "external"
)

// Effective returns the type used for routing. An unset type is internal.
func (t MenuType) Effective() MenuType {
	if t == "" {
		return MenuInternal
	}
	return t
}

// Valid reports whether t is unset or one of the known types.
func (t MenuType) Valid() bool {
	switch t {
	case "", MenuInternal, MenuIframe, MenuExternal:
		return true
	default:
		return false
	}
}

// CustomMenu is a user-defined header navigation entry.
type CustomMenu struct {
	Text    string   `json:"text" validate:"max=64"`
	URL     string   `json:"url" validate:"max=2048"`
	Type    MenuType `json:"type,omitempty" validate:"omitempty,oneof=internal iframe external"`
	Enabled bool     `json:"enabled"`

	extra map[string]json.RawMessage
}

var customMenuKnownFields = []string{"text", "url", "type", "enabled"}

// UnmarshalJSON decodes the known fields and keeps the rest.
func (m *CustomMenu) UnmarshalJSON(data []byte) error {
	type plain CustomMenu
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := unknownFields(data, customMenuKnownFields...)
	if err != nil {
		return err
	}
	*m = CustomMenu(v)
	m.extra = extra
	return nil
}

// MarshalJSON encodes the known fields and any preserved unknown ones.
func (m CustomMenu) MarshalJSON() ([]byte, error) {
	type plain CustomMenu
	data, err := json.Marshal(plain(m))
	if err != nil {
		return nil, err
	}
	return appendUnknown(data, m.extra)
}

func (m CustomMenu) clone() CustomMenu {
	m.extra = cloneUnknown(m.extra)
	return m
}

// Visible reports whether the entry shows up in the header.
func (m CustomMenu) Visible() bool {
	return m.Enabled && m.Text != "" && m.URL != ""
}

// PricingModule controls the pricing entry of the header.
// Older configurations stored it as a plain boolean.
type PricingModule struct {
	Enabled     bool `json:"enabled"`
	RequireAuth bool `json:"requireAuth"`

	extra map[string]json.RawMessage
}

var pricingKnownFields = []string{"enabled", "requireAuth"}

// UnmarshalJSON accepts the object form and the legacy scalar form. A
// scalar switches pricing on when it is truthy: anything but null, false,
// 0 or "". Login is not required in the scalar form.
func (p *PricingModule) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("pricing: %w", err)
		}
		*p = PricingModule{Enabled: truthy(v)}
		return nil
	}

	type plain PricingModule
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	extra, err := unknownFields(data, pricingKnownFields...)
	if err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	*p = PricingModule(v)
	p.extra = extra
	return nil
}

// MarshalJSON always writes the object form.
func (p PricingModule) MarshalJSON() ([]byte, error) {
	type plain PricingModule
	data, err := json.Marshal(plain(p))
	if err != nil {
		return nil, err
	}
	return appendUnknown(data, p.extra)
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// Header module keys.
const (
	ModuleHome    = "home"
	ModuleConsole = "console"
	ModulePricing = "pricing"
	ModuleDocs    = "docs"
	ModuleAbout   = "about"
)

// HeaderNavModules is the stored HeaderNavModules document.
type HeaderNavModules struct {
	Home        bool          `json:"home"`
	Console     bool          `json:"console"`
	Pricing     PricingModule `json:"pricing"`
	Docs        bool          `json:"docs"`
	About       bool          `json:"about"`
	CustomMenus []CustomMenu  `json:"customMenus" validate:"dive"`

	// extra keeps top-level fields this version does not know about.
	extra map[string]json.RawMessage
}

var headerNavKnownFields = []string{
	ModuleHome, ModuleConsole, ModulePricing, ModuleDocs, ModuleAbout, "customMenus",
}

// DefaultHeaderNavModules returns the configuration used before anything is saved.
func DefaultHeaderNavModules() *HeaderNavModules {
	return &HeaderNavModules{
		Home:        true,
		Console:     true,
		Pricing:     PricingModule{Enabled: true, RequireAuth: false},
		Docs:        true,
		About:       true,
		CustomMenus: []CustomMenu{},
	}
}

// ParseHeaderNavModules decodes a stored document.
// Legacy boolean pricing values come back in object form and a missing
// customMenus list comes back empty.
func ParseHeaderNavModules(raw string) (*HeaderNavModules, error) {
	var m HeaderNavModules
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("parse header nav modules: %w", err)
	}
	if m.CustomMenus == nil {
		m.CustomMenus = []CustomMenu{}
	}
	return &m, nil
}

// UnmarshalJSON decodes the known fields and keeps the rest.
func (m *HeaderNavModules) UnmarshalJSON(data []byte) error {
	type plain HeaderNavModules
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	extra, err := unknownFields(data, headerNavKnownFields...)
	if err != nil {
		return err
	}

	*m = HeaderNavModules(v)
	m.extra = extra
	return nil
}

// MarshalJSON encodes the known fields followed by any preserved unknown fields.
func (m HeaderNavModules) MarshalJSON() ([]byte, error) {
	type plain HeaderNavModules
	v := plain(m)
	if v.CustomMenus == nil {
		v.CustomMenus = []CustomMenu{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return appendUnknown(data, m.extra)
}

// Encode returns the canonical JSON string of the document.
func (m *HeaderNavModules) Encode() string {
	data, err := json.Marshal(m)
	if err != nil {
		// Extra fields were decoded from valid JSON, so this is unreachable.
		return "{}"
	}
	return string(data)
}

// Clone returns a deep copy.
func (m *HeaderNavModules) Clone() *HeaderNavModules {
	c := *m
	c.CustomMenus = make([]CustomMenu, len(m.CustomMenus))
	for i, menu := range m.CustomMenus {
		c.CustomMenus[i] = menu.clone()
	}
	c.Pricing.extra = cloneUnknown(m.Pricing.extra)
	c.extra = cloneUnknown(m.extra)
	return &c
}

// ModuleEnabled reports whether a built-in module is switched on.
func (m *HeaderNavModules) ModuleEnabled(key string) bool {
	switch key {
	case ModuleHome:
		return m.Home
	case ModuleConsole:
		return m.Console
	case ModulePricing:
		return m.Pricing.Enabled
	case ModuleDocs:
		return m.Docs
	case ModuleAbout:
		return m.About
	default:
		return false
	}
}

// SetModule switches a built-in module. For pricing only the enabled flag changes.
func (m *HeaderNavModules) SetModule(key string, enabled bool) error {
	switch key {
	case ModuleHome:
		m.Home = enabled
	case ModuleConsole:
		m.Console = enabled
	case ModulePricing:
		m.Pricing.Enabled = enabled
	case ModuleDocs:
		m.Docs = enabled
	case ModuleAbout:
		m.About = enabled
	default:
		return fmt.Errorf("unknown header module %q", key)
	}
	return nil
}

// SetPricingRequireAuth toggles login gating of the pricing page.
func (m *HeaderNavModules) SetPricingRequireAuth(required bool) {
	m.Pricing.RequireAuth = required
}

// AddCustomMenu appends an empty enabled internal entry.
func (m *HeaderNavModules) AddCustomMenu() {
	m.CustomMenus = append(m.CustomMenus, CustomMenu{Type: MenuInternal, Enabled: true})
}

// RemoveCustomMenu deletes the entry at index i.
func (m *HeaderNavModules) RemoveCustomMenu(i int) error {
	if i < 0 || i >= len(m.CustomMenus) {
		return fmt.Errorf("custom menu index %d out of range", i)
	}
	m.CustomMenus = append(m.CustomMenus[:i:i], m.CustomMenus[i+1:]...)
	return nil
}

// UpdateCustomMenu sets one field of the entry at index i.
// Field names follow the stored JSON: text, url, type, enabled.
func (m *HeaderNavModules) UpdateCustomMenu(i int, field string, value any) error {
	if i < 0 || i >= len(m.CustomMenus) {
		return fmt.Errorf("custom menu index %d out of range", i)
	}
	menu := &m.CustomMenus[i]

	switch field {
	case "text", "url", "type":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("custom menu %s must be a string, got %T", field, value)
		}
		switch field {
		case "text":
			menu.Text = s
		case "url":
			menu.URL = strings.TrimSpace(s)
		default:
			t := MenuType(s)
			if !t.Valid() {
				return fmt.Errorf("unknown custom menu type %q", s)
			}
			menu.Type = t
		}
	case "enabled":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("custom menu enabled must be a bool, got %T", value)
		}
		menu.Enabled = b
	default:
		return fmt.Errorf("unknown custom menu field %q", field)
	}
	return nil
}

// Reset restores the default configuration, dropping unknown fields.
func (m *HeaderNavModules) Reset() {
	*m = *DefaultHeaderNavModules()
}
