package domain

import (
	"encoding/json"
	"fmt"
)

// Customer service page contexts.
const (
	CustomerServiceLogin    = "login"
	CustomerServiceRegister = "register"
	CustomerServiceTopup    = "topup"
)

// CustomerServiceSection is the link shown on one page.
type CustomerServiceSection struct {
	Enabled  bool   `json:"enabled"`
	Text     string `json:"text" validate:"max=200"`
	LinkText string `json:"linkText" validate:"max=100"`
	Link     string `json:"link" validate:"max=2048"`

	extra map[string]json.RawMessage
}

var sectionKnownFields = []string{"enabled", "text", "linkText", "link"}

// UnmarshalJSON decodes over the current value, so fields missing from
// data keep their defaults. Unknown fields are kept.
func (s *CustomerServiceSection) UnmarshalJSON(data []byte) error {
	type plain CustomerServiceSection
	if err := json.Unmarshal(data, (*plain)(s)); err != nil {
		return err
	}
	extra, err := unknownFields(data, sectionKnownFields...)
	if err != nil {
		return err
	}
	s.extra = extra
	return nil
}

// MarshalJSON encodes the known fields and any preserved unknown ones.
func (s CustomerServiceSection) MarshalJSON() ([]byte, error) {
	type plain CustomerServiceSection
	data, err := json.Marshal(plain(s))
	if err != nil {
		return nil, err
	}
	return appendUnknown(data, s.extra)
}

// CustomerServiceConfig is the stored CustomerServiceConfig document.
type CustomerServiceConfig struct {
	Enabled  bool                   `json:"enabled"`
	Login    CustomerServiceSection `json:"login"`
	Register CustomerServiceSection `json:"register"`
	Topup    CustomerServiceSection `json:"topup"`

	extra map[string]json.RawMessage
}

var customerServiceKnownFields = []string{
	"enabled", CustomerServiceLogin, CustomerServiceRegister, CustomerServiceTopup,
}

// UnmarshalJSON decodes over the current value and keeps unknown fields.
func (c *CustomerServiceConfig) UnmarshalJSON(data []byte) error {
	type plain CustomerServiceConfig
	if err := json.Unmarshal(data, (*plain)(c)); err != nil {
		return err
	}
	extra, err := unknownFields(data, customerServiceKnownFields...)
	if err != nil {
		return err
	}
	c.extra = extra
	return nil
}

// MarshalJSON encodes the known fields and any preserved unknown ones.
func (c CustomerServiceConfig) MarshalJSON() ([]byte, error) {
	type plain CustomerServiceConfig
	data, err := json.Marshal(plain(c))
	if err != nil {
		return nil, err
	}
	return appendUnknown(data, c.extra)
}

// DefaultCustomerServiceConfig returns the configuration used before anything is saved.
func DefaultCustomerServiceConfig() *CustomerServiceConfig {
	return &CustomerServiceConfig{
		Enabled: false,
		Login: CustomerServiceSection{
			Enabled:  true,
			Text:     "如登录不了，",
			LinkText: "点击联系客服",
		},
		Register: CustomerServiceSection{
			Enabled:  true,
			Text:     "如注册不了，",
			LinkText: "点击联系客服",
		},
		Topup: CustomerServiceSection{
			Enabled:  true,
			LinkText: "联系客服",
		},
	}
}

// ParseCustomerServiceConfig decodes a stored document over the defaults,
// so sections missing from raw keep their default values.
func ParseCustomerServiceConfig(raw string) (*CustomerServiceConfig, error) {
	cfg := DefaultCustomerServiceConfig()
	if err := json.Unmarshal([]byte(raw), cfg); err != nil {
		return nil, fmt.Errorf("parse customer service config: %w", err)
	}
	return cfg, nil
}

// Encode returns the canonical JSON string of the document.
func (c *CustomerServiceConfig) Encode() string {
	data, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Section returns the section for a page context.
func (c *CustomerServiceConfig) Section(name string) (*CustomerServiceSection, bool) {
	switch name {
	case CustomerServiceLogin:
		return &c.Login, true
	case CustomerServiceRegister:
		return &c.Register, true
	case CustomerServiceTopup:
		return &c.Topup, true
	default:
		return nil, false
	}
}

// Update sets a field. An empty section addresses the top-level enabled flag.
func (c *CustomerServiceConfig) Update(section, field string, value any) error {
	if section == "" {
		if field != "enabled" {
			return fmt.Errorf("unknown customer service field %q", field)
		}
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("enabled must be a bool, got %T", value)
		}
		c.Enabled = b
		return nil
	}

	s, ok := c.Section(section)
	if !ok {
		return fmt.Errorf("unknown customer service section %q", section)
	}

	if field == "enabled" {
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("enabled must be a bool, got %T", value)
		}
		s.Enabled = b
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("%s must be a string, got %T", field, value)
	}
	switch field {
	case "text":
		s.Text = str
	case "linkText":
		s.LinkText = str
	case "link":
		s.Link = str
	default:
		return fmt.Errorf("unknown customer service field %q", field)
	}
	return nil
}

// ActiveLink returns the section to display on a page, or false when the
// page shows no customer service link.
func (c *CustomerServiceConfig) ActiveLink(page string) (CustomerServiceSection, bool) {
	if !c.Enabled {
		return CustomerServiceSection{}, false
	}
	s, ok := c.Section(page)
	if !ok || !s.Enabled || s.Link == "" {
		return CustomerServiceSection{}, false
	}
	return *s, true
}
