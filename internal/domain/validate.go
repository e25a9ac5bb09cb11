package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// FieldError describes one invalid field of a document.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every problem found in a document.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// AsValidationErrors extracts document validation details from err.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}

// Validate checks the menu types and the URLs of entries that would be shown.
func (m *HeaderNavModules) Validate() error {
	var errs ValidationErrors
	for i, menu := range m.CustomMenus {
		field := fmt.Sprintf("customMenus[%d]", i)
		if !menu.Type.Valid() {
			errs = append(errs, FieldError{Field: field + ".type", Message: fmt.Sprintf("unknown menu type %q", menu.Type)})
			continue
		}
		if !menu.Visible() {
			continue
		}
		switch menu.Type.Effective() {
		case MenuInternal:
			if !strings.HasPrefix(menu.URL, "/") {
				errs = append(errs, FieldError{Field: field + ".url", Message: "internal links must start with /"})
			}
		default:
			if !isHTTPURL(menu.URL) {
				errs = append(errs, FieldError{Field: field + ".url", Message: "must be an absolute http(s) URL"})
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks the links of enabled sections.
func (c *CustomerServiceConfig) Validate() error {
	var errs ValidationErrors
	for _, name := range []string{CustomerServiceLogin, CustomerServiceRegister, CustomerServiceTopup} {
		s, _ := c.Section(name)
		if s.Enabled && s.Link != "" && !isAbsoluteURL(s.Link) {
			errs = append(errs, FieldError{Field: name + ".link", Message: "must be an absolute URL"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
