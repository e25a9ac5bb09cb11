package domain

import (
	"slices"
	"time"
)

// Option is a single stored console option.
// Values are opaque strings; structured options hold a JSON document.
type Option struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Well-known option keys.
const (
	OptionHeaderNavModules      = "HeaderNavModules"
	OptionCustomerServiceConfig = "CustomerServiceConfig"
	OptionDocsLink              = "DocsLink"
	OptionSystemName            = "SystemName"
	OptionLogo                  = "Logo"
	OptionFooter                = "Footer"
	OptionAbout                 = "About"
	OptionNotice                = "Notice"
	OptionHomePageContent       = "HomePageContent"
)

// OptionKind describes how an option value is interpreted.
type OptionKind string

const (
	// OptionKindString values are stored verbatim.
	OptionKindString OptionKind = "string"
	// OptionKindDocument values are JSON documents with a typed schema.
	OptionKindDocument OptionKind = "document"
)

// OptionDefinition registers a key the console is allowed to write.
type OptionDefinition struct {
	Key  string
	Kind OptionKind
	// Default returns the value reported when nothing is stored.
	Default func() string
}

var optionRegistry = map[string]OptionDefinition{
	OptionHeaderNavModules: {
		Key:     OptionHeaderNavModules,
		Kind:    OptionKindDocument,
		Default: func() string { return DefaultHeaderNavModules().Encode() },
	},
	OptionCustomerServiceConfig: {
		Key:     OptionCustomerServiceConfig,
		Kind:    OptionKindDocument,
		Default: func() string { return DefaultCustomerServiceConfig().Encode() },
	},
	OptionDocsLink:        stringOption(OptionDocsLink),
	OptionSystemName:      stringOption(OptionSystemName),
	OptionLogo:            stringOption(OptionLogo),
	OptionFooter:          stringOption(OptionFooter),
	OptionAbout:           stringOption(OptionAbout),
	OptionNotice:          stringOption(OptionNotice),
	OptionHomePageContent: stringOption(OptionHomePageContent),
}

func stringOption(key string) OptionDefinition {
	return OptionDefinition{
		Key:     key,
		Kind:    OptionKindString,
		Default: func() string { return "" },
	}
}

// LookupOption returns the definition registered for key.
func LookupOption(key string) (OptionDefinition, bool) {
	def, ok := optionRegistry[key]
	return def, ok
}

// OptionKeys returns every registered key in sorted order.
func OptionKeys() []string {
	keys := make([]string, 0, len(optionRegistry))
	for k := range optionRegistry {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
