// Package i18n translates the console's server-side strings. Chinese is the
// source language: message keys are the Chinese text itself.
package i18n

import (
	"golang.org/x/text/language"
)

// Messages returned by the option API.
const (
	MsgSaved       = "保存成功"
	MsgSaveFailed  = "保存失败，请重试"
	MsgReset       = "已重置为默认配置"
	MsgInvalidLink = "无效的链接"
)

// Translator looks up the display text for a source-language key.
type Translator interface {
	T(key string) string
}

// Catalog is a set of translations for one language.
type Catalog struct {
	tag      language.Tag
	messages map[string]string
}

// T returns the translation of key, or key itself when none exists.
func (c *Catalog) T(key string) string {
	if v, ok := c.messages[key]; ok {
		return v
	}
	return key
}

// Tag returns the catalog language.
func (c *Catalog) Tag() language.Tag {
	return c.tag
}

var english = map[string]string{
	"首页":     "Home",
	"控制台":    "Console",
	"模型广场":   "Pricing",
	"文档":     "Docs",
	"关于":     "About",
	"如登录不了，": "Can't log in? ",
	"如注册不了，": "Can't sign up? ",
	"点击联系客服": "Contact support",
	"联系客服":   "Contact support",

	MsgSaved:       "Saved",
	MsgSaveFailed:  "Save failed, please try again",
	MsgReset:       "Reset to defaults",
	MsgInvalidLink: "Invalid link",
}

var (
	source   = &Catalog{tag: language.Chinese, messages: map[string]string{}}
	catalogs = []*Catalog{
		source,
		{tag: language.English, messages: english},
	}
	matcher = language.NewMatcher([]language.Tag{language.Chinese, language.English})
)

// Source returns the identity catalog for the source language.
func Source() *Catalog {
	return source
}

// Match picks the catalog that best fits an Accept-Language header value.
// Anything unparseable or unsupported falls back to the source language.
func Match(acceptLanguage string) *Catalog {
	if acceptLanguage == "" {
		return source
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return source
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return source
	}
	return catalogs[idx]
}
