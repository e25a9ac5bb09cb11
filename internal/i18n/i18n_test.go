package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		header string
		want   language.Tag
	}{
		{header: "", want: language.Chinese},
		{header: "en-US,en;q=0.9", want: language.English},
		{header: "en-GB", want: language.English},
		{header: "zh-CN,zh;q=0.9,en;q=0.8", want: language.Chinese},
		{header: "zh-TW", want: language.Chinese},
		{header: "fr-FR;q=0.9, en;q=0.5", want: language.English},
		{header: "ja-JP", want: language.Chinese},
		{header: "@@not a header@@", want: language.Chinese},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.header).Tag())
		})
	}
}

func TestCatalog_T(t *testing.T) {
	en := Match("en")

	assert.Equal(t, "Home", en.T("首页"))
	assert.Equal(t, "Saved", en.T(MsgSaved))
	assert.Equal(t, "未收录", en.T("未收录"), "unknown keys return themselves")

	assert.Equal(t, "首页", Source().T("首页"))
	assert.Equal(t, MsgSaveFailed, Source().T(MsgSaveFailed))
}
