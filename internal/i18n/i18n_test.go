package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestInitWithOverride(t *testing.T) {
	require.NoError(t, Init("zh"))
	assert.Equal(t, language.Chinese, CurrentLanguage())

	require.NoError(t, Init("en"))
	assert.Equal(t, language.English, CurrentLanguage())
}

func TestTranslateKnownMessage(t *testing.T) {
	require.NoError(t, Init("en"))
	assert.Equal(t, "Print version information", T("cmd.version.short"))
}

func TestTranslateFallsBackToID(t *testing.T) {
	require.NoError(t, Init("en"))
	assert.Equal(t, "no.such.message", T("no.such.message"))
}

func TestPluralForms(t *testing.T) {
	require.NoError(t, Init("en"))

	one := T("discover.found", map[string]interface{}{"Count": 1, "Name": "Top Free"})
	many := T("discover.found", map[string]interface{}{"Count": 3, "Name": "Top Free"})
	assert.Equal(t, "Found 1 package in Top Free", one)
	assert.Equal(t, "Found 3 packages in Top Free", many)
}

func TestParseLocale(t *testing.T) {
	tag, ok := parseLocale("en_GB.UTF-8")
	require.True(t, ok)
	assert.Equal(t, "en-GB", tag.String())

	_, ok = parseLocale("not a locale")
	assert.False(t, ok)
}

func TestSelectLanguagePrefersChineseCandidates(t *testing.T) {
	t.Setenv("APKCRAWL_LANG", "zh_CN.UTF-8")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "en_US.UTF-8")

	assert.Equal(t, language.Chinese, selectLanguage(""))
	assert.Equal(t, language.English, selectLanguage("en"))
}
