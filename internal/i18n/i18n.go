// Package i18n localizes the CLI's user-facing output. English and
// Simplified Chinese catalogs are compiled into the binary.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var messageFiles = []string{
	"locales/active.en.toml",
	"locales/active.zh.toml",
}

var (
	bundle          *goi18n.Bundle
	localizer       *goi18n.Localizer
	currentLanguage = language.English

	supportedMatcher = language.NewMatcher([]language.Tag{
		language.English,
		language.SimplifiedChinese,
		language.Chinese,
	})
)

// Init loads the embedded catalogs and picks the language. Precedence:
// the --lang override, then APKCRAWL_LANG, then the usual POSIX locale
// variables, then the platform locale list, then English.
func Init(langOverride string) error {
	bundle = goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range messageFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}

	chosen := selectLanguage(langOverride)
	localizer = goi18n.NewLocalizer(bundle, chosen.String(), language.English.String())
	currentLanguage = chosen
	return nil
}

// T translates a message by ID. A missing translation yields the ID
// itself; the CLI must never print an empty line where a message
// belongs.
func T(id string, data ...map[string]interface{}) string {
	templateData := map[string]interface{}{}
	if len(data) > 0 && data[0] != nil {
		templateData = data[0]
	}

	if localizer == nil {
		if err := Init(""); err != nil {
			fmt.Fprintf(os.Stderr, "i18n init failed: %v\n", err)
		}
		if localizer == nil {
			return id
		}
	}

	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:      id,
		TemplateData:   templateData,
		PluralCount:    pluralCount(templateData),
		DefaultMessage: &goi18n.Message{ID: id, Other: id},
	})
	if err != nil || msg == "" {
		return id
	}
	return msg
}

// CurrentLanguage returns the chosen language tag.
func CurrentLanguage() language.Tag {
	return currentLanguage
}

func selectLanguage(langOverride string) language.Tag {
	// An explicit --lang wins over every environment hint.
	if langOverride != "" {
		if strings.HasPrefix(strings.ToLower(langOverride), "zh") {
			return language.Chinese
		}
		if tag, ok := parseLocale(langOverride); ok {
			matched, _, _ := supportedMatcher.Match(tag)
			return matched
		}
	}

	var candidates []string
	for _, key := range []string{"APKCRAWL_LANG", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			candidates = append(candidates, val)
		}
	}
	if len(candidates) == 0 {
		// Typically Windows, where the locale env vars are absent.
		candidates = getPlatformLocales()
	}

	// Any Chinese candidate wins outright; with only two catalogs a
	// prefix check beats tag matching on strings like zh_CN.UTF-8.
	for _, cand := range candidates {
		if strings.HasPrefix(strings.ToLower(cand), "zh") {
			return language.Chinese
		}
	}

	var tags []language.Tag
	for _, cand := range candidates {
		if tag, ok := parseLocale(cand); ok {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return language.English
	}
	tag, _, _ := supportedMatcher.Match(tags...)
	return tag
}

// parseLocale turns a POSIX locale string like en_GB.UTF-8 into a
// language tag.
func parseLocale(raw string) (language.Tag, bool) {
	clean := strings.TrimSpace(raw)
	if idx := strings.Index(clean, "."); idx >= 0 {
		clean = clean[:idx]
	}
	clean = strings.ReplaceAll(clean, "_", "-")

	tag, err := language.Parse(clean)
	if err == nil {
		return tag, true
	}
	if strings.HasPrefix(strings.ToLower(clean), "en") {
		return language.English, true
	}
	return language.Und, false
}

// pluralCount surfaces the count template value so messages can carry
// plural forms.
func pluralCount(data map[string]interface{}) interface{} {
	for _, key := range []string{"Count", "count"} {
		if val, ok := data[key]; ok {
			return val
		}
	}
	return nil
}
