package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Supported content languages, as BCP 47 tags understood upstream.
const (
	LanguageRomanian = "ro-RO"
	LanguageEnglish  = "en-US"
)

// CanonicalLanguage is used where upstream relevance or naming is most stable.
const CanonicalLanguage = LanguageEnglish

// CanonicalRegion pairs with CanonicalLanguage for provider name matching.
const CanonicalRegion = "US"

var supportedLanguages = []language.Tag{
	language.MustParse(LanguageRomanian),
	language.MustParse(LanguageEnglish),
}

var languageMatcher = language.NewMatcher(supportedLanguages)

var supportedRegions = map[string]struct{}{
	"RO": {},
	"US": {},
	"GB": {},
}

// LocaleContext is threaded through every query. It is never inferred.
type LocaleContext struct {
	Language string `json:"language"`
	Region   string `json:"region"`
}

// ISO639 returns the bare language code ("ro" for "ro-RO").
func (l LocaleContext) ISO639() string {
	base, _, _ := strings.Cut(l.Language, "-")
	return strings.ToLower(base)
}

// ParseLocale validates an explicit language/region pair.
func ParseLocale(lang, region string) (LocaleContext, error) {
	lang = strings.TrimSpace(lang)
	region = strings.ToUpper(strings.TrimSpace(region))
	if lang == "" || region == "" {
		return LocaleContext{}, fmt.Errorf("language and region are required")
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return LocaleContext{}, fmt.Errorf("invalid language %q: %w", lang, err)
	}
	_, idx, conf := languageMatcher.Match(tag)
	if conf != language.Exact {
		return LocaleContext{}, fmt.Errorf("unsupported language %q", lang)
	}
	if _, ok := supportedRegions[region]; !ok {
		return LocaleContext{}, fmt.Errorf("unsupported region %q", region)
	}
	return LocaleContext{Language: supportedLanguages[idx].String(), Region: region}, nil
}
