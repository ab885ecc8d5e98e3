package translation

import (
	"sort"

	"horse.fit/quill/internal/language"
)

// LanguageOption is one target language as shown to authors.
type LanguageOption struct {
	Code    string   `json:"code"`
	Label   string   `json:"label"`
	Native  string   `json:"native,omitempty"`
	Sources []string `json:"sources,omitempty"`
}

type languageLabel struct {
	english string
	native  string
}

var translationLanguageLabels = map[string]languageLabel{
	"AR": {english: "Arabic", native: "العربية"},
	"DE": {english: "German", native: "Deutsch"},
	"EN": {english: "English", native: "English"},
	"ES": {english: "Spanish", native: "Español"},
	"FR": {english: "French", native: "Français"},
	"ID": {english: "Indonesian", native: "Bahasa Indonesia"},
	"IT": {english: "Italian", native: "Italiano"},
	"JA": {english: "Japanese", native: "日本語"},
	"KO": {english: "Korean", native: "한국어"},
	"NL": {english: "Dutch", native: "Nederlands"},
	"PL": {english: "Polish", native: "Polski"},
	"PT": {english: "Portuguese", native: "Português"},
	"RU": {english: "Russian", native: "Русский"},
	"TH": {english: "Thai", native: "ไทย"},
	"TR": {english: "Turkish", native: "Türkçe"},
	"UK": {english: "Ukrainian", native: "Українська"},
	"VI": {english: "Vietnamese", native: "Tiếng Việt"},
	"ZH": {english: "Chinese", native: "中文"},
}

// LabeledLanguageCodes returns the catalog codes with a known label, sorted.
func LabeledLanguageCodes() []string {
	codes := make([]string, 0, len(translationLanguageLabels))
	for code := range translationLanguageLabels {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// labelPairs pairs every labeled language with every other one. Providers
// without a language listing endpoint advertise this set.
func labelPairs() []string {
	codes := LabeledLanguageCodes()
	pairs := make([]string, 0, len(codes)*(len(codes)-1))
	for _, source := range codes {
		for _, target := range codes {
			if source == target {
				continue
			}
			pairs = append(pairs, source+"-"+target)
		}
	}
	return pairs
}

// LanguageOptions lists the catalog's target languages with their labels and
// the sources that can reach each of them.
func LanguageOptions(catalog Catalog) []LanguageOption {
	sourcesByTarget := make(map[string][]string)
	for _, source := range catalog.Sources() {
		for _, target := range catalog.Targets(source) {
			sourcesByTarget[target] = append(sourcesByTarget[target], source)
		}
	}

	targets := catalog.AllTargets()
	options := make([]LanguageOption, 0, len(targets))
	for _, code := range targets {
		label := languageLabelFor(code)
		options = append(options, LanguageOption{
			Code:    code,
			Label:   label.english,
			Native:  label.native,
			Sources: sourcesByTarget[code],
		})
	}
	return options
}

// languageLabelFor falls back to the primary subtag ("EN_GB" uses "EN") and
// then to the bare code.
func languageLabelFor(code string) languageLabel {
	normalized := language.CatalogCode(code)
	if label, ok := translationLanguageLabels[normalized]; ok {
		return label
	}
	if primary := language.CatalogCode(language.NormalizeCode(normalized)); primary != "" {
		if label, ok := translationLanguageLabels[primary]; ok {
			return languageLabel{english: label.english + " (" + language.WireTag(normalized) + ")", native: label.native}
		}
	}
	return languageLabel{english: language.WireTag(normalized)}
}
