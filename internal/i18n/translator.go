// Package i18n translates editor strings using per-language message tables.
package i18n

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/language"
)

// ErrInvalidLanguage is returned for tags that are not valid BCP 47.
var ErrInvalidLanguage = errors.New("invalid language tag")

// Translator looks up strings in the message table that best matches the
// requested language. Strings without a translation are returned unchanged.
type Translator struct {
	tag      language.Tag
	matched  language.Tag
	messages map[string]string
}

// New picks the table in catalogs that best matches lang. Catalog keys are
// BCP 47 tags such as "fr" or "pt-BR". A lang no table matches yields an
// identity translator.
func New(lang string, catalogs map[string]map[string]string) (*Translator, error) {
	want, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidLanguage, lang, err)
	}

	t := &Translator{tag: want, matched: language.Und}
	if len(catalogs) == 0 {
		return t, nil
	}

	keys := make([]string, 0, len(catalogs))
	for k := range catalogs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// language.Und first so an unmatched request falls back to no table.
	tags := make([]language.Tag, 0, len(keys)+1)
	tags = append(tags, language.Und)
	for _, k := range keys {
		tag, err := language.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("%w: catalog %q: %v", ErrInvalidLanguage, k, err)
		}
		tags = append(tags, tag)
	}

	_, idx, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No || idx == 0 {
		return t, nil
	}
	t.matched = tags[idx]
	t.messages = catalogs[keys[idx-1]]
	return t, nil
}

// Translate returns the translation of text, or text itself.
func (t *Translator) Translate(text string) string {
	if t == nil {
		return text
	}
	if msg, ok := t.messages[text]; ok && msg != "" {
		return msg
	}
	return text
}

// Language returns the requested language.
func (t *Translator) Language() language.Tag { return t.tag }

// Matched returns the tag of the table in use, or language.Und when none
// matched.
func (t *Translator) Matched() language.Tag { return t.matched }
