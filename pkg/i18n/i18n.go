// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package i18n provides interface translation, the list of configured languages
// and named date formats. Everything is loaded from a YAML catalog.
package i18n

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type ctxKey struct{}

// WithLanguage returns a context carrying the interface language used by Translate.
func WithLanguage(ctx context.Context, langcode string) context.Context {
	return context.WithValue(ctx, ctxKey{}, langcode)
}

// LanguageFromContext returns the interface language stored in ctx, if any.
func LanguageFromContext(ctx context.Context) (string, bool) {
	langcode, ok := ctx.Value(ctxKey{}).(string)
	return langcode, ok && langcode != ""
}

type catalogLanguage struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type catalogTranslation struct {
	Strings map[string]string   `yaml:"strings"`
	Plurals map[string][]string `yaml:"plurals"`
}

type catalogFile struct {
	DefaultLanguage string                        `yaml:"default_language"`
	Languages       []catalogLanguage             `yaml:"languages"`
	Translations    map[string]catalogTranslation `yaml:"translations"`
}

// Catalog translates interface strings and lists the configured languages.
type Catalog struct {
	defaultLanguage string
	languages       map[string]model.Language
	translations    map[string]catalogTranslation
}

// NewCatalog parses a YAML catalog.
func NewCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse translation catalog: %w", err)
	}

	if file.DefaultLanguage == "" {
		file.DefaultLanguage = "en"
	}

	c := &Catalog{
		defaultLanguage: file.DefaultLanguage,
		languages:       make(map[string]model.Language, len(file.Languages)),
		translations:    file.Translations,
	}
	for i, lang := range file.Languages {
		if lang.ID == "" {
			return nil, fmt.Errorf("language %d has no id", i)
		}
		c.languages[lang.ID] = model.Language{ID: lang.ID, Name: lang.Name, Weight: i}
	}
	if c.translations == nil {
		c.translations = map[string]catalogTranslation{}
	}

	return c, nil
}

// NewDefaultCatalog loads the catalog embedded in the binary.
func NewDefaultCatalog() (*Catalog, error) {
	return NewCatalog(defaultCatalog)
}

// Languages returns the configured languages ordered by weight.
func (c *Catalog) Languages() []model.Language {
	languages := make([]model.Language, 0, len(c.languages))
	for _, lang := range c.languages {
		languages = append(languages, lang)
	}
	sort.Slice(languages, func(i, j int) bool { return languages[i].Weight < languages[j].Weight })
	return languages
}

// Language returns the configured language with the given code.
func (c *Catalog) Language(langcode string) (model.Language, bool) {
	lang, ok := c.languages[langcode]
	return lang, ok
}

// DefaultLanguage returns the site default language code.
func (c *Catalog) DefaultLanguage() string {
	return c.defaultLanguage
}

func (c *Catalog) current(ctx context.Context) string {
	if langcode, ok := LanguageFromContext(ctx); ok {
		return langcode
	}
	return c.defaultLanguage
}

// Translate looks msg up in the current language and substitutes the
// @name / %name / :name placeholders in args.
func (c *Catalog) Translate(ctx context.Context, msg string, args map[string]string) string {
	translated := msg
	if t, ok := c.translations[c.current(ctx)]; ok {
		if s, ok := t.Strings[msg]; ok && s != "" {
			translated = s
		}
	}
	return format(translated, args)
}

// FormatPlural picks the singular or plural form for count, translates it and
// substitutes args plus @count.
func (c *Catalog) FormatPlural(ctx context.Context, count int, singular, plural string, args map[string]string) string {
	forms := []string{singular, plural}
	if t, ok := c.translations[c.current(ctx)]; ok {
		if p, ok := t.Plurals[singular]; ok && len(p) == 2 {
			forms = p
		}
	}

	all := make(map[string]string, len(args)+1)
	for k, v := range args {
		all[k] = v
	}
	all["@count"] = strconv.Itoa(count)

	if count == 1 {
		return format(forms[0], all)
	}
	return format(forms[1], all)
}

// format replaces placeholders, longest keys first so "@count" never clobbers "@counter".
func format(msg string, args map[string]string) string {
	if len(args) == 0 {
		return msg
	}

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, args[k])
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
