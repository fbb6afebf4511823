// Package lang loads .stringx string tables and resolves the string keys the
// engine produces (toasts, menus, dialogues) into text.
//
// A table is a list of `"key" = "value"` pairs. Values may span lines when
// wrapped in triple quotes, and lines starting with // are comments.
package lang

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Supported languages.
const (
	English = "en"
	Italian = "it"
)

// fileExt is the extension of string table files.
const fileExt = ".stringx"

//go:embed defaults/*.stringx
var defaultTables embed.FS

// Strings resolves keys for one language, falling back to English and then
// to the key itself.
type Strings struct {
	lang   string
	mobile bool
	tables map[string]map[string]string
}

// Default returns the built-in tables for lang.
func Default(lang string) *Strings {
	s := &Strings{lang: lang, tables: make(map[string]map[string]string)}
	sub, _ := fs.Sub(defaultTables, "defaults")
	_ = s.loadFS(sub) // Built-in tables are tested to parse.
	return s
}

// Load returns the built-in tables for lang with every .stringx file in dir
// layered on top. A missing dir is not an error.
func Load(dir, lang string) (*Strings, error) {
	s := Default(lang)
	if dir == "" {
		return s, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return s, nil
	}
	if err := s.loadFS(os.DirFS(dir)); err != nil {
		return nil, fmt.Errorf("lang: load %s: %w", dir, err)
	}
	return s, nil
}

// loadFS merges every table in fsys. en.stringx feeds "en";
// en.mobile.stringx feeds "en" keys suffixed with ".mobile".
func (s *Strings) loadFS(fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*"+fileExt)
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		parsed, err := Parse(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		base := strings.TrimSuffix(filepath.Base(name), fileExt)
		locale, variant, _ := strings.Cut(base, ".")
		table := s.tables[locale]
		if table == nil {
			table = make(map[string]string)
			s.tables[locale] = table
		}
		for k, v := range parsed {
			if variant != "" {
				k += "." + variant
			}
			table[k] = v
		}
	}
	return nil
}

// SetMobile makes lookups prefer the "<key>.mobile" variant.
func (s *Strings) SetMobile(mobile bool) {
	s.mobile = mobile
}

// Language returns the current language.
func (s *Strings) Language() string {
	return s.lang
}

// Languages returns the languages that have a table.
func (s *Strings) Languages() []string {
	out := make([]string, 0, len(s.tables))
	for l := range s.tables {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the text for key and whether it was found in any table.
func (s *Strings) Lookup(key string) (string, bool) {
	if s.mobile {
		if v, ok := s.lookup(key + ".mobile"); ok {
			return v, true
		}
	}
	return s.lookup(key)
}

func (s *Strings) lookup(key string) (string, bool) {
	if v, ok := s.tables[s.lang][key]; ok {
		return v, true
	}
	if v, ok := s.tables[English][key]; ok {
		return v, true
	}
	return "", false
}

// Localized returns the text for key, or key itself when it is unknown.
func (s *Strings) Localized(key string) string {
	if v, ok := s.Lookup(key); ok {
		return v
	}
	return key
}

// Format localizes key and replaces each %s with the next localized arg.
func (s *Strings) Format(key string, args ...string) string {
	text := s.Localized(key)
	for _, a := range args {
		text = strings.Replace(text, "%s", s.Localized(a), 1)
	}
	return text
}
