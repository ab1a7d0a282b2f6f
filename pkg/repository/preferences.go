package repository

import (
	"context"

	"github.com/pkg/errors"
)

type Preferences struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

var DefaultPreferences = Preferences{Theme: "system", Language: "fr"}

var validThemes = map[string]bool{"light": true, "dark": true, "system": true}

// LoadPreferences returns stored preferences, filling gaps with defaults.
func LoadPreferences(ctx context.Context, s Store) (Preferences, error) {
	p := DefaultPreferences
	theme, err := s.Get(ctx, KeyTheme)
	switch {
	case err == nil:
		p.Theme = theme
	case !errors.Is(err, ErrNotFound):
		return p, err
	}
	lang, err := s.Get(ctx, KeyLanguage)
	switch {
	case err == nil:
		p.Language = lang
	case !errors.Is(err, ErrNotFound):
		return p, err
	}
	return p, nil
}

func SavePreferences(ctx context.Context, s Store, p Preferences) error {
	if p.Theme != "" {
		if !validThemes[p.Theme] {
			return errors.Errorf("unknown theme %q", p.Theme)
		}
		if err := s.Set(ctx, KeyTheme, p.Theme); err != nil {
			return err
		}
	}
	if p.Language != "" {
		if err := s.Set(ctx, KeyLanguage, p.Language); err != nil {
			return err
		}
	}
	return nil
}
