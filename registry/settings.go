package registry

import (
	"context"

	"product_draft_studio/generator"
	"product_draft_studio/store"
	"product_draft_studio/validation"
)

type TitleStyle string

const (
	TitleConcise  TitleStyle = "concise"
	TitleDetailed TitleStyle = "detailed"
	TitleSEO      TitleStyle = "seo"
)

type SloganStyle string

const (
	SloganFeature     SloganStyle = "feature"
	SloganEmotional   SloganStyle = "emotional"
	SloganPromotional SloganStyle = "promotional"
)

type ImageStyle string

const (
	ImageMinimalist ImageStyle = "minimalist"
	ImageLifestyle  ImageStyle = "lifestyle"
	ImagePremium    ImageStyle = "premium"
)

// Settings are the user's generation preferences.
type Settings struct {
	DefaultTitleLength   int         `json:"defaultTitleLength" validate:"min=1,max=60"`
	DefaultSloganCount   int         `json:"defaultSloganCount" validate:"min=1,max=2"`
	DefaultSaveToLibrary bool        `json:"defaultSaveToLibrary"`
	TitleStyle           TitleStyle  `json:"titleStyle" validate:"oneof=concise detailed seo"`
	SloganStyle          SloganStyle `json:"sloganStyle" validate:"oneof=feature emotional promotional"`
	ImageStyle           ImageStyle  `json:"imageStyle" validate:"oneof=minimalist lifestyle premium"`
	Language             string      `json:"language" validate:"bcp47_language_tag"`
	Theme                string      `json:"theme" validate:"required"`
}

// DefaultSettings is what a first run and a reset produce.
func DefaultSettings() Settings {
	return Settings{
		DefaultTitleLength:   30,
		DefaultSloganCount:   2,
		DefaultSaveToLibrary: true,
		TitleStyle:           TitleConcise,
		SloganStyle:          SloganFeature,
		ImageStyle:           ImageMinimalist,
		Language:             "zh-CN",
		Theme:                "chiikawa",
	}
}

// Style converts the settings into the generator's rewrite preferences.
func (s Settings) Style() generator.Style {
	return generator.Style{
		TitleStyle:  string(s.TitleStyle),
		SloganStyle: string(s.SloganStyle),
		TitleLength: s.DefaultTitleLength,
		SloganCount: s.DefaultSloganCount,
		Language:    s.Language,
	}
}

// SettingsStore persists the settings singleton.
type SettingsStore struct {
	doc *store.Document[Settings]
}

// Get returns the settings, with defaults for anything not stored.
func (r *SettingsStore) Get(ctx context.Context) (Settings, error) {
	return r.doc.Load(ctx)
}

// Save validates and overwrites the settings.
func (r *SettingsStore) Save(ctx context.Context, s Settings) error {
	if err := validation.Default().Validate(s); err != nil {
		return err
	}
	return r.doc.Save(ctx, s)
}

// Reset restores DefaultSettings.
func (r *SettingsStore) Reset(ctx context.Context) (Settings, error) {
	return r.doc.Reset(ctx)
}
