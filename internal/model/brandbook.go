// Package model defines the core data types for the brand book service.
// JSON tags are camelCase so the payload matches what the browser front end reads.
package model

import "strconv"

// MoodboardImage is a user-supplied reference image. Once uploaded it carries the
// host-assigned URL and public id; RawBytes only lives for the duration of a request.
type MoodboardImage struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
	RawBytes []byte `json:"-"`
}

// BrandInput is what the generator needs to build a brand book.
type BrandInput struct {
	Description     string           `json:"description"`
	MoodboardImages []MoodboardImage `json:"moodboardImages"`
}

// ColorPalette holds hex color strings. Values are passed through as returned by
// the model; hex syntax is not checked.
type ColorPalette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// HeadingSizes are CSS-ish size strings for the three heading levels.
type HeadingSizes struct {
	H1 string `json:"h1"`
	H2 string `json:"h2"`
	H3 string `json:"h3"`
}

type Typography struct {
	HeadingFont        string       `json:"headingFont"`
	BodyFont           string       `json:"bodyFont"`
	SampleHeadingSizes HeadingSizes `json:"sampleHeadingSizes"`
}

type BrandVoice struct {
	Tone              string   `json:"tone"`
	Values            []string `json:"values"`
	KeyPhrases        []string `json:"keyPhrases"`
	PersonalityTraits []string `json:"personalityTraits"`
}

type VisualStyle struct {
	ImageStyle            string   `json:"imageStyle"`
	GraphicElements       []string `json:"graphicElements"`
	LayoutPrinciples      []string `json:"layoutPrinciples"`
	IconStyle             string   `json:"iconStyle"`
	PhotographyGuidelines string   `json:"photographyGuidelines"`
}

type DeckTemplate struct {
	TitleSlide        string `json:"titleSlide"`
	ContentSlide      string `json:"contentSlide"`
	ImageSlide        string `json:"imageSlide"`
	DataSlide         string `json:"dataSlide"`
	ClosingSlide      string `json:"closingSlide"`
	GeneralGuidelines string `json:"generalGuidelines"`
}

// BrandBook is the assembled result for one request.
// Sections are pointers so a section the model left out stays nil instead of
// silently becoming a zero struct; the completeness checks rely on that.
type BrandBook struct {
	Name            string        `json:"name,omitempty"`
	Description     string        `json:"description"`
	ColorPalette    *ColorPalette `json:"colorPalette"`
	Typography      *Typography   `json:"typography"`
	BrandVoice      *BrandVoice   `json:"brandVoice"`
	LogoSuggestions []string      `json:"logoSuggestions,omitempty"`
	LogoImages      []string      `json:"logoImages"`
	VisualStyle     *VisualStyle  `json:"visualStyle"`
	DeckTemplate    *DeckTemplate `json:"deckTemplate"`
}

// Complete reports whether the sections the presentation layer cannot do without
// are present.
func (b *BrandBook) Complete() bool {
	return b != nil && b.ColorPalette != nil && b.Typography != nil
}

// Swatches returns the palette as ordered (name, hex) pairs for rendering.
func (p *ColorPalette) Swatches() []Swatch {
	if p == nil {
		return nil
	}
	return []Swatch{
		{Name: "Primary", Hex: p.Primary},
		{Name: "Secondary", Hex: p.Secondary},
		{Name: "Accent", Hex: p.Accent},
		{Name: "Background", Hex: p.Background},
		{Name: "Text", Hex: p.Text},
	}
}

// Swatch is a single named palette entry.
type Swatch struct {
	Name string
	Hex  string
}

// TextColor picks black or white label text for the swatch background.
func (s Swatch) TextColor() string {
	return ContrastColor(s.Hex)
}

// ContrastColor returns "#000000" for light backgrounds and "#FFFFFF" for dark ones,
// using perceived luminance. Anything that is not a #rrggbb string is treated as light.
func ContrastColor(hex string) string {
	if len(hex) != 7 || hex[0] != '#' {
		return "#000000"
	}
	r, errR := strconv.ParseUint(hex[1:3], 16, 8)
	g, errG := strconv.ParseUint(hex[3:5], 16, 8)
	b, errB := strconv.ParseUint(hex[5:7], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return "#000000"
	}

	luminance := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
	if luminance > 0.5 {
		return "#000000"
	}
	return "#FFFFFF"
}
