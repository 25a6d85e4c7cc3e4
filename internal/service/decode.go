package service

import (
	"strconv"

	"github.com/fleveque/brandbook-service/internal/model"
)

// decodeBrandBook builds a BrandBook from a schema-checked model response.
// Models drift on leaf types ("h1": 48, "name": 7), so scalars are kept as text and
// anything that cannot be read as text becomes empty. A logoSuggestions list with a
// non-text item is dropped as a whole since it is optional.
func decodeBrandBook(doc map[string]any, description string) *model.BrandBook {
	book := &model.BrandBook{
		Name:            text(doc["name"]),
		Description:     description,
		LogoSuggestions: strictTextList(doc["logoSuggestions"]),
	}

	if m, ok := doc["colorPalette"].(map[string]any); ok {
		book.ColorPalette = &model.ColorPalette{
			Primary:    text(m["primary"]),
			Secondary:  text(m["secondary"]),
			Accent:     text(m["accent"]),
			Background: text(m["background"]),
			Text:       text(m["text"]),
		}
	}

	if m, ok := doc["typography"].(map[string]any); ok {
		sizes, _ := m["sampleHeadingSizes"].(map[string]any)
		book.Typography = &model.Typography{
			HeadingFont: text(m["headingFont"]),
			BodyFont:    text(m["bodyFont"]),
			SampleHeadingSizes: model.HeadingSizes{
				H1: text(sizes["h1"]),
				H2: text(sizes["h2"]),
				H3: text(sizes["h3"]),
			},
		}
	}

	if m, ok := doc["brandVoice"].(map[string]any); ok {
		book.BrandVoice = &model.BrandVoice{
			Tone:              text(m["tone"]),
			Values:            textList(m["values"]),
			KeyPhrases:        textList(m["keyPhrases"]),
			PersonalityTraits: textList(m["personalityTraits"]),
		}
	}

	if m, ok := doc["visualStyle"].(map[string]any); ok {
		book.VisualStyle = &model.VisualStyle{
			ImageStyle:            text(m["imageStyle"]),
			GraphicElements:       textList(m["graphicElements"]),
			LayoutPrinciples:      textList(m["layoutPrinciples"]),
			IconStyle:             text(m["iconStyle"]),
			PhotographyGuidelines: text(m["photographyGuidelines"]),
		}
	}

	if m, ok := doc["deckTemplate"].(map[string]any); ok {
		book.DeckTemplate = &model.DeckTemplate{
			TitleSlide:        text(m["titleSlide"]),
			ContentSlide:      text(m["contentSlide"]),
			ImageSlide:        text(m["imageSlide"]),
			DataSlide:         text(m["dataSlide"]),
			ClosingSlide:      text(m["closingSlide"]),
			GeneralGuidelines: text(m["generalGuidelines"]),
		}
	}

	return book
}

// asText converts a decoded JSON scalar to its text form.
func asText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func text(v any) string {
	s, _ := asText(v)
	return s
}

// textList keeps the items that read as text and skips the rest.
func textList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := asText(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// strictTextList returns nil unless every item reads as text.
func strictTextList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := asText(item)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}
