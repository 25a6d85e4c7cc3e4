package service

import (
	"fmt"
	"strings"

	"github.com/fleveque/brandbook-service/internal/model"
)

// SystemPrompt establishes the persona and the JSON-only contract.
const SystemPrompt = "You are an expert brand designer who creates detailed brand books based on " +
	"descriptions and visual references. Always respond with JSON."

// brandBookFormat is the output shape communicated to the model. JSON mode only
// guarantees syntax; the shape is checked again after parsing.
const brandBookFormat = `{
  "colorPalette": {
    "primary": "#hexcode",
    "secondary": "#hexcode",
    "accent": "#hexcode",
    "background": "#hexcode",
    "text": "#hexcode"
  },
  "typography": {
    "headingFont": "font name",
    "bodyFont": "font name",
    "sampleHeadingSizes": {
      "h1": "size",
      "h2": "size",
      "h3": "size"
    }
  },
  "brandVoice": {
    "tone": "description",
    "values": ["value1", "value2", "value3"],
    "keyPhrases": ["phrase1", "phrase2", "phrase3"],
    "personalityTraits": ["trait1", "trait2", "trait3"]
  },
  "logoSuggestions": ["suggestion1", "suggestion2", "suggestion3"],
  "visualStyle": {
    "imageStyle": "description of image style",
    "graphicElements": ["element1", "element2", "element3"],
    "layoutPrinciples": ["principle1", "principle2", "principle3"],
    "iconStyle": "description of icon style",
    "photographyGuidelines": "guidelines for photography"
  },
  "deckTemplate": {
    "titleSlide": "detailed description of title slide design",
    "contentSlide": "detailed description of content slide design",
    "imageSlide": "detailed description of image slide design",
    "dataSlide": "detailed description of data/chart slide design",
    "closingSlide": "detailed description of closing slide design",
    "generalGuidelines": "general design principles for the presentation"
  }
}`

// BuildBrandPrompt renders the user message for brand book generation. The output
// depends only on the input: same description and URLs, same prompt.
func BuildBrandPrompt(input model.BrandInput) string {
	lines := make([]string, 0, len(input.MoodboardImages))
	for _, img := range input.MoodboardImages {
		lines = append(lines, "Image URL: "+img.URL)
	}

	var sb strings.Builder
	sb.WriteString("You are a world-class brand designer and strategist. Create a comprehensive brand book based on:\n\n")
	sb.WriteString("PRODUCT DESCRIPTION:\n")
	sb.WriteString(input.Description)
	sb.WriteString("\n\nMOODBOARD IMAGES:\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString(`

Generate a detailed brand book with:
1. A color palette (primary, secondary, accent, background, and text colors in hex codes)
2. Typography recommendations (heading font, body font, and sample heading sizes)
3. Brand voice and tone (including values, key phrases, and personality traits)
4. Logo suggestions
5. Visual style guide (image style, graphic elements, layout principles, icon style, photography guidelines)
6. Presentation deck template designs (title slide, content slide, image slide, data slide, closing slide, and general guidelines)

The brand book should be cohesive, professional, and reflect the mood and description provided.

RESPOND WITH JSON in the following format:
`)
	sb.WriteString(brandBookFormat)
	sb.WriteString("\n")
	return sb.String()
}

// BuildLogoPrompt renders the image-generation prompt shared by every logo call of a
// request. Missing sections are skipped rather than rendered as blanks.
func BuildLogoPrompt(book *model.BrandBook) string {
	var sb strings.Builder
	sb.WriteString("Create a professional, modern logo for a brand with the following characteristics:\n\n")
	fmt.Fprintf(&sb, "Product: %s\n\n", book.Description)

	if p := book.ColorPalette; p != nil {
		fmt.Fprintf(&sb, "Primary color: %s\n", p.Primary)
		fmt.Fprintf(&sb, "Secondary color: %s\n", p.Secondary)
		fmt.Fprintf(&sb, "Accent color: %s\n\n", p.Accent)
	}
	if v := book.BrandVoice; v != nil && len(v.PersonalityTraits) > 0 {
		fmt.Fprintf(&sb, "Brand personality: %s\n\n", strings.Join(v.PersonalityTraits, ", "))
	}
	if s := book.VisualStyle; s != nil && s.IconStyle != "" {
		fmt.Fprintf(&sb, "Style guidance: %s\n\n", s.IconStyle)
	}

	sb.WriteString("The logo should be minimal, professional, high-quality, and reflect the brand identity perfectly.\n")
	sb.WriteString("Show the logo on a clean, white background. No text or labels needed. Just the logo mark itself.\n")
	return sb.String()
}
