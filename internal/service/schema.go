package service

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// brandBookSchema lists the sections a usable brand book must contain. Only their
// presence as objects is checked; field values pass through decodeBrandBook, which
// is lenient about types.
const brandBookSchema = `{
  "type": "object",
  "required": ["colorPalette", "typography", "brandVoice", "visualStyle", "deckTemplate"],
  "properties": {
    "colorPalette": {"type": "object"},
    "typography": {"type": "object"},
    "brandVoice": {"type": "object"},
    "visualStyle": {"type": "object"},
    "deckTemplate": {"type": "object"}
  }
}`

var brandSchema = mustCompileSchema(brandBookSchema)

func mustCompileSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("compiling brand book schema: %v", err))
	}
	return schema
}

// validateBrandDocument checks a parsed model response against brandBookSchema.
func validateBrandDocument(doc map[string]any) error {
	result, err := brandSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("brand book failed schema validation: %s", strings.Join(errs, "; "))
	}

	return nil
}
