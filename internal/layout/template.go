package layout

// Shape of a label template. Small is the variant used for pencil and
// material tags that fits a single short line.
type Shape string

const (
	ShapeRectangular Shape = "rectangular"
	ShapeRound       Shape = "round"
	ShapeSmall       Shape = "small"
)

// Field identifies one of the recognized personalization text fields.
type Field string

const (
	FieldName       Field = "name"
	FieldComplement Field = "complement"
	FieldClass      Field = "class"
)

// Region is the sub-rectangle of a label where personalized content may
// render, in the same length units as the label's outer dimensions.
// The region lying inside the label bounds at zoom 1 is a data-entry
// invariant of the catalog, not checked at runtime.
type Region struct {
	Left   float64 `yaml:"left" json:"left"`
	Top    float64 `yaml:"top" json:"top"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Template is the static configuration of one printable label.
type Template struct {
	ID             string            `yaml:"id" json:"id"`
	Name           string            `yaml:"name" json:"name"`
	Shape          Shape             `yaml:"shape" json:"shape"`
	Width          float64           `yaml:"width" json:"width"`   // length units
	Height         float64           `yaml:"height" json:"height"` // length units
	Region         Region            `yaml:"region" json:"region"`
	Fields         []Field           `yaml:"fields" json:"fields"`
	MergedFields   []Field           `yaml:"merged_fields" json:"merged_fields,omitempty"`
	MaxFontSize    map[Field]float64 `yaml:"max_font_size" json:"max_font_size"`
	CharacterRatio float64           `yaml:"character_ratio" json:"character_ratio"`
	FooterRatio    float64           `yaml:"footer_ratio" json:"footer_ratio,omitempty"`
}

// Supports reports whether the template renders the given field.
func (t Template) Supports(f Field) bool {
	for _, tf := range t.Fields {
		if tf == f {
			return true
		}
	}
	return false
}

func (t Template) merged(f Field) bool {
	for _, mf := range t.MergedFields {
		if mf == f {
			return true
		}
	}
	return false
}
