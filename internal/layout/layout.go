package layout

// Customization carries the session-scoped personalization the engine lays
// out. Graphic, when set, is the user's last committed drag/resize; nil means
// the template default placement.
type Customization struct {
	Fields  map[Field]string
	Graphic *Box
}

// TextBox is one laid-out line of text: its slot inside the content region
// and the fitted font size.
type TextBox struct {
	Fields   []Field `json:"fields"` // more than one when merged into a line
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
}

// Rendered is the pixel geometry of one personalized label.
type Rendered struct {
	TemplateID string  `json:"template_id"`
	Shape      Shape   `json:"shape"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Region     Box     `json:"region"`
	Texts      []TextBox `json:"texts"`
	Graphic    Box       `json:"graphic"`
}

// Layout computes the full geometry for a template under a customization and
// zoom factor. Inputs are not mutated.
func Layout(t Template, c Customization, zoom float64) Rendered {
	w := UnitsToPixels(t.Width, zoom)
	h := UnitsToPixels(t.Height, zoom)
	region := Box{
		X: UnitsToPixels(t.Region.Left, zoom),
		Y: UnitsToPixels(t.Region.Top, zoom),
		W: UnitsToPixels(t.Region.Width, zoom),
		H: UnitsToPixels(t.Region.Height, zoom),
	}

	lines := buildLines(t, c)

	texts := make([]TextBox, 0, len(lines))
	if len(lines) > 0 {
		slot := region.H / float64(len(lines))
		for i, ln := range lines {
			size := FitFontSize(ln.text, region.W, t.Shape, ln.fields[0], ln.maxFont, len(lines))
			texts = append(texts, TextBox{
				Fields:   ln.fields,
				Text:     ln.text,
				FontSize: size,
				X:        region.X,
				Y:        region.Y + float64(i)*slot,
				W:        region.W,
				H:        slot,
			})
		}
	}

	var g Box
	if c.Graphic != nil {
		// committed boxes are stored at zoom 1; scale with the label so the
		// graphic keeps its relative position and size at any zoom
		g = Box{
			X: c.Graphic.X * zoom,
			Y: c.Graphic.Y * zoom,
			W: c.Graphic.W * zoom,
			H: c.Graphic.H * zoom,
		}
		g = g.ResizeTo(g.W, g.H, w, h)
	} else {
		g = PlaceGraphic(w, h, t.CharacterRatio, t.Shape, t.FooterRatio)
	}

	return Rendered{
		TemplateID: t.ID,
		Shape:      t.Shape,
		Width:      w,
		Height:     h,
		Region:     region,
		Texts:      texts,
		Graphic:    g,
	}
}

type line struct {
	fields  []Field
	text    string
	maxFont float64
}

// buildLines resolves field values into render lines in template order,
// joining the template's merged fields into a single line at the position of
// the first merged field with a value.
func buildLines(t Template, c Customization) []line {
	var lines []line
	mergedDone := false
	for _, f := range t.Fields {
		v := Truncate(c.Fields[f])
		if v == "" {
			continue
		}
		if t.merged(f) {
			if mergedDone {
				continue
			}
			mergedDone = true
			ln := line{maxFont: t.maxFontFor(f)}
			for _, mf := range t.MergedFields {
				mv := Truncate(c.Fields[mf])
				if mv == "" {
					continue
				}
				if ln.text != "" {
					ln.text += " "
				}
				ln.text += mv
				ln.fields = append(ln.fields, mf)
				if m := t.maxFontFor(mf); m < ln.maxFont {
					ln.maxFont = m
				}
			}
			lines = append(lines, ln)
			continue
		}
		lines = append(lines, line{fields: []Field{f}, text: v, maxFont: t.maxFontFor(f)})
	}
	return lines
}

func (t Template) maxFontFor(f Field) float64 {
	if m, ok := t.MaxFontSize[f]; ok && m > 0 {
		return m
	}
	return baseFontSize
}
