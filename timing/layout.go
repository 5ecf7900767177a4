package timing

// WorkArea bounds the caption drawing region as percentages of the viewport.
type WorkArea struct {
	LeftMarginPercent  float64 `json:"left_margin_percent"`
	RightMarginPercent float64 `json:"right_margin_percent"`
	WidthPercent       float64 `json:"width_percent"`
}

// CaptionBox positions one caption slot. At most two boxes are supported:
// box 0 is the primary (bottom) slot, box 1 the secondary slot above it.
type CaptionBox struct {
	BottomPercent float64 `json:"bottom_percent"`
	HeightPercent float64 `json:"height_percent"`
	ZOrder        int     `json:"z_order,omitempty"`
}

// BoxStyle styles the caption boxes themselves.
type BoxStyle struct {
	Opacity                  float64 `json:"opacity"`
	RadiusPx                 float64 `json:"radius_px,omitempty"`
	HorizontalPaddingPercent float64 `json:"horizontal_padding_percent"`
	BaseFontPercent          float64 `json:"base_font_percent"` // of viewport height
}

// LayoutSettings is the caption-box geometry carried by a document. Absent
// settings fall back to DefaultLayout; this is never an error.
type LayoutSettings struct {
	WorkArea WorkArea     `json:"work_area"`
	Boxes    []CaptionBox `json:"caption_boxes,omitempty"`
	Style    BoxStyle     `json:"box_style"`
}

// DefaultLayout returns the documented default geometry: 5% side margins,
// 90% box width, 3.5% horizontal padding, primary box near the bottom with
// the secondary stacked above.
func DefaultLayout() *LayoutSettings {
	return &LayoutSettings{
		WorkArea: WorkArea{
			LeftMarginPercent:  5,
			RightMarginPercent: 5,
			WidthPercent:       90,
		},
		Boxes: []CaptionBox{
			{BottomPercent: 8, HeightPercent: 12, ZOrder: 1},
			{BottomPercent: 22, HeightPercent: 12, ZOrder: 0},
		},
		Style: BoxStyle{
			Opacity:                  0.85,
			RadiusPx:                 8,
			HorizontalPaddingPercent: 3.5,
			BaseFontPercent:          4.5,
		},
	}
}

// Effective returns the document's layout settings or the defaults.
func (d *Document) Effective() *LayoutSettings {
	if d != nil && d.LayoutSettings != nil {
		ls := *d.LayoutSettings
		if ls.WorkArea.WidthPercent == 0 {
			ls.WorkArea = DefaultLayout().WorkArea
		}
		if len(ls.Boxes) == 0 {
			ls.Boxes = DefaultLayout().Boxes
		}
		if ls.Style.BaseFontPercent == 0 {
			ls.Style.BaseFontPercent = DefaultLayout().Style.BaseFontPercent
		}
		if ls.Style.HorizontalPaddingPercent == 0 {
			ls.Style.HorizontalPaddingPercent = DefaultLayout().Style.HorizontalPaddingPercent
		}
		return &ls
	}
	return DefaultLayout()
}
