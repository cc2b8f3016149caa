package project

// VisualStyle is one identifier from the fixed catalog controlling the
// aesthetic applied to every image generation request.
type VisualStyle string

const StyleDefault VisualStyle = "Default"

// StyleInfo pairs a style identifier with its presentation metadata.
type StyleInfo struct {
	ID    VisualStyle `json:"id"`
	Label string      `json:"label"`
	Desc  string      `json:"desc"`
}

var visualStyles = []StyleInfo{
	{ID: StyleDefault, Label: "Default", Desc: "Natural, crisp baseline rendering"},
	{ID: "Classic50s", Label: "50s Classic Film", Desc: "Technicolor palette, soft studio lighting"},
	{ID: "Joseon", Label: "Joseon Period Drama", Desc: "Traditional architecture and costume, natural light"},
	{ID: "NorthKorea", Label: "North Korean Drama", Desc: "Vintage film stock, saturated propaganda-era color"},
	{ID: "Mystery", Label: "Mystery Thriller", Desc: "Low-key lighting, hard shadows"},
	{ID: "Horror", Label: "Horror Suspense", Desc: "Dim lighting, unsettling atmosphere"},
	{ID: "Silent20s", Label: "20s Silent Film", Desc: "Black and white, high contrast, vintage grain"},
	{ID: "Camcorder90s", Label: "90s Camcorder", Desc: "VHS quality, scan lines, analog noise"},
	{ID: "ModernDrama", Label: "Modern Drama", Desc: "Clean contemporary look, true-to-life color"},
	{ID: "Melodrama", Label: "Melodrama", Desc: "Soft contrast, warm glowing tones"},
	{ID: "LegalDrama", Label: "Legal Drama", Desc: "Cold desaturated palette, institutional light"},
	{ID: "Cyberpunk", Label: "Cyberpunk Neon", Desc: "Neon color, rain-slicked streets, futuristic"},
	{ID: "Watercolor", Label: "Analog Watercolor", Desc: "Soft emotional watercolor texture"},
	{ID: "DigitalWebtoon", Label: "Digital Webtoon", Desc: "Sharp line art with vivid webtoon color"},
	{ID: "PencilSketch", Label: "Pencil Sketch", Desc: "Rough monochrome pencil strokes"},
	{ID: "Joseon2D", Label: "Joseon Folk Painting 2D", Desc: "Joseon-era genre painting as 2D animation"},
	{ID: "InkMonochrome", Label: "Ink Wash Monochrome", Desc: "East Asian ink painting with generous negative space"},
	{ID: "NeonCity", Label: "Neon City Pop", Desc: "80s retro nightscape, glowing signage"},
	{ID: "Buddhist", Label: "Buddhist Minimalism", Desc: "Realistic Korean temples and statuary"},
	{ID: "Renaissance", Label: "Renaissance Painting", Desc: "Old-master composition and light"},
	{ID: "CuteCharacter", Label: "Cute Animal Characters", Desc: "Webtoon-style anthropomorphized animals"},
}

var styleIndex = func() map[VisualStyle]StyleInfo {
	index := make(map[VisualStyle]StyleInfo, len(visualStyles))
	for _, info := range visualStyles {
		index[info.ID] = info
	}
	return index
}()

// Styles returns the closed, ordered visual style catalog.
func Styles() []StyleInfo {
	cp := make([]StyleInfo, len(visualStyles))
	copy(cp, visualStyles)
	return cp
}

// StyleByID looks up catalog metadata for a style identifier.
func StyleByID(id VisualStyle) (StyleInfo, bool) {
	info, ok := styleIndex[id]
	return info, ok
}

// IsValidStyle reports whether the identifier belongs to the catalog.
func IsValidStyle(id VisualStyle) bool {
	_, ok := styleIndex[id]
	return ok
}
