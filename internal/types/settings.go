package types

// Settings is the visual accessibility settings model the voice layer can
// patch. The embedding application owns persistence and application of these
// values; the core only produces partial updates against them.
type Settings struct {
	FontEnabled             bool    `json:"fontEnabled"`
	FontFamily              string  `json:"fontFamily"`
	FontSizeEnabled         bool    `json:"fontSizeEnabled"`
	FontSizePx              int     `json:"fontSizePx"`
	FontColorEnabled        bool    `json:"fontColorEnabled"`
	FontColor               string  `json:"fontColor"`
	TextStrokeEnabled       bool    `json:"textStrokeEnabled"`
	TextStrokeColor         string  `json:"textStrokeColor"`
	MagnifierEnabled        bool    `json:"magnifierEnabled"`
	MagnifierSize           int     `json:"magnifierSize"`
	MagnifierZoom           int     `json:"magnifierZoom"`
	ImageVeilEnabled        bool    `json:"imageVeilEnabled"`
	HighlightEnabled        bool    `json:"highlightEnabled"`
	LinkEmphasisEnabled     bool    `json:"linkEmphasisEnabled"`
	CursorEnabled           bool    `json:"cursorEnabled"`
	CursorType              string  `json:"cursorType"`
	HighContrastEnabled     bool    `json:"highContrastEnabled"`
	AdaptiveContrastEnabled bool    `json:"adaptiveContrastEnabled"`
	NightModeEnabled        bool    `json:"nightModeEnabled"`
	DimmingEnabled          bool    `json:"dimmingEnabled"`
	DimmingLevel            float64 `json:"dimmingLevel"`
	BlueLightEnabled        bool    `json:"blueLightEnabled"`
	BlueLightLevel          float64 `json:"blueLightLevel"`
	ColorBlindMode          string  `json:"colorBlindMode"`
	ReducedCrowdingEnabled  bool    `json:"reducedCrowdingEnabled"`
	DrawingEnabled          bool    `json:"drawingEnabled"`
	LineGuideEnabled        bool    `json:"lineGuideEnabled"`
}

// DefaultSettings returns the settings model with every aid disabled.
func DefaultSettings() Settings {
	return Settings{
		FontFamily:      "lexend",
		FontSizePx:      50,
		FontColor:       "#1CA085",
		TextStrokeColor: "#C0382B",
		MagnifierSize:   50,
		MagnifierZoom:   3,
		CursorType:      "arrow-large.png",
		DimmingLevel:    0.25,
		BlueLightLevel:  0.2,
		ColorBlindMode:  "none",
	}
}

// Apply merges a partial update into the settings. Keys use the JSON field
// names; unknown keys and mistyped values are ignored so a malformed patch
// can never corrupt the model.
func (s *Settings) Apply(fields map[string]any) {
	for key, value := range fields {
		switch key {
		case "fontEnabled":
			setBool(&s.FontEnabled, value)
		case "fontFamily":
			setString(&s.FontFamily, value)
		case "fontSizeEnabled":
			setBool(&s.FontSizeEnabled, value)
		case "fontSizePx":
			setInt(&s.FontSizePx, value)
		case "fontColorEnabled":
			setBool(&s.FontColorEnabled, value)
		case "fontColor":
			setString(&s.FontColor, value)
		case "textStrokeEnabled":
			setBool(&s.TextStrokeEnabled, value)
		case "textStrokeColor":
			setString(&s.TextStrokeColor, value)
		case "magnifierEnabled":
			setBool(&s.MagnifierEnabled, value)
		case "magnifierSize":
			setInt(&s.MagnifierSize, value)
		case "magnifierZoom":
			setInt(&s.MagnifierZoom, value)
		case "imageVeilEnabled":
			setBool(&s.ImageVeilEnabled, value)
		case "highlightEnabled":
			setBool(&s.HighlightEnabled, value)
		case "linkEmphasisEnabled":
			setBool(&s.LinkEmphasisEnabled, value)
		case "cursorEnabled":
			setBool(&s.CursorEnabled, value)
		case "cursorType":
			setString(&s.CursorType, value)
		case "highContrastEnabled":
			setBool(&s.HighContrastEnabled, value)
		case "adaptiveContrastEnabled":
			setBool(&s.AdaptiveContrastEnabled, value)
		case "nightModeEnabled":
			setBool(&s.NightModeEnabled, value)
		case "dimmingEnabled":
			setBool(&s.DimmingEnabled, value)
		case "dimmingLevel":
			setFloat(&s.DimmingLevel, value)
		case "blueLightEnabled":
			setBool(&s.BlueLightEnabled, value)
		case "blueLightLevel":
			setFloat(&s.BlueLightLevel, value)
		case "colorBlindMode":
			setString(&s.ColorBlindMode, value)
		case "reducedCrowdingEnabled":
			setBool(&s.ReducedCrowdingEnabled, value)
		case "drawingEnabled":
			setBool(&s.DrawingEnabled, value)
		case "lineGuideEnabled":
			setBool(&s.LineGuideEnabled, value)
		}
	}
}

func setBool(dst *bool, v any) {
	if b, ok := v.(bool); ok {
		*dst = b
	}
}

func setString(dst *string, v any) {
	if s, ok := v.(string); ok {
		*dst = s
	}
}

func setInt(dst *int, v any) {
	switch n := v.(type) {
	case int:
		*dst = n
	case float64:
		*dst = int(n)
	}
}

func setFloat(dst *float64, v any) {
	switch n := v.(type) {
	case float64:
		*dst = n
	case int:
		*dst = float64(n)
	}
}
