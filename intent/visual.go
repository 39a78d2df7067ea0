package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/auralis/voicebridge/fuzzy"
)

type featureKind int

const (
	boolFeature featureKind = iota
	numberFeature
	enumFeature
)

// feature describes one voice-controllable visual setting. enableField is
// the boolean settings key; valueField, when present, carries the numeric
// or enum value that goes with it.
type feature struct {
	name        string
	enableField string
	valueField  string
	kind        featureKind
	defValue    any
	step        float64 // adjustment unit for increase/decrease
	wholeStep   bool    // value is an integer
	phrases     []string
}

var features = []feature{
	{name: "dyslexia font", enableField: "fontEnabled", valueField: "fontFamily", kind: enumFeature, defValue: "lexend",
		phrases: []string{"dyslexia font", "dyslexic font", "reading font", "special font", "font"}},
	{name: "font size", enableField: "fontSizeEnabled", valueField: "fontSizePx", kind: numberFeature, defValue: 50, step: 10, wholeStep: true,
		phrases: []string{"font size", "text size", "letter size", "bigger text", "larger text"}},
	{name: "font color", enableField: "fontColorEnabled", valueField: "fontColor", kind: enumFeature, defValue: "#1CA085",
		phrases: []string{"font color", "text color", "font colour", "text colour"}},
	{name: "text stroke", enableField: "textStrokeEnabled", valueField: "textStrokeColor", kind: enumFeature, defValue: "#C0382B",
		phrases: []string{"text stroke", "text outline", "letter outline"}},
	{name: "magnifier", enableField: "magnifierEnabled", valueField: "magnifierZoom", kind: numberFeature, defValue: 3, step: 1, wholeStep: true,
		phrases: []string{"magnifier", "magnifying glass", "screen magnifier", "zoom lens"}},
	{name: "image veil", enableField: "imageVeilEnabled", kind: boolFeature,
		phrases: []string{"image veil", "image cover", "hide images", "picture veil"}},
	{name: "highlight", enableField: "highlightEnabled", kind: boolFeature,
		phrases: []string{"word highlighting", "highlight words", "highlighting", "highlight"}},
	{name: "link emphasis", enableField: "linkEmphasisEnabled", kind: boolFeature,
		phrases: []string{"link emphasis", "emphasize links", "emphasise links", "highlight links"}},
	{name: "cursor", enableField: "cursorEnabled", valueField: "cursorType", kind: enumFeature, defValue: "arrow-large.png",
		phrases: []string{"big cursor", "large cursor", "custom cursor", "cursor"}},
	{name: "high contrast", enableField: "highContrastEnabled", kind: boolFeature,
		phrases: []string{"high contrast", "contrast mode", "strong contrast"}},
	{name: "adaptive contrast", enableField: "adaptiveContrastEnabled", kind: boolFeature,
		phrases: []string{"adaptive contrast", "smart contrast", "auto contrast"}},
	{name: "night mode", enableField: "nightModeEnabled", kind: boolFeature,
		phrases: []string{"night mode", "dark mode", "night theme"}},
	{name: "dimming", enableField: "dimmingEnabled", valueField: "dimmingLevel", kind: numberFeature, defValue: 0.25, step: 0.1,
		phrases: []string{"screen dimming", "dim the screen", "dimming", "dimmer"}},
	{name: "blue light filter", enableField: "blueLightEnabled", valueField: "blueLightLevel", kind: numberFeature, defValue: 0.2, step: 0.1,
		phrases: []string{"blue light filter", "blue light", "blue filter"}},
	{name: "color blind mode", enableField: "", valueField: "colorBlindMode", kind: enumFeature, defValue: "none",
		phrases: []string{"color blind mode", "colour blind mode", "color filter", "colorblind mode"}},
	{name: "reduced crowding", enableField: "reducedCrowdingEnabled", kind: boolFeature,
		phrases: []string{"reduced crowding", "reduce crowding", "letter spacing", "text spacing"}},
	{name: "drawing", enableField: "drawingEnabled", kind: boolFeature,
		phrases: []string{"drawing mode", "drawing", "annotation", "annotate"}},
	{name: "reading ruler", enableField: "lineGuideEnabled", kind: boolFeature,
		phrases: []string{"reading ruler", "line guide", "reading guide", "reading line"}},
}

var colorBlindModes = map[string]string{
	"protanopia":   "protanopia",
	"deuteranopia": "deuteranopia",
	"tritanopia":   "tritanopia",
	"red green":    "deuteranopia",
	"none":         "none",
	"off":          "none",
}

var fontFamilies = map[string]string{
	"lexend":        "lexend",
	"open dyslexic": "opendyslexic",
	"opendyslexic":  "opendyslexic",
	"arial":         "arial",
	"verdana":       "verdana",
	"comic sans":    "comicsans",
}

type switchVerb int

const (
	verbNone switchVerb = iota
	verbOn
	verbOff
	verbToggle
	verbReset
	verbIncrease
	verbDecrease
	verbSet
)

var numberRe = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// parseVisual handles visual-setting commands: switch verbs compose a
// boolean patch, set verbs assign a value, reset verbs restore defaults.
// A verb with no explicitly named feature falls back to fuzzy matching
// against the known feature phrases.
func parseVisual(text string, ctx *Context) (Intent, bool, error) {
	verb := detectVerb(text)
	if verb == verbNone {
		return nil, false, nil
	}

	f, ok := matchFeature(text)
	if !ok {
		return nil, false, nil
	}

	fields := map[string]any{}
	switch verb {
	case verbOn:
		setEnabled(fields, f, true)
	case verbOff:
		setEnabled(fields, f, false)
	case verbToggle:
		setEnabled(fields, f, !currentlyEnabled(f, ctx))
	case verbReset:
		if f.enableField != "" {
			fields[f.enableField] = false
		}
		if f.valueField != "" {
			fields[f.valueField] = f.defValue
		}
	case verbSet:
		if !applyValue(fields, f, text) {
			return nil, false, nil
		}
	case verbIncrease, verbDecrease:
		if f.kind != numberFeature {
			return nil, false, nil
		}
		cur := currentValue(f, ctx)
		delta := f.step
		if verb == verbDecrease {
			delta = -delta
		}
		next := cur + delta
		if next < 0 {
			next = 0
		}
		if f.wholeStep {
			fields[f.valueField] = int(next + 0.5)
		} else {
			fields[f.valueField] = next
		}
		if f.enableField != "" {
			fields[f.enableField] = true
		}
	}

	if len(fields) == 0 {
		return nil, false, nil
	}
	return VisualUpdate{Fields: fields}, true, nil
}

func setEnabled(fields map[string]any, f feature, on bool) {
	if f.enableField != "" {
		fields[f.enableField] = on
		return
	}
	// Features without an enable flag, like color blind mode, switch via
	// their value field.
	if f.valueField == "colorBlindMode" {
		if on {
			fields[f.valueField] = "deuteranopia"
		} else {
			fields[f.valueField] = "none"
		}
	}
}

func currentlyEnabled(f feature, ctx *Context) bool {
	switch f.enableField {
	case "fontEnabled":
		return ctx.Settings.FontEnabled
	case "fontSizeEnabled":
		return ctx.Settings.FontSizeEnabled
	case "fontColorEnabled":
		return ctx.Settings.FontColorEnabled
	case "textStrokeEnabled":
		return ctx.Settings.TextStrokeEnabled
	case "magnifierEnabled":
		return ctx.Settings.MagnifierEnabled
	case "imageVeilEnabled":
		return ctx.Settings.ImageVeilEnabled
	case "highlightEnabled":
		return ctx.Settings.HighlightEnabled
	case "linkEmphasisEnabled":
		return ctx.Settings.LinkEmphasisEnabled
	case "cursorEnabled":
		return ctx.Settings.CursorEnabled
	case "highContrastEnabled":
		return ctx.Settings.HighContrastEnabled
	case "adaptiveContrastEnabled":
		return ctx.Settings.AdaptiveContrastEnabled
	case "nightModeEnabled":
		return ctx.Settings.NightModeEnabled
	case "dimmingEnabled":
		return ctx.Settings.DimmingEnabled
	case "blueLightEnabled":
		return ctx.Settings.BlueLightEnabled
	case "reducedCrowdingEnabled":
		return ctx.Settings.ReducedCrowdingEnabled
	case "drawingEnabled":
		return ctx.Settings.DrawingEnabled
	case "lineGuideEnabled":
		return ctx.Settings.LineGuideEnabled
	}
	return ctx.Settings.ColorBlindMode != "none"
}

func currentValue(f feature, ctx *Context) float64 {
	switch f.valueField {
	case "fontSizePx":
		return float64(ctx.Settings.FontSizePx)
	case "magnifierZoom":
		return float64(ctx.Settings.MagnifierZoom)
	case "dimmingLevel":
		return ctx.Settings.DimmingLevel
	case "blueLightLevel":
		return ctx.Settings.BlueLightLevel
	}
	return 0
}

// applyValue fills a set-verb patch from the value spoken after "to".
func applyValue(fields map[string]any, f feature, text string) bool {
	switch f.kind {
	case numberFeature:
		m := numberRe.FindAllString(text, -1)
		if len(m) == 0 {
			return false
		}
		v, err := strconv.ParseFloat(m[len(m)-1], 64)
		if err != nil {
			return false
		}
		// Levels live in [0, 1]; spoken percentages scale down.
		if !f.wholeStep && v > 1 {
			v /= 100
		}
		if f.wholeStep {
			fields[f.valueField] = int(v)
		} else {
			fields[f.valueField] = v
		}
	case enumFeature:
		table := fontFamilies
		if f.valueField == "colorBlindMode" {
			table = colorBlindModes
		}
		found := ""
		for spoken, value := range table {
			if strings.Contains(text, spoken) {
				found = value
				break
			}
		}
		if found == "" {
			return false
		}
		fields[f.valueField] = found
	default:
		return false
	}
	if f.enableField != "" {
		fields[f.enableField] = true
	}
	return true
}

func detectVerb(text string) switchVerb {
	tokens := strings.Fields(text)
	has := func(words ...string) bool {
		for _, t := range tokens {
			for _, w := range words {
				if t == w {
					return true
				}
			}
		}
		return false
	}
	switch {
	case has("reset", "restore"):
		return verbReset
	case has("increase", "raise", "bigger", "larger"):
		return verbIncrease
	case has("decrease", "lower", "reduce", "smaller"):
		return verbDecrease
	case has("set", "change", "make") && has("to"):
		return verbSet
	case has("off", "disable", "disabled", "deactivate", "hide", "stop", "remove"):
		return verbOff
	case has("on", "enable", "enabled", "activate", "show", "start"):
		return verbOn
	case has("toggle", "switch", "flip"):
		return verbToggle
	}
	return verbNone
}

// matchFeature finds the feature named in the text: first by explicit
// phrase containment, longest phrase winning, then by fuzzy scoring with
// an ambiguity guard.
func matchFeature(text string) (feature, bool) {
	padded := " " + text + " "
	bestLen := 0
	var best feature
	for _, f := range features {
		for _, p := range f.phrases {
			if len(p) > bestLen && strings.Contains(padded, " "+p+" ") {
				best, bestLen = f, len(p)
			}
		}
	}
	if bestLen > 0 {
		return best, true
	}

	var phrases []string
	var owners []int
	for i, f := range features {
		for _, p := range f.phrases {
			phrases = append(phrases, p)
			owners = append(owners, i)
		}
	}
	m, ok := fuzzy.BestCandidate(text, phrases)
	if !ok {
		return feature{}, false
	}
	return features[owners[m.Index]], true
}
