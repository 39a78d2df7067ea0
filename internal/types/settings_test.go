package types

import "testing"

func TestSettingsApply(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		check  func(t *testing.T, s Settings)
	}{
		{
			name:   "bool toggle",
			fields: map[string]any{"highContrastEnabled": true},
			check: func(t *testing.T, s Settings) {
				if !s.HighContrastEnabled {
					t.Error("HighContrastEnabled = false, want true")
				}
			},
		},
		{
			name:   "numeric from json float",
			fields: map[string]any{"fontSizePx": float64(64), "fontSizeEnabled": true},
			check: func(t *testing.T, s Settings) {
				if s.FontSizePx != 64 {
					t.Errorf("FontSizePx = %d, want 64", s.FontSizePx)
				}
			},
		},
		{
			name:   "unknown key ignored",
			fields: map[string]any{"noSuchSetting": true},
			check: func(t *testing.T, s Settings) {
				if s != DefaultSettings() {
					t.Error("unknown key mutated settings")
				}
			},
		},
		{
			name:   "mistyped value ignored",
			fields: map[string]any{"fontFamily": 42},
			check: func(t *testing.T, s Settings) {
				if s.FontFamily != "lexend" {
					t.Errorf("FontFamily = %q, want lexend", s.FontFamily)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			s.Apply(tt.fields)
			tt.check(t, s)
		})
	}
}
