package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestEmptyConfigDefaults(t *testing.T) {
	cfg := EmptyPipelineConfig()

	if got := cfg.GetGridDegrees(); got != 1.0 {
		t.Errorf("GetGridDegrees() = %v, want 1.0", got)
	}
	if got := cfg.GetRoundDigits(); got != 3 {
		t.Errorf("GetRoundDigits() = %v, want 3", got)
	}
	if got := cfg.GetWaypoints(); got != 25 {
		t.Errorf("GetWaypoints() = %v, want 25", got)
	}
	if got := cfg.GetSmoothingWindow(); got != 5 {
		t.Errorf("GetSmoothingWindow() = %v, want 5", got)
	}
	if got := cfg.GetLongitudeSplit(); got != -20.0 {
		t.Errorf("GetLongitudeSplit() = %v, want -20", got)
	}
	if got := cfg.GetSampleFraction(); got != 0.25 {
		t.Errorf("GetSampleFraction() = %v, want 0.25", got)
	}
	if got := cfg.GetSampleSeed(); got != 42 {
		t.Errorf("GetSampleSeed() = %v, want 42", got)
	}
	if got := cfg.GetMatchRadius(); got != 0.15 {
		t.Errorf("GetMatchRadius() = %v, want 0.15", got)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, "pipeline.json", `{"waypoints": 40, "grid_degrees": 0.5}`)

	cfg, err := LoadPipelineConfig(path)
	if err != nil {
		t.Fatalf("LoadPipelineConfig: %v", err)
	}
	if got := cfg.GetWaypoints(); got != 40 {
		t.Errorf("GetWaypoints() = %v, want 40", got)
	}
	if got := cfg.GetGridDegrees(); got != 0.5 {
		t.Errorf("GetGridDegrees() = %v, want 0.5", got)
	}
	// Unset fields keep their defaults.
	if got := cfg.GetSmoothingWindow(); got != 5 {
		t.Errorf("GetSmoothingWindow() = %v, want 5", got)
	}
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	path := writeConfig(t, "pipeline.yaml", `waypoints: 40`)

	if _, err := LoadPipelineConfig(path); err == nil {
		t.Error("expected error for non-.json extension")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := LoadPipelineConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := writeConfig(t, "broken.json", `{"waypoints": `)

	if _, err := LoadPipelineConfig(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		cfg  PipelineConfig
	}{
		{"zero grid", PipelineConfig{GridDegrees: ptrFloat64(0)}},
		{"negative round digits", PipelineConfig{RoundDigits: ptrInt(-1)}},
		{"zero waypoints", PipelineConfig{Waypoints: ptrInt(0)}},
		{"zero smoothing window", PipelineConfig{SmoothingWindow: ptrInt(0)}},
		{"split out of range", PipelineConfig{LongitudeSplit: ptrFloat64(200)}},
		{"fraction above one", PipelineConfig{SampleFraction: ptrFloat64(1.5)}},
		{"zero fraction", PipelineConfig{SampleFraction: ptrFloat64(0)}},
		{"negative match radius", PipelineConfig{MatchRadius: ptrFloat64(-0.1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	cfg := PipelineConfig{
		GridDegrees:     ptrFloat64(0.25),
		Waypoints:       ptrInt(30),
		SampleSeed:      ptrInt64(7),
		SmoothingWindow: ptrInt(3),
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}
