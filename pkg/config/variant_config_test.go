package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonewx/tears-of-aya/pkg/components"
)

func TestLoadBuiltinVariants(t *testing.T) {
	names := VariantNames()
	if len(names) != 2 || names[0] != "blood" || names[1] != "tears" {
		t.Fatalf("VariantNames() = %v, want [blood tears]", names)
	}

	tears, err := LoadVariant("tears")
	if err != nil {
		t.Fatalf("LoadVariant(tears) error: %v", err)
	}
	blood, err := LoadVariant("blood")
	if err != nil {
		t.Fatalf("LoadVariant(blood) error: %v", err)
	}

	// 两个变体互换"常见"与"稀有"类别
	if tears.Items.Basic.Spawn.MinMs != 300 || tears.Items.Basic.Spawn.MaxMs != 1050 {
		t.Errorf("tears basic spawn = %+v, want 300-1050", tears.Items.Basic.Spawn)
	}
	if blood.Items.Basic.Spawn.MinMs != 1300 || blood.Items.Basic.Spawn.MaxMs != 3050 {
		t.Errorf("blood basic spawn = %+v, want 1300-3050", blood.Items.Basic.Spawn)
	}
	if blood.Items.Hazard.Spawn.MaxMs >= tears.Items.Hazard.Spawn.MinMs {
		t.Errorf("blood hazards should be more frequent than tears hazards")
	}

	// 奖励值按变体区分,不合并为同一个常量
	if tears.Items.Bonus.ScoreAtMax != 15 {
		t.Errorf("tears bonus scoreAtMax = %d, want 15", tears.Items.Bonus.ScoreAtMax)
	}
	if blood.Items.Bonus.ScoreAtMax != 25 {
		t.Errorf("blood bonus scoreAtMax = %d, want 25", blood.Items.Bonus.ScoreAtMax)
	}

	// 只有 blood 启用护盾
	if tears.Shield.Enabled {
		t.Error("tears should not enable shield")
	}
	if !blood.Shield.Enabled {
		t.Error("blood should enable shield")
	}
	if got := len(tears.SpawnCategories()); got != 4 {
		t.Errorf("tears spawn categories = %d, want 4", got)
	}
	if got := len(blood.SpawnCategories()); got != 5 {
		t.Errorf("blood spawn categories = %d, want 5", got)
	}
}

func TestLoadVariantUnknown(t *testing.T) {
	if _, err := LoadVariant("sunshine"); err == nil {
		t.Fatal("expected error for unknown variant")
	}
}

func TestVariantItemLookup(t *testing.T) {
	cfg := MustLoadVariant("blood")

	if cfg.Item(components.CategoryHazard).Health != -1 {
		t.Errorf("hazard health = %d, want -1", cfg.Item(components.CategoryHazard).Health)
	}
	if cfg.Item(components.CategoryShield) != nil {
		t.Error("shield should not have an item config")
	}
	if r := cfg.SpawnRangeFor(components.CategoryShield); r.MinMs != 12000 {
		t.Errorf("shield spawn range = %+v, want minMs 12000", r)
	}
	if y := cfg.Catcher.Y(cfg.Playfield.Height); y != 720-40-18 {
		t.Errorf("catcher Y = %v, want %v", y, 720-40-18)
	}
}

func TestParseVariantValidation(t *testing.T) {
	base, err := variantFS.ReadFile("variants/tears.yaml")
	if err != nil {
		t.Fatalf("read builtin: %v", err)
	}

	tests := []struct {
		name        string
		replace     [2]string
		errContains string
	}{
		{
			name:        "empty name",
			replace:     [2]string{"name: tears", "name: \"\""},
			errContains: "name cannot be empty",
		},
		{
			name:        "initial above ceiling",
			replace:     [2]string{"initial: 10", "initial: 11"},
			errContains: "health.initial",
		},
		{
			name:        "inverted spawn range",
			replace:     [2]string{"{ minMs: 300, maxMs: 1050 }", "{ minMs: 1050, maxMs: 300 }"},
			errContains: "basic spawn maxMs",
		},
		{
			name:        "positive hazard health",
			replace:     [2]string{"health: -1", "health: 1"},
			errContains: "items.hazard.health",
		},
		{
			name:        "speed multiplier below one",
			replace:     [2]string{"baseMultiplier: 1.0", "baseMultiplier: 0.5"},
			errContains: "speed.baseMultiplier",
		},
		{
			name:        "form rate zero",
			replace:     [2]string{"formRate: 0.02", "formRate: 0"},
			errContains: "teardrop.formRate",
		},
		{
			name:        "fake out range inverted",
			replace:     [2]string{"fakeOutMax: 3", "fakeOutMax: 0"},
			errContains: "fake-out range",
		},
		{
			name:        "catcher wider than playfield",
			replace:     [2]string{"width: 90", "width: 900"},
			errContains: "catcher width",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := strings.Replace(string(base), tt.replace[0], tt.replace[1], 1)
			if data == string(base) {
				t.Fatalf("replacement %q not found in builtin yaml", tt.replace[0])
			}
			_, err := ParseVariant([]byte(data))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.errContains)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestParseVariantInvalidYAML(t *testing.T) {
	if _, err := ParseVariant([]byte("name: [unclosed")); err == nil {
		t.Fatal("expected YAML parse error")
	}
}

func TestLoadVariantFile(t *testing.T) {
	data, err := variantFS.ReadFile("variants/blood.yaml")
	if err != nil {
		t.Fatalf("read builtin: %v", err)
	}
	tmpFile := filepath.Join(t.TempDir(), "custom.yaml")
	custom := strings.Replace(string(data), "name: blood", "name: custom", 1)
	if err := os.WriteFile(tmpFile, []byte(custom), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	cfg, err := LoadVariantFile(tmpFile)
	if err != nil {
		t.Fatalf("LoadVariantFile() error: %v", err)
	}
	if cfg.Name != "custom" {
		t.Errorf("Name = %q, want custom", cfg.Name)
	}

	if _, err := LoadVariantFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
