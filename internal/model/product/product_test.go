package product

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultProduct(t *testing.T) {
	p := Default()
	if p.Name != "Premium Apple Watch" || p.StartingPrice != 450 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if len(p.OpeningLines) == 0 {
		t.Fatal("expected built-in opening lines")
	}
}

func TestRandomMinimumWithinBand(t *testing.T) {
	p := Default()
	for i := 0; i < 100; i++ {
		min := p.RandomMinimum()
		if min < p.MinimumLow || min > p.MinimumHigh {
			t.Fatalf("minimum %v outside [%v, %v]", min, p.MinimumLow, p.MinimumHigh)
		}
	}
}

func TestRandomMinimumDegenerateBand(t *testing.T) {
	p := Product{MinimumLow: 380, MinimumHigh: 380}
	if min := p.RandomMinimum(); min != 380 {
		t.Fatalf("expected 380, got %v", min)
	}
}

func TestOpeningLineAlwaysNonEmpty(t *testing.T) {
	if line := Default().OpeningLine(); line == "" {
		t.Fatal("expected an opening line")
	}
	bare := Product{Name: "Watch", StartingPrice: 400}
	if line := bare.OpeningLine(); line == "" {
		t.Fatal("expected a synthesized opening line")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "product.yaml")
	yaml := `name: Vintage Camera
startingPrice: 600
minimumLow: 500
minimumHigh: 550
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Vintage Camera" || p.StartingPrice != 600 {
		t.Fatalf("expected overrides applied, got %+v", p)
	}
	// Unset fields keep defaults.
	if len(p.OpeningLines) == 0 {
		t.Fatal("expected default opening lines to survive")
	}
}

func TestLoadRejectsInvertedBand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "product.yaml")
	yaml := `name: Watch
startingPrice: 450
minimumLow: 400
minimumHigh: 350
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/product.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
