// ABOUTME: Tests for version constants
// ABOUTME: Ensures the banner and feed handshake get usable values
package version

import (
	"strings"
	"testing"
)

func TestConstantsDefined(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"Version", Version},
		{"Product", Product},
		{"Manufacturer", Manufacturer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Errorf("expected %s to be set", tt.name)
			}
			if len(tt.value) > 100 {
				t.Errorf("expected %s under 100 characters, got %d", tt.name, len(tt.value))
			}
		})
	}
}

func TestVersionIsSemver(t *testing.T) {
	parts := strings.Split(Version, ".")
	if len(parts) != 3 {
		t.Fatalf("expected major.minor.patch, got %q", Version)
	}
	for _, p := range parts {
		if p == "" || strings.Trim(p, "0123456789") != "" {
			t.Errorf("expected numeric version component, got %q in %q", p, Version)
		}
	}
}

func TestProductIsLowercase(t *testing.T) {
	// Used as the default feed name
	if Product != strings.ToLower(Product) || strings.ContainsAny(Product, " \t") {
		t.Errorf("expected a lowercase single-word product, got %q", Product)
	}
}
