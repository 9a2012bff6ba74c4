package l2encdec

import "testing"

func TestIsValidVariant(t *testing.T) {
	tests := []struct {
		variant Variant
		want    bool
	}{
		{VariantNone, true},
		{VariantXOR, true},
		{VariantXORPosition, true},
		{VariantXORFilename, true},
		{VariantBlowfish, true},
		{VariantRSA, true},
		{"aes", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			if got := IsValidVariant(tt.variant); got != tt.want {
				t.Errorf("IsValidVariant(%q) = %v, want %v", tt.variant, got, tt.want)
			}
		})
	}
}

func TestShapeOf(t *testing.T) {
	tests := []struct {
		variant Variant
		want    KeyShape
	}{
		{VariantNone, KeyNone},
		{VariantXOR, KeyXORByte},
		{VariantXORPosition, KeyXORIndex},
		{VariantXORFilename, KeyFilename},
		{VariantBlowfish, KeySymmetric},
		{VariantRSA, KeyRSA},
		{"unknown", KeyNone},
	}

	for _, tt := range tests {
		if got := ShapeOf(tt.variant); got != tt.want {
			t.Errorf("ShapeOf(%q) = %q, want %q", tt.variant, got, tt.want)
		}
	}
}

func TestKeyShape_IsAsymmetric(t *testing.T) {
	if !KeyRSA.IsAsymmetric() {
		t.Error("KeyRSA should be asymmetric")
	}
	for _, s := range []KeyShape{KeyNone, KeyXORByte, KeyXORIndex, KeyFilename, KeySymmetric} {
		if s.IsAsymmetric() {
			t.Errorf("%s should not be asymmetric", s)
		}
	}
}

func TestVariantShapes_Complete(t *testing.T) {
	for v := range validVariants {
		if _, ok := variantShapes[v]; !ok {
			t.Errorf("variant %q has no key shape", v)
		}
	}
}
