package fog

import "testing"

func TestSelectTruthTable(t *testing.T) {
	tests := []struct {
		distance bool
		height   bool
		shared   bool
		want     Variant
	}{
		{false, false, false, VariantNone},
		{false, false, true, VariantNone},
		{false, true, false, VariantHeightOnly},
		{false, true, true, VariantHeightOnly},
		{true, false, false, VariantDistanceOnly},
		{true, false, true, VariantDistanceOnly},
		{true, true, false, VariantBothSeparate},
		{true, true, true, VariantBothShared},
	}

	for _, tt := range tests {
		d := DistanceFogSettings{Enabled: tt.distance, ColorSelection: Gradient}
		h := HeightFogSettings{Enabled: tt.height, ColorSelection: TextureRamp}
		if tt.shared {
			h.ColorSelection = CopyOther
		}

		got := Select(d, h)
		if got != tt.want {
			t.Errorf("Select(distance=%v, height=%v, shared=%v) = %s, want %s",
				tt.distance, tt.height, tt.shared, got, tt.want)
		}
	}
}

func TestSelectSharedFromEitherSide(t *testing.T) {
	d := DistanceFogSettings{Enabled: true, ColorSelection: CopyOther}
	h := HeightFogSettings{Enabled: true, ColorSelection: Gradient}
	if got := Select(d, h); got != VariantBothShared {
		t.Errorf("distance copy: got %s, want both_shared", got)
	}

	d.ColorSelection = TextureRamp
	h.ColorSelection = CopyOther
	if got := Select(d, h); got != VariantBothShared {
		t.Errorf("height copy: got %s, want both_shared", got)
	}
}

func TestPassIndex(t *testing.T) {
	want := map[Variant]int{
		VariantNone:         -1,
		VariantDistanceOnly: 0,
		VariantHeightOnly:   1,
		VariantBothShared:   2,
		VariantBothSeparate: 3,
	}
	for v, idx := range want {
		if got := v.PassIndex(); got != idx {
			t.Errorf("%s.PassIndex() = %d, want %d", v, got, idx)
		}
	}
	if got := Variant(42).PassIndex(); got != -1 {
		t.Errorf("out of range PassIndex() = %d, want -1", got)
	}
}

func TestVariantTerms(t *testing.T) {
	if VariantNone.DistanceEnabled() || VariantNone.HeightEnabled() {
		t.Error("none should not enable any term")
	}
	if !VariantDistanceOnly.DistanceEnabled() || VariantDistanceOnly.HeightEnabled() {
		t.Error("distance_only should enable distance only")
	}
	if VariantHeightOnly.DistanceEnabled() || !VariantHeightOnly.HeightEnabled() {
		t.Error("height_only should enable height only")
	}
	for _, v := range []Variant{VariantBothShared, VariantBothSeparate} {
		if !v.DistanceEnabled() || !v.HeightEnabled() {
			t.Errorf("%s should enable both terms", v)
		}
	}
}
