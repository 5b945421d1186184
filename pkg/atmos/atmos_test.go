package atmos

import (
	"math"
	"testing"
)

func TestSaturationVaporPressure(t *testing.T) {
	tests := []struct {
		name        string
		temperature float64
		want        float64
		epsilon     float64
	}{
		{
			name:        "freezing point",
			temperature: 273.15,
			want:        0.6113,
			epsilon:     1e-6,
		},
		{
			name:        "room temperature",
			temperature: 293.15,
			want:        2.34, // ~2.34 kPa at 20°C
			epsilon:     0.02,
		},
		{
			name:        "hot day",
			temperature: 308.15,
			want:        5.63, // ~5.6 kPa at 35°C
			epsilon:     0.06,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SaturationVaporPressure(tt.temperature)
			if math.Abs(got-tt.want) > tt.epsilon {
				t.Errorf("SaturationVaporPressure(%v) = %v, want %v±%v",
					tt.temperature, got, tt.want, tt.epsilon)
			}
		})
	}
}

func TestVirtualTemperatureAtReferencePressure(t *testing.T) {
	// At the reference pressure the scaling factor is exactly 1.
	got := VirtualTemperature(290, ReferencePressure)
	if math.Abs(got-290) > 1e-12 {
		t.Errorf("VirtualTemperature(290, P_ref) = %v, want 290", got)
	}
}

func TestVirtualPotentialTemperatureDryAir(t *testing.T) {
	// Zero mixing ratio leaves the virtual temperature unchanged.
	if got := VirtualPotentialTemperature(300, 0); got != 300 {
		t.Errorf("VirtualPotentialTemperature(300, 0) = %v, want 300", got)
	}
}

func TestVirtualPotentialTemperatureApproximation(t *testing.T) {
	// Exact and first-order forms agree within ~1% for small ratios.
	for _, w := range []float64{0.0, 0.005, 0.01, 0.02} {
		exact := VirtualPotentialTemperature(295, w)
		approx := VirtualPotentialTemperatureApprox(295, w)
		if math.Abs(exact-approx)/exact > 0.01 {
			t.Errorf("approximation diverges at w=%v: exact %v approx %v", w, exact, approx)
		}
	}
}

func TestVPTFrom3(t *testing.T) {
	// Hand-computed: rh=0.5, p=98 kPa, t=288.15 K.
	// svp = 0.6113*exp(17.2694*15/252.29) = 1.7057 kPa
	// avp = 0.85285 kPa, w = 0.622*0.85285/(98-0.85285) = 0.0054614
	// vt = 288.15*(100/98)^0.286 = 289.8269
	// vpt = vt*(1 + (w/0.622)/(1+w)) = 292.358
	got := VPTFrom3(0.5, 98, 288.15)
	if math.Abs(got-292.358) > 0.05 {
		t.Errorf("VPTFrom3(0.5, 98, 288.15) = %v, want ≈292.358", got)
	}
}

func TestPressureAboveMSL(t *testing.T) {
	// ~100 m of altitude costs about 1.2% of sea-level pressure.
	got := PressureAboveMSL(101.325, 100, StandardGravity)
	want := 101.325 * math.Exp(-StandardGravity*100/(287.05*288.15))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("PressureAboveMSL = %v, want %v", got, want)
	}
	if got >= 101.325 || got < 100.0 {
		t.Errorf("PressureAboveMSL(101.325, 100) = %v, outside plausible range", got)
	}
}

func TestBulkRichardsonNumber(t *testing.T) {
	tests := []struct {
		name string
		vptL, vptU float64
		wsL, wsU   float64
		wdL, wdU   float64
		want       float64
		undefined  bool
	}{
		{
			name: "stable with shear",
			vptL: 295, vptU: 297,
			wsL: 2, wsU: 6,
			wdL: 180, wdU: 180,
			// g*2*96 / (296*16)
			want: StandardGravity * 2 * 96 / (296 * 16),
		},
		{
			name: "unstable is negative",
			vptL: 300, vptU: 297,
			wsL: 2, wsU: 6,
			wdL: 90, wdU: 90,
			want: StandardGravity * -3 * 96 / (298.5 * 16),
		},
		{
			name: "identical vectors have no shear",
			vptL: 295, vptU: 297,
			wsL: 5, wsU: 5,
			wdL: 42, wdU: 42,
			undefined: true,
		},
		{
			name: "calm at both levels",
			vptL: 295, vptU: 296,
			wsL: 0, wsU: 0,
			wdL: math.NaN(), wdU: math.NaN(),
			undefined: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BulkRichardsonNumber(tt.vptL, tt.vptU, 10, 106,
				tt.wsL, tt.wsU, tt.wdL, tt.wdU, StandardGravity)
			if tt.undefined {
				if !math.IsNaN(got) {
					t.Errorf("Ri = %v, want NaN", got)
				}
				return
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ri = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPowerLawFit(t *testing.T) {
	heights := []float64{6, 10, 20, 32, 80, 106}

	t.Run("exact power law recovered", func(t *testing.T) {
		speeds := make([]float64, len(heights))
		for i, h := range heights {
			speeds[i] = 2.5 * math.Pow(h, 0.14)
		}
		a, alpha := PowerLawFit(heights, speeds, 2)
		if math.Abs(a-2.5) > 1e-9 || math.Abs(alpha-0.14) > 1e-9 {
			t.Errorf("fit = (%v, %v), want (2.5, 0.14)", a, alpha)
		}
	})

	t.Run("NaN levels excluded", func(t *testing.T) {
		speeds := make([]float64, len(heights))
		for i, h := range heights {
			speeds[i] = 1.8 * math.Pow(h, 0.2)
		}
		speeds[1] = math.NaN()
		speeds[4] = math.NaN()
		a, alpha := PowerLawFit(heights, speeds, 2)
		if math.Abs(a-1.8) > 1e-9 || math.Abs(alpha-0.2) > 1e-9 {
			t.Errorf("fit = (%v, %v), want (1.8, 0.2)", a, alpha)
		}
	})

	t.Run("too few valid levels", func(t *testing.T) {
		speeds := []float64{math.NaN(), 4, math.NaN(), math.NaN(), math.NaN(), math.NaN()}
		a, alpha := PowerLawFit(heights, speeds, 2)
		if !math.IsNaN(a) || !math.IsNaN(alpha) {
			t.Errorf("fit = (%v, %v), want (NaN, NaN)", a, alpha)
		}
	})

	t.Run("zero speed is not a valid level", func(t *testing.T) {
		speeds := []float64{0, 4, 0, 0, 0, 0}
		a, alpha := PowerLawFit(heights, speeds, 2)
		if !math.IsNaN(a) || !math.IsNaN(alpha) {
			t.Errorf("fit = (%v, %v), want (NaN, NaN)", a, alpha)
		}
	})
}
