package animation

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// Ease maps linear progress in [0, 1] to eased progress. Every Ease returns exactly 0 at 0
// and exactly 1 at 1.
type Ease func(p float32) float32

// Linear leaves progress unchanged.
func Linear(p float32) float32 {
	return clamp01(p)
}

// PowerIn returns the powerN.in curve, p^(n+1).
//
// Parameters:
//   - n: the power (1 = quad, 2 = cubic, 3 = quart, 4 = quint)
//
// Returns:
//   - Ease: the curve
func PowerIn(n int) Ease {
	exp := float32(n + 1)
	return endpoints(func(p float32) float32 {
		return math32.Pow(p, exp)
	})
}

// PowerOut returns the powerN.out curve, 1-(1-p)^(n+1).
func PowerOut(n int) Ease {
	exp := float32(n + 1)
	return endpoints(func(p float32) float32 {
		return 1 - math32.Pow(1-p, exp)
	})
}

// PowerInOut returns the powerN.inOut curve: powerN.in over the first half and powerN.out
// over the second, meeting at (0.5, 0.5).
func PowerInOut(n int) Ease {
	exp := float32(n + 1)
	return endpoints(func(p float32) float32 {
		if p < 0.5 {
			return math32.Pow(2*p, exp) / 2
		}
		return 1 - math32.Pow(2*(1-p), exp)/2
	})
}

// SineIn eases in along a quarter cosine.
func SineIn(p float32) float32 {
	return endpoints(func(p float32) float32 {
		return 1 - math32.Cos(p*math32.Pi/2)
	})(p)
}

// SineOut eases out along a quarter sine.
func SineOut(p float32) float32 {
	return endpoints(func(p float32) float32 {
		return math32.Sin(p * math32.Pi / 2)
	})(p)
}

// SineInOut eases along half a cosine wave.
func SineInOut(p float32) float32 {
	return endpoints(func(p float32) float32 {
		return -(math32.Cos(math32.Pi*p) - 1) / 2
	})(p)
}

// DefaultEase is the curve used when a tween names none: power1.out.
var DefaultEase = PowerOut(1)

// EaseByName resolves a curve by its timeline name: "none", "linear", "power1" through
// "power4" (out by default), "powerN.in", "powerN.out", "powerN.inOut", "sine.in",
// "sine.out" and "sine.inOut". The empty name resolves to DefaultEase.
//
// Parameters:
//   - name: the curve name
//
// Returns:
//   - Ease: the curve
//   - error: error if the name is unknown
func EaseByName(name string) (Ease, error) {
	switch name {
	case "":
		return DefaultEase, nil
	case "none", "linear":
		return Linear, nil
	}

	family, variant, _ := strings.Cut(name, ".")
	if variant == "" {
		variant = "out"
	}

	if family == "sine" {
		switch variant {
		case "in":
			return SineIn, nil
		case "out":
			return SineOut, nil
		case "inOut":
			return SineInOut, nil
		}
		return nil, fmt.Errorf("unknown ease %q", name)
	}

	var n int
	switch family {
	case "power1":
		n = 1
	case "power2":
		n = 2
	case "power3":
		n = 3
	case "power4":
		n = 4
	default:
		return nil, fmt.Errorf("unknown ease %q", name)
	}
	switch variant {
	case "in":
		return PowerIn(n), nil
	case "out":
		return PowerOut(n), nil
	case "inOut":
		return PowerInOut(n), nil
	}
	return nil, fmt.Errorf("unknown ease %q", name)
}

// endpoints pins a curve to exact 0 and 1 at the ends of the clamped domain.
func endpoints(fn func(float32) float32) Ease {
	return func(p float32) float32 {
		switch {
		case p <= 0:
			return 0
		case p >= 1:
			return 1
		}
		return fn(p)
	}
}

func clamp01(p float32) float32 {
	return min(max(p, 0), 1)
}
