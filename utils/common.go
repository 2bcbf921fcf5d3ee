package utils

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
)

const (
	// EpsilonDiff is the threshold below which a finite difference is snapped
	// to exactly zero before forming smoothness ratios
	EpsilonDiff = 2.220446049250313e-16
	// TinyDenom regularizes every ratio denominator
	TinyDenom = 1.0e-30
)

// SnapToZero returns 0 for magnitudes below EpsilonDiff, val otherwise
func SnapToZero(val float64) float64 {
	if math.Abs(val) < EpsilonDiff {
		return 0
	}
	return val
}

// RegRatio forms num/den with a sign-preserving regularized denominator, so
// the division is always finite without a test-divide
func RegRatio(num, den float64) float64 {
	return num / (den + math.Copysign(TinyDenom, den))
}

func POW(x float64, pp int) (y float64) {
	y = 1
	for i := 0; i < pp; i++ {
		y *= x
	}
	return
}

// Fatalf reports a non-recoverable error with module/procedure context and
// aborts via panic. Configuration mistakes and physical-invariant violations
// both land here; neither is retried.
func Fatalf(module, procedure, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.WithFields(log.Fields{
		"module":    module,
		"procedure": procedure,
	}).Error(msg)
	panic(fmt.Errorf("%s.%s: %s", module, procedure, msg))
}
