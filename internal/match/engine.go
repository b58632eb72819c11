// Package match decides whether a probe feature vector belongs to an
// already-enrolled student. It is pure: the gallery is handed in as a
// snapshot and no method ever returns an error — an empty gallery or a
// probe nobody matches is a normal "no match", not a failure.
package match

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kozaktomas/attendance-gate/internal/store"
)

// DefaultTolerance is the maximum Euclidean distance between two vectors
// for them to count as the same person.
const DefaultTolerance = 0.5

// Engine compares probe vectors against a gallery snapshot.
type Engine struct {
	tolerance float64
}

// New creates an engine with the given tolerance. Non-positive values fall
// back to DefaultTolerance.
func New(tolerance float64) Engine {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return Engine{tolerance: tolerance}
}

// Tolerance returns the configured distance threshold.
func (e Engine) Tolerance() float64 {
	return e.tolerance
}

// Distance returns the Euclidean (L2) distance between two vectors, or +Inf
// when the dimensions differ so a mismatched candidate can never match.
func Distance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	return floats.Distance(a, b, 2)
}

// Identify walks the candidates in the order given and returns the first
// one within tolerance of the probe. First match wins, not nearest match:
// with a healthy gallery the uniqueness invariant keeps at most one
// candidate inside tolerance, and when that invariant is transiently
// broken the resolution is deliberately insertion-order-dependent rather
// than silently re-crediting the closest face. Callers get a deterministic
// result for a fixed candidate order (ListAll orders by enrollment id).
func (e Engine) Identify(probe []float64, candidates []store.Student) (store.Student, bool) {
	for _, c := range candidates {
		if Distance(probe, c.Vector) <= e.tolerance {
			return c, true
		}
	}
	return store.Student{}, false
}

// CheckDuplicate applies the identification rule before an enrollment:
// a match means the probe face is already enrolled and the enrollment must
// be rejected with the existing student's name surfaced.
func (e Engine) CheckDuplicate(probe []float64, candidates []store.Student) (store.Student, bool) {
	return e.Identify(probe, candidates)
}

// DupCheck returns the duplicate check closure the gallery runs inside the
// enrollment transaction.
func (e Engine) DupCheck(probe []float64) store.DupCheckFunc {
	return func(gallery []store.Student) *store.Student {
		if existing, ok := e.CheckDuplicate(probe, gallery); ok {
			return &existing
		}
		return nil
	}
}
