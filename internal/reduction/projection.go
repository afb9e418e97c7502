// Package reduction shrinks embedding vectors to the dimension of the vector
// index they are queried against.
//
// The only strategy is a random linear projection: a K×D matrix whose entries
// are drawn uniformly from [-1/√D, +1/√D] is multiplied with the input. The
// package performs no I/O; callers decide what to do with a no-op Result.
package reduction

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrInvalidInput is wrapped by every validation failure in this package.
var ErrInvalidInput = errors.New("reduction: invalid input")

// Source yields uniformly distributed values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// globalSource draws from the process-wide math/rand/v2 generator, which is
// unseeded and safe for concurrent use.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Result is the outcome of RandomProjection.
type Result struct {
	Vector    []float32 `json:"vector"`
	SourceDim int       `json:"source_dim"`
	TargetDim int       `json:"target_dim"`
	Reduced   bool      `json:"reduced"`
	Reason    string    `json:"reason,omitempty"` // set when Reduced is false
}

type options struct {
	src Source
}

// Option customises a RandomProjection call.
type Option func(*options)

// WithSource makes the projection draw its matrix from src instead of the
// process-wide generator. Tests use it to get reproducible matrices.
func WithSource(src Source) Option {
	return func(o *options) {
		if src != nil {
			o.src = src
		}
	}
}

// NoopReason is the diagnostic recorded when no reduction is needed.
func NoopReason(sourceDim, targetDim int) string {
	return fmt.Sprintf("Vector dimension (%d) is already <= target dimension (%d). No reduction performed.", sourceDim, targetDim)
}

// RandomProjection reduces vec to targetDim components.
//
// When len(vec) <= targetDim the input is returned as is and the Result
// carries Reduced=false with NoopReason. Otherwise a fresh projection matrix
// is generated for this call only.
func RandomProjection(vec []float32, targetDim int, opts ...Option) (Result, error) {
	o := options{src: globalSource{}}
	for _, opt := range opts {
		opt(&o)
	}

	if len(vec) == 0 {
		return Result{}, fmt.Errorf("%w: empty vector", ErrInvalidInput)
	}
	if targetDim <= 0 {
		return Result{}, fmt.Errorf("%w: target dimension must be positive, got %d", ErrInvalidInput, targetDim)
	}
	if err := checkFinite(vec); err != nil {
		return Result{}, err
	}

	d := len(vec)
	if d <= targetDim {
		return Result{
			Vector:    vec,
			SourceDim: d,
			TargetDim: targetDim,
			Reason:    NoopReason(d, targetDim),
		}, nil
	}

	m, err := NewMatrix(targetDim, d, o.src)
	if err != nil {
		return Result{}, err
	}
	out, err := m.Apply(vec)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Vector:    out,
		SourceDim: d,
		TargetDim: targetDim,
		Reduced:   true,
	}, nil
}

func checkFinite(vec []float32) error {
	for i, v := range vec {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite value %v at index %d", ErrInvalidInput, v, i)
		}
	}
	return nil
}
