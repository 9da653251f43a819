package cma

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Prepared is a validated assumption set with its Cholesky factor computed.
// It is built once per version before simulation fan-out and shared read-only
// across all workers.
type Prepared struct {
	Assumptions
	ContentHash string

	chol *mat.TriDense
}

// Prepare validates the assumption set and factorizes its correlation matrix.
// A matrix that does not admit a Cholesky factorization is rejected with
// ErrInvalidAssumptions.
func Prepare(a Assumptions) (*Prepared, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	n := a.Factors()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, a.Correlation[i][j])
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, fmt.Errorf("%w: correlation matrix is not positive definite", ErrInvalidAssumptions)
	}
	lower := mat.NewTriDense(n, mat.Lower, nil)
	chol.LTo(lower)

	return &Prepared{
		Assumptions: a,
		ContentHash: a.Hash(),
		chol:        lower,
	}, nil
}

// Correlate transforms independent standard normals into correlated ones using
// the cached lower-triangular factor. dst and src must both have length
// Factors; dst may alias src.
func (p *Prepared) Correlate(dst, src []float64) {
	n := p.Factors()
	// Walk rows bottom-up so dst can alias src.
	for i := n - 1; i >= 0; i-- {
		sum := 0.0
		for j := 0; j <= i; j++ {
			sum += p.chol.At(i, j) * src[j]
		}
		dst[i] = sum
	}
}
