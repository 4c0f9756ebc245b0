package matrix

import "fmt"

// PairMatrix is an explicit lower-triangular buffer over unordered pairs
// (i, j), i != j, of indices in [0, n). It stores exactly one float64 per
// unordered pair — n*(n-1)/2 entries total — and never stores a diagonal.
//
// Cells are addressed canonically: Get/Set/Add accept (i, j) in either
// order and internally swap to the (row > col) form before computing the
// flat offset, matching the "(1,0); (2,0); (2,1); (3,0); (3,1); (3,2); ..." walk
// order used by Each.
type PairMatrix struct {
	n    int
	data []float64
}

// NewPairMatrix allocates a zero-filled PairMatrix over n indices.
// Complexity: O(n^2) time and memory.
func NewPairMatrix(n int) (*PairMatrix, error) {
	if n < 2 {
		return nil, fmt.Errorf("NewPairMatrix(%d): %w", n, ErrBadShape)
	}
	size := n * (n - 1) / 2
	return &PairMatrix{n: n, data: make([]float64, size)}, nil
}

// Rows reports n, so PairMatrix satisfies the Matrix shape contract.
func (p *PairMatrix) Rows() int { return p.n }

// Cols reports n, so PairMatrix satisfies the Matrix shape contract.
func (p *PairMatrix) Cols() int { return p.n }

// offset computes the canonical flat index for an unordered pair (i, j).
func (p *PairMatrix) offset(i, j int) (int, error) {
	if i < 0 || i >= p.n || j < 0 || j >= p.n {
		return 0, fmt.Errorf("PairMatrix.offset(%d,%d): %w", i, j, ErrOutOfRange)
	}
	if i == j {
		return 0, fmt.Errorf("PairMatrix.offset(%d,%d): %w", i, j, ErrSamePair)
	}
	row, col := i, j
	if row < col {
		row, col = col, row
	}
	// triangular number row*(row-1)/2 indexes the first cell of that row
	return row*(row-1)/2 + col, nil
}

// Get returns the value stored for the unordered pair (i, j).
func (p *PairMatrix) Get(i, j int) (float64, error) {
	idx, err := p.offset(i, j)
	if err != nil {
		return 0, err
	}
	return p.data[idx], nil
}

// Set assigns v to the cell for the unordered pair (i, j).
func (p *PairMatrix) Set(i, j int, v float64) error {
	idx, err := p.offset(i, j)
	if err != nil {
		return err
	}
	p.data[idx] = v
	return nil
}

// Add accumulates delta onto the cell for the unordered pair (i, j).
func (p *PairMatrix) Add(i, j int, delta float64) error {
	idx, err := p.offset(i, j)
	if err != nil {
		return err
	}
	p.data[idx] += delta
	return nil
}

// Each visits every defined cell exactly once, in row-major triangular
// order: (1,0); (2,0); (2,1); (3,0); (3,1); (3,2); ... This is the same
// walk order a pair-indexed loop nest over i>j naturally produces.
func (p *PairMatrix) Each(fn func(i, j int, v float64)) {
	idx := 0
	for row := 1; row < p.n; row++ {
		for col := 0; col < row; col++ {
			fn(row, col, p.data[idx])
			idx++
		}
	}
}

// RowSum returns the sum of all cells touching index i — i.e. the
// per-node marginal obtained by summing a pair tensor along one axis.
func (p *PairMatrix) RowSum(i int) (float64, error) {
	if i < 0 || i >= p.n {
		return 0, fmt.Errorf("PairMatrix.RowSum(%d): %w", i, ErrOutOfRange)
	}
	var sum float64
	for j := 0; j < p.n; j++ {
		if j == i {
			continue
		}
		v, err := p.Get(i, j)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum, nil
}
