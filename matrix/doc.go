// Package matrix provides the dense and triangular buffers used to store
// the advantage tensors produced by the worst-case and precise anonymity
// engines.
//
// Two shapes are offered:
//
//   - Dense, a row-major N×N (or N×M) matrix of float64 values, used as
//     general scratch storage during a sweep.
//   - PairMatrix, an explicit lower-triangular buffer addressed by an
//     unordered pair of relay indices (i, j), i != j, with O(1) access via
//     a precomputed (i,j)→offset mapping. It stores exactly one value per
//     unordered pair and exposes iteration only over defined cells — an
//     explicit triangular buffer in place of a symmetric-matrix class
//     hierarchy with its own iterator-category machinery.
//
// Neither type allocates beyond its backing slice; both are safe for
// concurrent reads once built. Concurrent writes during a sweep go through
// workpool.AtomicFloat64, which this package does not import to keep the
// dependency direction leaf-ward.
package matrix
