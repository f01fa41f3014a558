package mesh

import "errors"

var (
	// ErrEmptyMesh indicates a topology without vertices.
	ErrEmptyMesh = errors.New("mesh: at least one vertex is required")

	// ErrLengthMismatch indicates positions and neighbor lists of different length.
	ErrLengthMismatch = errors.New("mesh: positions and neighbor lists differ in length")

	// ErrNeighborRange indicates a neighbor id outside [0, VertexCount()).
	ErrNeighborRange = errors.New("mesh: neighbor id out of range")

	// ErrSelfLoop indicates a vertex listed as its own neighbor.
	ErrSelfLoop = errors.New("mesh: vertex cannot neighbor itself")

	// ErrAsymmetric indicates a neighbor relation that is not mutual.
	ErrAsymmetric = errors.New("mesh: neighbor relation must be symmetric")

	// ErrBadDimensions indicates non-positive lattice dimensions or spacing.
	ErrBadDimensions = errors.New("mesh: lattice dimensions must be positive")

	// ErrBadIndices indicates a triangle index buffer whose length is not a multiple of three.
	ErrBadIndices = errors.New("mesh: triangle indices must come in triples")
)
