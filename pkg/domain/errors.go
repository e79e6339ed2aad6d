package domain

import "errors"

// Стандартные ошибки графа
var (
	// ErrInvalidMutation is returned when an AddEdge call would leave
	// the graph in an illegal state: negative endpoints, a node id
	// beyond the contiguous growth rule, a duplicate edge, or a
	// negative capacity. The graph is untouched when it is returned.
	ErrInvalidMutation = errors.New("invalid graph mutation")

	// ErrMissingEdge is returned by lookups and mutations that name a
	// node or an edge the graph does not contain.
	ErrMissingEdge = errors.New("missing edge")

	// ErrFlowExceedsCapacity is returned by AugmentAlongPath when the
	// requested flow is larger than the residual capacity of a
	// non-negative-cost edge on the path.
	ErrFlowExceedsCapacity = errors.New("flow exceeds residual capacity")

	// ErrInternalInconsistency signals a path or parent structure that
	// references edges absent from the graph. It indicates a bug in
	// the caller, not bad input.
	ErrInternalInconsistency = errors.New("internal inconsistency")
)
