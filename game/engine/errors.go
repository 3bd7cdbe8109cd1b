package engine

import "errors"

var (
	ErrUnknownMarker       = errors.New("unknown marker")
	ErrUnknownDirection    = errors.New("unknown direction")
	ErrUnknownOrientation  = errors.New("unknown orientation")
	ErrInvalidRuleSentence = errors.New("invalid rule sentence")
	ErrInvalidGridSize     = errors.New("invalid grid size")
	ErrOutOfBounds         = errors.New("position out of bounds")
	ErrMarkerPresent       = errors.New("marker already present in cell")
	ErrMarkerAbsent        = errors.New("marker not present in cell")
)
