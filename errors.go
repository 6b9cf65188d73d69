package fractal

import "errors"

var (
	// ErrInvalidViewport is returned for degenerate plane bounds or a non-positive resolution.
	ErrInvalidViewport = errors.New("fractal: invalid viewport")

	// ErrInvalidConfiguration is returned for a bad iteration cap, variant or tile.
	ErrInvalidConfiguration = errors.New("fractal: invalid configuration")

	ErrFavoritesFull     = errors.New("fractal: favorites list is full")
	ErrDuplicateFavorite = errors.New("fractal: point is already a favorite")
	ErrNoSuchFavorite    = errors.New("fractal: no such favorite")
)
