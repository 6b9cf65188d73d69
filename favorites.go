package fractal

import (
	"fmt"
	"slices"
	"sync"
)

// MaxFavorites caps the favorites list.
const MaxFavorites = 5

// Favorites is an in-memory list of Julia seeds. The zero value is ready to use.
type Favorites struct {
	mu     sync.Mutex
	points []Complex
}

// Add appends c. It fails when the list is full or c is already present.
func (f *Favorites) Add(c Complex) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.points) >= MaxFavorites {
		return fmt.Errorf("%w: maximum of %d", ErrFavoritesFull, MaxFavorites)
	}
	if slices.Contains(f.points, c) {
		return fmt.Errorf("%w: %s", ErrDuplicateFavorite, c)
	}
	f.points = append(f.points, c)
	return nil
}

// Remove deletes the favorite at index i; later entries move up.
func (f *Favorites) Remove(i int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if i < 0 || i >= len(f.points) {
		return fmt.Errorf("%w: index %d of %d", ErrNoSuchFavorite, i, len(f.points))
	}
	f.points = slices.Delete(f.points, i, i+1)
	return nil
}

// Get returns the favorite at index i.
func (f *Favorites) Get(i int) (Complex, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if i < 0 || i >= len(f.points) {
		return Complex{}, fmt.Errorf("%w: index %d of %d", ErrNoSuchFavorite, i, len(f.points))
	}
	return f.points[i], nil
}

// List returns a copy of the stored points in insertion order.
func (f *Favorites) List() []Complex {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.points)
}
