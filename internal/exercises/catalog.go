package exercises

import (
	"fmt"
	"slices"
	"strings"

	"github.com/2beens/fittrack/internal/errs"
)

var ErrExerciseNotFound = fmt.Errorf("exercise %w", errs.ErrNotFound)

// Catalog is the immutable exercise table. Build it once with NewCatalog
// and hand the same *Catalog to every consumer.
type Catalog struct {
	exercises []Exercise
	byName    map[string]int
}

func NewCatalog() *Catalog {
	return newCatalog(seed)
}

// NewCatalogFrom builds a catalog from a custom exercise list, keeping its order.
// Later entries with a duplicate name are ignored.
func NewCatalogFrom(list []Exercise) *Catalog {
	return newCatalog(list)
}

func newCatalog(list []Exercise) *Catalog {
	c := &Catalog{
		exercises: make([]Exercise, 0, len(list)),
		byName:    make(map[string]int, len(list)),
	}
	for _, ex := range list {
		if _, exists := c.byName[ex.Name]; exists {
			continue
		}
		ex.Steps = slices.Clone(ex.Steps)
		c.byName[ex.Name] = len(c.exercises)
		c.exercises = append(c.exercises, ex)
	}
	return c
}

func (c *Catalog) Len() int {
	return len(c.exercises)
}

// All returns a copy of every exercise, in catalog order.
func (c *Catalog) All() []Exercise {
	return slices.Clone(c.exercises)
}

func (c *Catalog) Get(name string) (Exercise, error) {
	i, ok := c.byName[name]
	if !ok {
		return Exercise{}, fmt.Errorf("%w: %s", ErrExerciseNotFound, name)
	}
	ex := c.exercises[i]
	ex.Steps = slices.Clone(ex.Steps)
	return ex, nil
}

// ByMuscleGroup returns exercises whose muscle group text contains the given text.
func (c *Catalog) ByMuscleGroup(muscleGroup string) []Exercise {
	var found []Exercise
	for _, ex := range c.exercises {
		if strings.Contains(ex.MuscleGroup, muscleGroup) {
			found = append(found, ex)
		}
	}
	return found
}

// ByDifficulty returns exercises with difficulty in [min, max].
func (c *Catalog) ByDifficulty(minDifficulty, maxDifficulty int) []Exercise {
	var found []Exercise
	for _, ex := range c.exercises {
		if ex.Difficulty >= minDifficulty && ex.Difficulty <= maxDifficulty {
			found = append(found, ex)
		}
	}
	return found
}
