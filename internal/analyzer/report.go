package analyzer

import (
	"fmt"
	"sort"

	"github.com/alexhholmes/layoutdecl/internal/field"
)

// Region is a declared field placed on the record buffer.
type Region struct {
	Field field.Field
	Start int // First position covered
	End   int // Last position covered (inclusive)
}

// Size returns the number of positions the region covers.
func (r Region) Size() int {
	return r.End - r.Start + 1
}

// Gap is a run of positions, inclusive on both ends, covered by no field.
type Gap struct {
	Start int
	End   int
}

// Collision describes two fields sharing at least one position.
type Collision struct {
	First  field.Field
	Second field.Field
}

func (c Collision) Error() string {
	return fmt.Sprintf("collision: %s [%d, %d] overlaps %s [%d, %d]",
		c.First.Name, c.First.Offsets.Start, c.First.Offsets.End,
		c.Second.Name, c.Second.Offsets.Start, c.Second.Offsets.End)
}

// Report is the analysed view of a declared header.
type Report struct {
	Regions      []Region // Sorted by start offset, insertion order on ties
	RecordLength int      // Positions needed to hold every field (max end + 1)
	Gaps         []Gap
	Collisions   []Collision
}

// Analyze places fields on the record buffer and reports gaps and
// overlaps. It never rejects a layout; overlapping declarations are legal
// and only show up in Collisions.
func Analyze(fields []field.Field) *Report {
	r := &Report{}

	// Phase 1: Build regions
	for _, f := range fields {
		r.Regions = append(r.Regions, Region{
			Field: f,
			Start: f.Offsets.Start,
			End:   f.Offsets.End,
		})
	}

	sort.SliceStable(r.Regions, func(i, j int) bool {
		return r.Regions[i].Start < r.Regions[j].Start
	})

	// Phase 2: Record extent and uncovered runs
	covered := -1
	for _, region := range r.Regions {
		if region.Start > covered+1 {
			r.Gaps = append(r.Gaps, Gap{Start: covered + 1, End: region.Start - 1})
		}
		if region.End > covered {
			covered = region.End
		}
	}
	r.RecordLength = covered + 1

	// Phase 3: Detect collisions
	r.Collisions = detectCollisions(r.Regions)

	return r
}

func detectCollisions(regions []Region) []Collision {
	var out []Collision
	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			// Sorted by start: nothing further right can reach back into i
			if regions[j].Start > regions[i].End {
				break
			}
			out = append(out, Collision{First: regions[i].Field, Second: regions[j].Field})
		}
	}
	return out
}

// FindCollision reports the first existing field that candidate overlaps.
func FindCollision(existing []field.Field, candidate field.Field) (Collision, bool) {
	for _, f := range existing {
		if f.Offsets.Overlaps(candidate.Offsets) {
			return Collision{First: f, Second: candidate}, true
		}
	}
	return Collision{}, false
}

// IsValid returns true if no two fields overlap
func (r *Report) IsValid() bool {
	return len(r.Collisions) == 0
}
