package tile

import (
	"fmt"
	"strings"

	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
)

// Direction names the tile edge a cut is measured from.
type Direction int

const (
	Left Direction = iota
	Right
	Top
	Bottom
)

var directionNames = [...]string{"left", "right", "top", "bottom"}

func (d Direction) String() string {
	if d < Left || d > Bottom {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Vertical reports whether the cut is a vertical line (measured from the left
// or right edge).
func (d Direction) Vertical() bool {
	return d == Left || d == Right
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if d < Left || d > Bottom {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	for i, name := range directionNames {
		if strings.EqualFold(string(text), name) {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("invalid direction %q", text)
}

// Subdivision is one interior cut of a tile.
type Subdivision struct {
	// Dir is the edge the cut is measured from.
	Dir Direction `json:"dir"`

	// Dual marks a mirrored cut at the same distance from the opposite edge.
	Dual bool `json:"dual"`

	// Distance is the offset of the cut from the edge in pixels.
	Distance int `json:"distance"`
}

// Fits reports whether the cut leaves a non-empty tile of the given extent
// along the cut's axis.
func (s Subdivision) Fits(extent int) bool {
	return s.Distance >= 0 && 2*s.Distance < extent
}

// Apply returns the region that remains after the cut. A dual cut trims the
// opposite side by the same distance.
func (s Subdivision) Apply(r imaging.Region) imaging.Region {
	switch s.Dir {
	case Left:
		r.X1 += s.Distance
		if s.Dual {
			r.X2 -= s.Distance
		}
	case Right:
		r.X2 -= s.Distance
		if s.Dual {
			r.X1 += s.Distance
		}
	case Top:
		r.Y1 += s.Distance
		if s.Dual {
			r.Y2 -= s.Distance
		}
	case Bottom:
		r.Y2 -= s.Distance
		if s.Dual {
			r.Y1 += s.Distance
		}
	}
	return r
}

// extent returns the size of r along the axis of d.
func extent(r imaging.Region, d Direction) int {
	if d.Vertical() {
		return r.Dx()
	}
	return r.Dy()
}
