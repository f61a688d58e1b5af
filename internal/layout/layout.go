package layout

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnsupported is matched by every *UnsupportedLayoutError.
var ErrUnsupported = errors.New("unsupported layout")

// UnsupportedLayoutError reports a copy count outside the fixed table.
type UnsupportedLayoutError struct {
	Copies int
}

func (e *UnsupportedLayoutError) Error() string {
	return fmt.Sprintf("unsupported number of copies %d (supported: %v)", e.Copies, Supported())
}

func (e *UnsupportedLayoutError) Is(target error) bool { return target == ErrUnsupported }

type grid struct {
	rows, cols int
}

var grids = map[int]grid{
	2:  {2, 1},
	4:  {2, 2},
	8:  {4, 2},
	9:  {3, 3},
	16: {4, 4},
}

// Layout is the arrangement of copies on one output sheet.
type Layout struct {
	copies int
	grid   grid
}

// New returns the Layout for copies, or an *UnsupportedLayoutError.
func New(copies int) (Layout, error) {
	g, ok := grids[copies]
	if !ok {
		return Layout{}, &UnsupportedLayoutError{Copies: copies}
	}
	return Layout{copies: copies, grid: g}, nil
}

// Supported returns the accepted copy counts in ascending order.
func Supported() []int {
	out := make([]int, 0, len(grids))
	for n := range grids {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func (l Layout) Copies() int { return l.copies }
func (l Layout) Rows() int   { return l.grid.rows }
func (l Layout) Cols() int   { return l.grid.cols }

// Geometry is the "RxC" string understood by pdfpages' nup option.
func (l Layout) Geometry() string {
	return fmt.Sprintf("%dx%d", l.grid.rows, l.grid.cols)
}

// IsLandscape reports whether the sheet must be rotated, which is the case
// for the 2x1 and 4x2 grids.
func (l Layout) IsLandscape() bool {
	g := l.Geometry()
	return g == "2x1" || g == "4x2"
}

func (l Layout) String() string {
	orientation := "portrait"
	if l.IsLandscape() {
		orientation = "landscape"
	}
	return fmt.Sprintf("%d copies (%s, %s)", l.copies, l.Geometry(), orientation)
}
