package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
)

const (
	PlayerX   Cell = "X"
	PlayerO   Cell = "O"
	EmptyCell Cell = ""

	BoardSize = 3
)

// Cell - one square of the board: empty or holding a player mark.
type Cell string

// IsValid reports whether the cell holds one of the known values.
func (that Cell) IsValid() bool {
	switch that {
	case EmptyCell, PlayerX, PlayerO:
		return true
	default:
		return false
	}
}

// Coordinate - (row, col) address of a cell, origin at the top left.
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NewCoordinate - builds a coordinate, rejecting anything outside the board.
func NewCoordinate(row, col int) (Coordinate, error) {
	c := Coordinate{Row: row, Col: col}
	if !c.Valid() {
		return Coordinate{}, fmt.Errorf("%w: (%d, %d)", apperror.ErrInvalidCell, row, col)
	}

	return c, nil
}

func (that Coordinate) Valid() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

func (that Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

// Grid - a board snapshot. It is an array, so assigning it copies every cell.
type Grid [BoardSize][BoardSize]Cell

// Get - returns the cell at the coordinate.
func (that Grid) Get(c Coordinate) Cell {
	return that[c.Row][c.Col]
}

// WithMove - returns a copy of the grid with mark placed at c. The receiver is left untouched.
func (that Grid) WithMove(c Coordinate, mark Cell) Grid {
	next := that
	next[c.Row][c.Col] = mark

	return next
}

// IsFull - true when no empty cell is left.
func (that Grid) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}
