package tictactoe

const (
	StatePlaying StateKind = "playing"
	StateDraw    StateKind = "draw"
	StateWin     StateKind = "win"
)

// WinLines - every three-in-a-row line, in the order they are checked:
// rows top to bottom, columns left to right, then the main and anti diagonals.
var WinLines = [8][3]Coordinate{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},

	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},

	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

type StateKind string

// GameState - the outcome of a grid. Line and Winner are set only when Kind is StateWin.
type GameState struct {
	Kind   StateKind    `json:"kind"`
	Line   []Coordinate `json:"line,omitempty"`
	Winner Cell         `json:"winner,omitempty"`
}

func (that GameState) IsPlaying() bool {
	return that.Kind == StatePlaying
}

func (that GameState) IsDraw() bool {
	return that.Kind == StateDraw
}

func (that GameState) IsWin() bool {
	return that.Kind == StateWin
}

// Evaluate - computes the state of a grid. The first matching line wins.
func Evaluate(grid Grid) GameState {
	for _, line := range WinLines {
		a, b, c := grid.Get(line[0]), grid.Get(line[1]), grid.Get(line[2])
		if a != EmptyCell && a == b && b == c {
			return GameState{
				Kind:   StateWin,
				Line:   []Coordinate{line[0], line[1], line[2]},
				Winner: a,
			}
		}
	}

	// every cell taken and nobody won
	if grid.IsFull() {
		return GameState{Kind: StateDraw}
	}

	return GameState{Kind: StatePlaying}
}
