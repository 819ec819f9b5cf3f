package sumblocks

import (
	"math/rand"

	"github.com/google/uuid"
)

// Board geometry and block values. These are game rules, not settings.
const (
	Rows        = 10
	Cols        = 6
	MinValue    = 1
	MaxValue    = 9
	InitialRows = 4
)

// BlockID identifies a block for its whole lifetime on the board.
type BlockID string

// Block is a numbered tile. The zero Block is an empty cell.
type Block struct {
	ID    BlockID
	Value int
	Row   int
	Col   int
}

// Empty reports whether b is an empty cell.
func (b Block) Empty() bool {
	return b.ID == ""
}

// Grid is the Rows x Cols board, indexed [row][col] with row 0 at the top.
// It is a value type: every transformation below returns a new Grid.
type Grid [Rows][Cols]Block

// Generator creates blocks and rows and draws target sums.
// Values come from a seeded RNG so a seed reproduces a game.
type Generator struct {
	rng   *rand.Rand
	newID func() BlockID
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		newID: func() BlockID {
			return BlockID(uuid.NewString())
		},
	}
}

// CreateBlock returns a block at (row, col) with a random value in [MinValue, MaxValue].
func (g *Generator) CreateBlock(row, col int) Block {
	return g.CreateBlockValue(row, col, MinValue+g.rng.Intn(MaxValue-MinValue+1))
}

// CreateBlockValue returns a block at (row, col) with the given value.
func (g *Generator) CreateBlockValue(row, col, value int) Block {
	return Block{
		ID:    g.newID(),
		Value: value,
		Row:   row,
		Col:   col,
	}
}

// GenerateRow returns Cols fresh blocks positioned on rowIndex.
func (g *Generator) GenerateRow(rowIndex int) [Cols]Block {
	var row [Cols]Block
	for col := range Cols {
		row[col] = g.CreateBlock(rowIndex, col)
	}
	return row
}

// ShiftUp moves every block up one row, dropping whatever occupied row 0,
// and fills the bottom row with fresh blocks.
// Callers must check CheckGameOver before shifting; the top row is lost here.
func (g *Generator) ShiftUp(grid Grid) Grid {
	var out Grid
	for row := 1; row < Rows; row++ {
		for col := range Cols {
			b := grid[row][col]
			if !b.Empty() {
				b.Row = row - 1
			}
			out[row-1][col] = b
		}
	}
	out[Rows-1] = g.GenerateRow(Rows - 1)
	return out
}

// EmptyGrid returns a grid with every cell empty.
func EmptyGrid() Grid {
	return Grid{}
}

// CheckGameOver reports whether any block sits in row 0.
func CheckGameOver(grid Grid) bool {
	for col := range Cols {
		if !grid[0][col].Empty() {
			return true
		}
	}
	return false
}

// ApplyGravity compacts each column downward, keeping the top-to-bottom order
// of its blocks and restamping their rows. Columns do not interact.
func ApplyGravity(grid Grid) Grid {
	var out Grid
	for col := range Cols {
		write := Rows - 1
		for row := Rows - 1; row >= 0; row-- {
			b := grid[row][col]
			if b.Empty() {
				continue
			}
			b.Row = write
			out[write][col] = b
			write--
		}
	}
	return out
}

// RemoveBlocks returns grid with every block whose id is in ids cleared.
func RemoveBlocks(grid Grid, ids []BlockID) Grid {
	remove := make(map[BlockID]struct{}, len(ids))
	for _, id := range ids {
		remove[id] = struct{}{}
	}

	out := grid
	for row := range Rows {
		for col := range Cols {
			if _, ok := remove[out[row][col].ID]; ok && !out[row][col].Empty() {
				out[row][col] = Block{}
			}
		}
	}
	return out
}

// Find returns the block with the given id.
func (grid Grid) Find(id BlockID) (Block, bool) {
	if id == "" {
		return Block{}, false
	}
	for row := range Rows {
		for col := range Cols {
			if grid[row][col].ID == id {
				return grid[row][col], true
			}
		}
	}
	return Block{}, false
}

// Blocks returns all blocks on the grid, top row first.
func (grid Grid) Blocks() []Block {
	var blocks []Block
	for row := range Rows {
		for col := range Cols {
			if !grid[row][col].Empty() {
				blocks = append(blocks, grid[row][col])
			}
		}
	}
	return blocks
}

// Count returns the number of blocks on the grid.
func (grid Grid) Count() int {
	n := 0
	for row := range Rows {
		for col := range Cols {
			if !grid[row][col].Empty() {
				n++
			}
		}
	}
	return n
}

// Values returns the block values as a plain matrix, 0 for empty cells.
func (grid Grid) Values() [Rows][Cols]int {
	var values [Rows][Cols]int
	for row := range Rows {
		for col := range Cols {
			values[row][col] = grid[row][col].Value
		}
	}
	return values
}
