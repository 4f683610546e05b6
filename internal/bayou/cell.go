package bayou

const (
	// BoardSize is the width and height of the board
	BoardSize = 8
	// NumSquares is the number of cells on the board
	NumSquares = BoardSize * BoardSize
	// MaxPieces is how many pieces a single player can own, enough to
	// fill the whole board.
	MaxPieces = 64
	// NumPlayers is the number of piece pools
	NumPlayers = 2
)

const (
	cellOccupiedBit  = 0x01
	cellOwnerBit     = 0x02
	cellIndexMask    = 0x3F
	cellIndexShift   = 2
	cellIndexBitMask = cellIndexMask << cellIndexShift
)

// PlayerID selects one of the two piece pools
type PlayerID uint8

const (
	Player1 PlayerID = 0
	Player2 PlayerID = 1
)

// Other returns the opponent of p
func (p PlayerID) Other() PlayerID {
	return p ^ 1
}

// Valid reports whether p is one of the two players
func (p PlayerID) Valid() bool {
	return p < NumPlayers
}

func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	}
	return "invalid"
}

// Cell is one packed board square
//
//   - bit 0: occupied (1) or empty (0)
//   - bit 1: owner, 0 for player1 and 1 for player2
//   - bits 2..7: index into the owner's piece array (0..63)
//
// An empty cell is always stored as 0.
type Cell uint8

// EmptyCell is the encoding of an unoccupied square
const EmptyCell Cell = 0

// Encode packs an occupied cell. Piece indexes above 63 are masked, callers
// must never produce them as a player can only own MaxPieces pieces.
func Encode(owner PlayerID, pieceIndex int) Cell {
	c := Cell(cellOccupiedBit)
	if owner == Player2 {
		c |= cellOwnerBit
	}
	c |= Cell((pieceIndex & cellIndexMask) << cellIndexShift)
	return c
}

func (c Cell) IsOccupied() bool {
	return c&cellOccupiedBit != 0
}

func (c Cell) Owner() PlayerID {
	if c&cellOwnerBit != 0 {
		return Player2
	}
	return Player1
}

func (c Cell) PieceIndex() int {
	return int(c&cellIndexBitMask) >> cellIndexShift
}

// ToIndex converts a row/column pair into a row-major cell index
func ToIndex(row, col int) int {
	return row*BoardSize + col
}

// FromIndex converts a cell index back into its row/column pair
func FromIndex(index int) (row, col int) {
	return index / BoardSize, index % BoardSize
}

// InBounds reports whether row and col are both within 0..7
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize &&
		col >= 0 && col < BoardSize
}
