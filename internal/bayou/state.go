// bayou is the board state for Bayou Bonanza, a two player game on an
// 8x8 board.
//
// The board stores one packed Cell per square and each player owns a dense
// array of pieces. Every occupied cell points at a piece and every live
// piece points back at its cell, Place and Remove keep both directions in
// sync.
package bayou

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/hash"
)

// Piece is a single piece owned by a player
type Piece struct {
	// Type is the hashed piece type name, ie. "alligator"
	Type hash.Value
	// BoardIndex is the cell this piece occupies, row*8 + col
	BoardIndex uint8
}

// State is the full board. The zero value is an empty board.
//
// State is a plain value, copying it copies the whole board. It is not safe
// for concurrent use.
type State struct {
	board     [NumSquares]Cell
	pieces    [NumPlayers][MaxPieces]Piece
	numPieces [NumPlayers]int
}

// ResetState empties the board.
//
// Dead piece slots are zeroed too, so two States holding the same pieces
// compare equal with ==.
func (s *State) ResetState() {
	*s = State{}
}

// Place puts a new piece of pieceType for player at (row, col).
//
// It fails without changing anything if the square is off the board,
// already taken, or the player already owns MaxPieces pieces.
func (s *State) Place(row, col int, player PlayerID, pieceType hash.Value) bool {
	if s.CheckPlace(row, col, player) != nil {
		return false
	}
	idx := ToIndex(row, col)
	count := &s.numPieces[player]

	pieceIndex := *count
	s.pieces[player][pieceIndex] = Piece{
		Type:       pieceType,
		BoardIndex: uint8(idx),
	}
	s.board[idx] = Encode(player, pieceIndex)
	*count++
	return true
}

// Remove takes the piece off (row, col).
//
// The owner's last piece is moved into the freed slot so the array stays
// dense, which means piece indexes are not stable across removals. Always
// go through the board cell to find a piece.
func (s *State) Remove(row, col int) bool {
	if s.CheckRemove(row, col) != nil {
		return false
	}
	idx := ToIndex(row, col)
	cell := s.board[idx]

	player := cell.Owner()
	removedIndex := cell.PieceIndex()
	count := &s.numPieces[player]
	lastIndex := *count - 1

	if removedIndex != lastIndex {
		moved := s.pieces[player][lastIndex]
		s.pieces[player][removedIndex] = moved
		// re-point the moved piece's own cell, not the one being vacated
		s.board[moved.BoardIndex] = Encode(player, removedIndex)
	}
	s.pieces[player][lastIndex] = Piece{}
	*count--
	s.board[idx] = EmptyCell
	return true
}

// CheckPlace reports why Place would fail, or nil if it would succeed
func (s *State) CheckPlace(row, col int, player PlayerID) error {
	if !InBounds(row, col) {
		return errors.Wrapf(ErrOutOfBounds, "(%d, %d)", row, col)
	}
	if !player.Valid() {
		return errors.Wrapf(ErrInvalidPlayer, "%d", uint8(player))
	}
	if s.board[ToIndex(row, col)].IsOccupied() {
		return errors.Wrapf(ErrOccupied, "(%d, %d)", row, col)
	}
	if s.numPieces[player] >= MaxPieces {
		return errors.Wrapf(ErrCapacity, "%v", player)
	}
	return nil
}

// CheckRemove reports why Remove would fail, or nil if it would succeed
func (s *State) CheckRemove(row, col int) error {
	if !InBounds(row, col) {
		return errors.Wrapf(ErrOutOfBounds, "(%d, %d)", row, col)
	}
	if !s.board[ToIndex(row, col)].IsOccupied() {
		return errors.Wrapf(ErrEmpty, "(%d, %d)", row, col)
	}
	return nil
}

// Snapshot returns a copy of the state
func (s *State) Snapshot() State {
	return *s
}

// Restore overwrites the state with a snapshot
func (s *State) Restore(snapshot State) {
	*s = snapshot
}

// Cell returns the packed cell at index. Out of range indexes read as empty.
func (s *State) Cell(index int) Cell {
	if index < 0 || index >= NumSquares {
		return EmptyCell
	}
	return s.board[index]
}

// Board returns a copy of all 64 cells
func (s *State) Board() [NumSquares]Cell {
	return s.board
}

// IsOccupied reports whether the cell at index holds a piece
func (s *State) IsOccupied(index int) bool {
	return s.Cell(index).IsOccupied()
}

// OwnerOf returns who owns the piece at index. The result is meaningless
// for empty cells.
func (s *State) OwnerOf(index int) PlayerID {
	return s.Cell(index).Owner()
}

// PieceCount returns how many live pieces player owns
func (s *State) PieceCount(player PlayerID) int {
	if !player.Valid() {
		return 0
	}
	return s.numPieces[player]
}

// Piece looks up a live piece by its position in the owner's array
func (s *State) Piece(owner PlayerID, pieceIndex int) (Piece, bool) {
	if !owner.Valid() || pieceIndex < 0 || pieceIndex >= s.numPieces[owner] {
		return Piece{}, false
	}
	return s.pieces[owner][pieceIndex], true
}

// PieceAt resolves the piece on (row, col) through its board cell
func (s *State) PieceAt(row, col int) (PlayerID, Piece, bool) {
	if !InBounds(row, col) {
		return 0, Piece{}, false
	}
	cell := s.board[ToIndex(row, col)]
	if !cell.IsOccupied() {
		return 0, Piece{}, false
	}
	piece, ok := s.Piece(cell.Owner(), cell.PieceIndex())
	return cell.Owner(), piece, ok
}

// Pieces returns a copy of player's live pieces in array order
func (s *State) Pieces(player PlayerID) []Piece {
	if !player.Valid() {
		return nil
	}
	live := s.pieces[player][:s.numPieces[player]]
	r := make([]Piece, len(live))
	copy(r, live)
	return r
}

// Validate checks that the board and both piece arrays agree with each other
func (s *State) Validate() error {
	var referenced [NumSquares]bool
	for p := PlayerID(0); p < NumPlayers; p++ {
		count := s.numPieces[p]
		if count < 0 || count > MaxPieces {
			return errors.Wrapf(ErrInconsistent, "%v has %d pieces", p, count)
		}
		for i := 0; i < count; i++ {
			piece := s.pieces[p][i]
			if int(piece.BoardIndex) >= NumSquares {
				return errors.Wrapf(ErrInconsistent, "%v piece %d is off the board at %d", p, i, piece.BoardIndex)
			}
			if cell := s.board[piece.BoardIndex]; cell != Encode(p, i) {
				return errors.Wrapf(ErrInconsistent, "%v piece %d at cell %d, but cell decodes to %s", p, i, piece.BoardIndex, describeCell(cell))
			}
			referenced[piece.BoardIndex] = true
		}
	}
	for i, cell := range s.board {
		if cell.IsOccupied() && !referenced[i] {
			return errors.Wrapf(ErrInconsistent, "cell %d is %s but no piece points at it", i, describeCell(cell))
		}
		if !cell.IsOccupied() && cell != EmptyCell {
			return errors.Wrapf(ErrInconsistent, "empty cell %d has stray bits %#02x", i, uint8(cell))
		}
	}
	return nil
}

func describeCell(c Cell) string {
	if !c.IsOccupied() {
		return "empty"
	}
	return fmt.Sprintf("(%v, index %d)", c.Owner(), c.PieceIndex())
}
