package bayou

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/hash"
)

// Resolver turns piece type hashes back into names
type Resolver interface {
	Resolve(v hash.Value) (string, bool)
}

// Registrar turns piece type names into hashes
type Registrar interface {
	Register(name string) (hash.Value, error)
}

// Record is the persisted form of a State
//
//	{
//	  "board": [64 integers],
//	  "pieces": {
//	    "player1": [{"type": "alligator", "boardIndex": 0}],
//	    "player2": []
//	  }
//	}
type Record struct {
	// note: []int instead of []uint8, encoding/json writes byte slices as base64
	Board  []int         `json:"board"`
	Pieces *PiecesRecord `json:"pieces"`
}

type PiecesRecord struct {
	Player1 []PieceRecord `json:"player1"`
	Player2 []PieceRecord `json:"player2"`
}

type PieceRecord struct {
	Type       string `json:"type"`
	BoardIndex int    `json:"boardIndex"`
}

// UnmarshalJSON rejects piece entries that are missing a field
func (record *PieceRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type       *string `json:"type"`
		BoardIndex *int    `json:"boardIndex"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type == nil {
		return errors.Wrap(ErrMalformed, "piece is missing \"type\"")
	}
	if raw.BoardIndex == nil {
		return errors.Wrap(ErrMalformed, "piece is missing \"boardIndex\"")
	}
	record.Type = *raw.Type
	record.BoardIndex = *raw.BoardIndex
	return nil
}

func (record *PiecesRecord) list(player PlayerID) []PieceRecord {
	if player == Player2 {
		return record.Player2
	}
	return record.Player1
}

// Serialize writes the board and each player's live pieces, in array order
func (s *State) Serialize(names Resolver) (Record, error) {
	record := Record{
		Board:  make([]int, NumSquares),
		Pieces: &PiecesRecord{},
	}
	for i, cell := range s.board {
		record.Board[i] = int(cell)
	}
	for p := PlayerID(0); p < NumPlayers; p++ {
		list := make([]PieceRecord, 0, s.numPieces[p])
		for i := 0; i < s.numPieces[p]; i++ {
			piece := s.pieces[p][i]
			name, ok := names.Resolve(piece.Type)
			if !ok {
				return Record{}, errors.Wrapf(ErrUnknownType, "%v piece %d has type %v", p, i, piece.Type)
			}
			list = append(list, PieceRecord{
				Type:       name,
				BoardIndex: int(piece.BoardIndex),
			})
		}
		if p == Player1 {
			record.Pieces.Player1 = list
		} else {
			record.Pieces.Player2 = list
		}
	}
	return record, nil
}

// Deserialize replaces s with the board described by record.
//
// The record is fully decoded and checked into a scratch State first, on
// any error s is left exactly as it was. Type names are only registered once
// the record is known to be consistent. Piece counts come from the list
// lengths.
func (s *State) Deserialize(record Record, names Registrar) error {
	if len(record.Board) != NumSquares {
		return errors.Wrapf(ErrMalformed, "board has %d cells, expected %d", len(record.Board), NumSquares)
	}
	if record.Pieces == nil {
		return errors.Wrap(ErrMalformed, "missing \"pieces\"")
	}

	var next State
	for i, v := range record.Board {
		if v < 0 || v > 0xFF {
			return errors.Wrapf(ErrMalformed, "cell %d has value %d, expected 0-255", i, v)
		}
		next.board[i] = Cell(v)
	}
	for p := PlayerID(0); p < NumPlayers; p++ {
		list := record.Pieces.list(p)
		if len(list) > MaxPieces {
			return errors.Wrapf(ErrMalformed, "%v has %d pieces, limit is %d", p, len(list), MaxPieces)
		}
		for i, entry := range list {
			if entry.BoardIndex < 0 || entry.BoardIndex >= NumSquares {
				return errors.Wrapf(ErrMalformed, "%v piece %d has boardIndex %d", p, i, entry.BoardIndex)
			}
			next.pieces[p][i] = Piece{
				Type:       hash.String(entry.Type),
				BoardIndex: uint8(entry.BoardIndex),
			}
		}
		next.numPieces[p] = len(list)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	for p := PlayerID(0); p < NumPlayers; p++ {
		for i, entry := range record.Pieces.list(p) {
			typ, err := names.Register(entry.Type)
			if err != nil {
				return errors.Wrapf(err, "%v piece %d", p, i)
			}
			if typ != next.pieces[p][i].Type {
				return errors.Wrapf(hash.ErrCollision, "%q registered as %v, expected %v", entry.Type, typ, next.pieces[p][i].Type)
			}
		}
	}
	*s = next
	return nil
}

// MarshalJSON is a convenience around Serialize for callers that only have
// a Resolver at hand.
func MarshalJSON(s *State, names Resolver) ([]byte, error) {
	record, err := s.Serialize(names)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&record)
}

// UnmarshalJSON decodes data into s, see Deserialize.
func UnmarshalJSON(s *State, data []byte, names Registrar) error {
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		if errors.Is(err, ErrMalformed) {
			return err
		}
		return errors.Wrap(ErrMalformed, err.Error())
	}
	return s.Deserialize(record, names)
}
