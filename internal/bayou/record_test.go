package bayou

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/hash"
)

func newTestRegistry(t *testing.T) *hash.Registry {
	t.Helper()
	r := hash.NewRegistry()
	for _, name := range []string{"alligator", "crocodile", "mosquito"} {
		if _, err := r.Register(name); err != nil {
			t.Fatal(err)
		}
	}
	return r
}

func TestSerializeRoundTrip(t *testing.T) {
	names := newTestRegistry(t)
	var s State
	s.Place(0, 0, Player1, alligator)
	s.Place(0, 7, Player1, crocodile)
	s.Place(7, 0, Player2, hash.String("mosquito"))
	s.Place(7, 7, Player2, alligator)
	s.Place(3, 3, Player1, alligator)
	s.Remove(0, 0)

	record, err := s.Serialize(names)
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(&record)
	if err != nil {
		t.Fatal(err)
	}

	// decode into a fresh registry so types have to be re-registered
	fresh := hash.NewRegistry()
	var out State
	if err := UnmarshalJSON(&out, data, fresh); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, data)
	}
	if out.Board() != s.Board() {
		t.Fatalf("board differs after round trip")
	}
	for p := PlayerID(0); p < NumPlayers; p++ {
		want, got := s.Pieces(p), out.Pieces(p)
		if len(want) != len(got) {
			t.Fatalf("%v: expected %d pieces, got %d", p, len(want), len(got))
		}
		for i := range want {
			if want[i] != got[i] {
				t.Errorf("%v piece %d: expected %+v, got %+v", p, i, want[i], got[i])
			}
		}
	}
	if out != s {
		t.Fatalf("expected state to be identical after round trip")
	}
}

func TestSerializeShape(t *testing.T) {
	names := newTestRegistry(t)
	var s State
	s.Place(0, 1, Player2, crocodile)
	data, err := MarshalJSON(&s, names)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	for _, want := range []string{
		`"board":[0,3,0`,
		`"player1":[]`,
		`"player2":[{"type":"crocodile","boardIndex":1}]`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s to contain %s", got, want)
		}
	}
}

func TestSerializeUnknownType(t *testing.T) {
	var s State
	s.Place(0, 0, Player1, hash.String("never-registered"))
	if _, err := s.Serialize(hash.NewRegistry()); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func emptyBoardJSON(cells map[int]int) string {
	board := make([]string, NumSquares)
	for i := range board {
		board[i] = "0"
	}
	for i, v := range cells {
		board[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(board, ",") + "]"
}

func TestDeserializeRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		target error
	}{
		{
			name:   "short board",
			data:   `{"board":[0,0,0],"pieces":{"player1":[],"player2":[]}}`,
			target: ErrMalformed,
		},
		{
			name:   "missing board",
			data:   `{"pieces":{"player1":[],"player2":[]}}`,
			target: ErrMalformed,
		},
		{
			name:   "missing pieces",
			data:   `{"board":` + emptyBoardJSON(nil) + `}`,
			target: ErrMalformed,
		},
		{
			name:   "piece missing type",
			data:   `{"board":` + emptyBoardJSON(map[int]int{0: 1}) + `,"pieces":{"player1":[{"boardIndex":0}]}}`,
			target: ErrMalformed,
		},
		{
			name:   "piece missing boardIndex",
			data:   `{"board":` + emptyBoardJSON(map[int]int{0: 1}) + `,"pieces":{"player1":[{"type":"alligator"}]}}`,
			target: ErrMalformed,
		},
		{
			name:   "cell out of range",
			data:   `{"board":` + emptyBoardJSON(map[int]int{0: 256}) + `,"pieces":{}}`,
			target: ErrMalformed,
		},
		{
			name:   "boardIndex out of range",
			data:   `{"board":` + emptyBoardJSON(nil) + `,"pieces":{"player1":[{"type":"alligator","boardIndex":64}]}}`,
			target: ErrMalformed,
		},
		{
			name:   "piece without a cell",
			data:   `{"board":` + emptyBoardJSON(nil) + `,"pieces":{"player1":[{"type":"alligator","boardIndex":5}]}}`,
			target: ErrInconsistent,
		},
		{
			name:   "cell without a piece",
			data:   `{"board":` + emptyBoardJSON(map[int]int{9: 3}) + `,"pieces":{"player1":[],"player2":[]}}`,
			target: ErrInconsistent,
		},
		{
			name:   "not json",
			data:   `{"board":`,
			target: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s State
			s.Place(2, 2, Player1, alligator)
			before := s

			err := UnmarshalJSON(&s, []byte(tt.data), newTestRegistry(t))
			if !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}
			if s != before {
				t.Fatalf("failed deserialize mutated the state")
			}
		})
	}
}

func TestDeserializeMissingPlayerListIsEmpty(t *testing.T) {
	data := `{"board":` + emptyBoardJSON(map[int]int{63: 3}) + `,"pieces":{"player2":[{"type":"mosquito","boardIndex":63}]}}`
	var s State
	if err := UnmarshalJSON(&s, []byte(data), newTestRegistry(t)); err != nil {
		t.Fatal(err)
	}
	if s.PieceCount(Player1) != 0 || s.PieceCount(Player2) != 1 {
		t.Fatalf("unexpected counts %d, %d", s.PieceCount(Player1), s.PieceCount(Player2))
	}
	owner, piece, ok := s.PieceAt(7, 7)
	if !ok || owner != Player2 || piece.Type != hash.String("mosquito") {
		t.Fatalf("unexpected piece (%v, %+v, %v)", owner, piece, ok)
	}
}

type collidingRegistry struct{}

func (collidingRegistry) Register(name string) (hash.Value, error) {
	return 0, errors.Wrap(hash.ErrCollision, name)
}

func TestDeserializeRegistrationFailure(t *testing.T) {
	data := `{"board":` + emptyBoardJSON(map[int]int{0: 1}) + `,"pieces":{"player1":[{"type":"alligator","boardIndex":0}]}}`
	var s State
	if err := UnmarshalJSON(&s, []byte(data), collidingRegistry{}); !errors.Is(err, hash.ErrCollision) {
		t.Fatalf("expected ErrCollision, got %v", err)
	}
}

func TestDeserializeFailureRegistersNothing(t *testing.T) {
	data := `{"board":` + emptyBoardJSON(nil) + `,"pieces":{"player1":[{"type":"ghost","boardIndex":5}]}}`
	names := hash.NewRegistry()
	var s State
	if err := UnmarshalJSON(&s, []byte(data), names); !errors.Is(err, ErrInconsistent) {
		t.Fatalf("expected ErrInconsistent, got %v", err)
	}
	if names.Len() != 0 {
		t.Fatalf("expected no names to be registered, got %d", names.Len())
	}
}
