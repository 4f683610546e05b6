package world

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/bayou"
	"github.com/shoeengine/bayou/internal/data"
	"github.com/shoeengine/bayou/internal/hash"
	"github.com/shoeengine/bayou/internal/netcode/packs"
)

var alligator = hash.String("alligator")

func TestApplyTakesTurns(t *testing.T) {
	world := New(nil)
	tests := []struct {
		name   string
		player bayou.PlayerID
		action bayou.Action
		want   error
	}{
		{"player2 cannot move first", bayou.Player2, bayou.PlaceAction{Row: 0, Col: 0, Player: bayou.Player2, Type: alligator}, ErrNotYourTurn},
		{"player1 cannot place for player2", bayou.Player1, bayou.PlaceAction{Row: 0, Col: 0, Player: bayou.Player2, Type: alligator}, ErrNotYourPiece},
		{"player1 places", bayou.Player1, bayou.PlaceAction{Row: 0, Col: 0, Player: bayou.Player1, Type: alligator}, nil},
		{"player1 cannot move twice", bayou.Player1, bayou.PlaceAction{Row: 1, Col: 1, Player: bayou.Player1, Type: alligator}, ErrNotYourTurn},
		{"player2 cannot take an occupied square", bayou.Player2, bayou.PlaceAction{Row: 0, Col: 0, Player: bayou.Player2, Type: alligator}, bayou.ErrOccupied},
		{"player2 cannot remove player1 pieces", bayou.Player2, bayou.RemoveAction{Row: 0, Col: 0}, ErrNotYourPiece},
		{"player2 cannot remove nothing", bayou.Player2, bayou.RemoveAction{Row: 5, Col: 5}, bayou.ErrEmpty},
		{"player2 places", bayou.Player2, bayou.PlaceAction{Row: 7, Col: 7, Player: bayou.Player2, Type: alligator}, nil},
		{"player1 removes own piece", bayou.Player1, bayou.RemoveAction{Row: 0, Col: 0}, nil},
	}
	for _, test := range tests {
		turnBefore := world.Turn
		err := world.Apply(test.player, test.action)
		if test.want == nil {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", test.name, err)
			}
			if world.Turn == turnBefore {
				t.Fatalf("%s: turn did not pass", test.name)
			}
			continue
		}
		if !errors.Is(err, test.want) {
			t.Fatalf("%s: expected %v, got %v", test.name, test.want, err)
		}
		if world.Turn != turnBefore {
			t.Fatalf("%s: turn passed on a failed move", test.name)
		}
	}
	if world.State.PieceCount(bayou.Player1) != 0 || world.State.PieceCount(bayou.Player2) != 1 {
		t.Fatalf("unexpected piece counts")
	}
}

func TestPending(t *testing.T) {
	world := New(nil)
	world.Queue(bayou.RemoveAction{Row: 1, Col: 1})
	world.Queue(bayou.RemoveAction{Row: 2, Col: 2})
	if got := world.TakePending(); len(got) != 2 {
		t.Fatalf("expected 2 pending actions, got %d", len(got))
	}
	if got := world.TakePending(); len(got) != 0 {
		t.Fatalf("expected pending to be cleared, got %d", len(got))
	}
}

const testData = `{
	"pieces": ["alligator", "crocodile"],
	"bayou_state": {
		"board": [1,0,0,0,0,0,0,5, 0,0,0,0,0,0,0,0, 0,0,0,0,0,0,0,0, 0,0,0,0,0,0,0,0,
		          0,0,0,0,0,0,0,0, 0,0,0,0,0,0,0,0, 0,0,0,0,0,0,0,0, 3,0,0,0,0,0,0,7],
		"pieces": {
			"player1": [{"type": "alligator", "boardIndex": 0}, {"type": "crocodile", "boardIndex": 7}],
			"player2": [{"type": "alligator", "boardIndex": 56}, {"type": "crocodile", "boardIndex": 63}]
		}
	}
}`

func newLoadedWorld(t *testing.T) (*World, *PieceCatalogue, *data.DataManager) {
	t.Helper()
	names := hash.NewRegistry()
	world := New(names)
	catalogue := NewPieceCatalogue(names)
	dm := data.New(names)
	if err := dm.RegisterManager(NewStateManager(world)); err != nil {
		t.Fatalf("RegisterManager: %v", err)
	}
	if err := dm.RegisterManager(catalogue); err != nil {
		t.Fatalf("RegisterManager: %v", err)
	}
	if err := dm.ProcessData([]byte(testData)); err != nil {
		t.Fatalf("ProcessData: %v", err)
	}
	return world, catalogue, dm
}

func TestStateManagerLoadsBoard(t *testing.T) {
	world, _, dm := newLoadedWorld(t)
	if world.State.PieceCount(bayou.Player1) != 2 || world.State.PieceCount(bayou.Player2) != 2 {
		t.Fatalf("expected 2 pieces each")
	}
	owner, piece, ok := world.State.PieceAt(7, 7)
	if !ok || owner != bayou.Player2 || piece.Type != hash.String("crocodile") {
		t.Fatalf("unexpected piece at (7, 7): %v %+v %v", owner, piece, ok)
	}

	b, err := dm.SerializeToJSON()
	if err != nil {
		t.Fatalf("SerializeToJSON: %v", err)
	}
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(b, &sections); err != nil {
		t.Fatalf("saved data is not json: %v", err)
	}
	if _, ok := sections["bayou_state"]; !ok {
		t.Fatalf("saved data is missing bayou_state")
	}

	other := New(nil)
	if err := NewStateManager(other).CreateFromJSON(sections["bayou_state"]); err != nil {
		t.Fatalf("reloading saved state: %v", err)
	}
	if other.State.Board() != world.State.Board() {
		t.Fatalf("reloaded board differs")
	}
}

func TestStateManagerRejectsBadBoard(t *testing.T) {
	world, _, _ := newLoadedWorld(t)
	before := world.State
	err := NewStateManager(world).CreateFromJSON(json.RawMessage(`{"board": [1], "pieces": {}}`))
	if !errors.Is(err, bayou.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if world.State != before {
		t.Fatalf("failed load changed the board")
	}
}

func TestPieceCatalogue(t *testing.T) {
	_, catalogue, _ := newLoadedWorld(t)
	name, typ, ok := catalogue.Selected()
	if !ok || name != "alligator" || typ != alligator {
		t.Fatalf("expected alligator to be selected first, got %q", name)
	}
	if got := catalogue.Next(); got != "crocodile" {
		t.Fatalf("expected crocodile, got %q", got)
	}
	if got := catalogue.Next(); got != "alligator" {
		t.Fatalf("expected Next to wrap around to alligator, got %q", got)
	}

	empty := NewPieceCatalogue(nil)
	if _, _, ok := empty.Selected(); ok {
		t.Fatalf("empty catalogue should have nothing selected")
	}
	if got := empty.Next(); got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
	b, err := empty.SerializeToJSON()
	if err != nil || string(b) != "[]" {
		t.Fatalf("expected [], got %s (%v)", b, err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	world, _, _ := newLoadedWorld(t)
	world.Turn = bayou.Player2

	packet, err := world.Snapshot(bayou.Player2)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(packet.Board) != bayou.NumSquares || len(packet.Player1) != 2 {
		t.Fatalf("unexpected snapshot shape: %+v", packet)
	}

	client := New(nil)
	if err := client.SyncToSnapshot(packet); err != nil {
		t.Fatalf("SyncToSnapshot: %v", err)
	}
	if client.State != world.State {
		t.Fatalf("client board differs from server board")
	}
	if client.MyPlayer != bayou.Player2 || client.Turn != bayou.Player2 {
		t.Fatalf("expected client to be player2 on player2's turn, got %v on %v's turn", client.MyPlayer, client.Turn)
	}
	if name, ok := client.Names.Resolve(hash.String("crocodile")); !ok || name != "crocodile" {
		t.Fatalf("expected snapshot to register piece names on the client")
	}
}

func TestSyncToSnapshotRejectsBadBoard(t *testing.T) {
	world, _, _ := newLoadedWorld(t)
	before := world.State
	packet, err := world.Snapshot(bayou.Player1)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	// point a cell at a piece that doesn't exist
	packet.Board[30] = uint8(bayou.Encode(bayou.Player1, 5))
	if err := world.SyncToSnapshot(packet); !errors.Is(err, bayou.ErrInconsistent) {
		t.Fatalf("expected ErrInconsistent, got %v", err)
	}
	if world.State != before {
		t.Fatalf("rejected snapshot changed the board")
	}

	if err := world.SyncToSnapshot(&packs.BoardStatePacket{YourPlayer: 2}); !errors.Is(err, bayou.ErrMalformed) {
		t.Fatalf("expected ErrMalformed for a bad player, got %v", err)
	}
}

func TestEncodeSnapshot(t *testing.T) {
	world, _, _ := newLoadedWorld(t)
	b, err := world.EncodeSnapshot()
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	other := New(nil)
	if err := other.DecodeSnapshot(b); err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if other.State != world.State {
		t.Fatalf("decoded board differs")
	}
}

func TestReset(t *testing.T) {
	world, _, _ := newLoadedWorld(t)
	world.Turn = bayou.Player2
	world.Queue(bayou.RemoveAction{})
	world.Reset()
	if world.State.PieceCount(bayou.Player1) != 0 || world.Turn != bayou.Player1 || len(world.Pending) != 0 {
		t.Fatalf("reset did not clear the match")
	}
}

type unsupportedAction struct{}

func (unsupportedAction) Apply(state *bayou.State) bool { return true }

func TestApplyRejectsUnknownActions(t *testing.T) {
	world := New(nil)
	for _, action := range []bayou.Action{nil, unsupportedAction{}} {
		if err := world.Apply(bayou.Player1, action); !errors.Is(err, ErrUnknownAction) {
			t.Fatalf("%T: expected ErrUnknownAction, got %v", action, err)
		}
	}
	if world.Turn != bayou.Player1 {
		t.Fatalf("turn passed on a rejected action")
	}
}

func TestApplyOnlyPlacesCatalogueTypes(t *testing.T) {
	world, catalogue, _ := newLoadedWorld(t)
	world.Catalogue = catalogue
	world.State.ResetState()

	stranger := world.Names.MustRegister("player_image")
	err := world.Apply(bayou.Player1, bayou.PlaceAction{Row: 4, Col: 4, Player: bayou.Player1, Type: stranger})
	if !errors.Is(err, bayou.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if world.State.IsOccupied(bayou.ToIndex(4, 4)) {
		t.Fatalf("rejected piece was placed")
	}
	if err := world.Apply(bayou.Player1, bayou.PlaceAction{Row: 4, Col: 4, Player: bayou.Player1, Type: alligator}); err != nil {
		t.Fatalf("catalogue type should be placeable: %v", err)
	}
}
