// app wires the data managers, input, netcode and visualizer into a
// runnable game
package app

import (
	"image/color"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/asset"
	"github.com/shoeengine/bayou/internal/bayou"
	"github.com/shoeengine/bayou/internal/data"
	"github.com/shoeengine/bayou/internal/graphics"
	"github.com/shoeengine/bayou/internal/hash"
	"github.com/shoeengine/bayou/internal/input"
	"github.com/shoeengine/bayou/internal/monotime"
	"github.com/shoeengine/bayou/internal/netcode"
	"github.com/shoeengine/bayou/internal/netcode/client_or_server"
	"github.com/shoeengine/bayou/internal/netcode/netconf"
	"github.com/shoeengine/bayou/internal/renderer"
	"github.com/shoeengine/bayou/internal/visual"
	"github.com/shoeengine/bayou/internal/world"
)

// ErrQuit is returned from Update when the player asks to quit
var ErrQuit = errors.New("quit")

// names of the input bindings the app reacts to
const (
	inputSelect     = "select"
	inputRemove     = "remove"
	inputCyclePiece = "cycle_piece"
	inputSave       = "save"
	inputReset      = "reset"
	inputQuit       = "quit"

	boardContext = "board"
	stateSection = "bayou_state"
)

var backgroundColor = color.RGBA{R: 0x1e, G: 0x2d, B: 0x24, A: 0xff}

type Options struct {
	// DataPath is the game data file, empty to use the built-in one
	DataPath string
	// AssetsDir is where image paths are read from. If empty, images come
	// from next to DataPath, or the built-in assets.
	AssetsDir string
	// LoadPath is a saved game to load after the game data
	LoadPath string
	// SavePath is where the save binding writes the board
	SavePath string
	// TileSize is the size of one square in pixels
	TileSize int
	Net      netconf.Options
}

type App struct {
	renderer.App

	options        Options
	hasInitialized bool

	// factory and device are overridden by tests
	factory graphics.ImageFactory
	device  input.Device

	names      *hash.Registry
	data       *data.DataManager
	inputs     *input.Manager
	images     *graphics.ImageManager
	catalogue  *world.PieceCatalogue
	world      *world.World
	board      *visual.BoardRenderer
	visualizer *visual.StateVisualizer

	clientOrServer netcode.Controller
	stopwatch      monotime.Stopwatch
}

func New(options Options) *App {
	if options.TileSize <= 0 {
		options.TileSize = visual.DefaultTileSize
	}
	return &App{
		options: options,
	}
}

// Init loads the game data and connects (or starts serving) if needed
func (app *App) Init() error {
	if app.factory == nil {
		app.factory = &app.App
	}
	if app.device == nil {
		app.device = input.DefaultDevice
	}
	app.names = hash.NewRegistry()
	app.world = world.New(app.names)
	app.inputs = input.NewManager(app.names, app.device)
	app.catalogue = world.NewPieceCatalogue(app.names)
	app.world.Catalogue = app.catalogue

	dataFS, dataPath := fs.FS(asset.FS), asset.GameData
	if app.options.DataPath != "" {
		dataFS = os.DirFS(filepath.Dir(app.options.DataPath))
		dataPath = filepath.Base(app.options.DataPath)
	}
	assetsFS := dataFS
	if app.options.AssetsDir != "" {
		assetsFS = os.DirFS(app.options.AssetsDir)
	}
	app.images = graphics.NewImageManager(app.names, app.factory, assetsFS)

	app.data = data.New(app.names)
	for _, manager := range []data.Manager{
		app.images,
		app.inputs,
		app.catalogue,
		world.NewStateManager(app.world),
	} {
		if err := app.data.RegisterManager(manager); err != nil {
			return err
		}
	}
	if err := app.data.LoadFromFile(dataFS, dataPath); err != nil {
		return err
	}
	if path := app.options.LoadPath; path != "" {
		if err := app.data.LoadFromFile(os.DirFS(filepath.Dir(path)), filepath.Base(path)); err != nil {
			return errors.Wrap(err, "unable to load saved game")
		}
		log.Printf("loaded %s", path)
	}
	app.inputs.PushContext(boardContext)

	app.board = visual.NewBoardRenderer(float32(app.options.TileSize))
	app.visualizer = visual.NewStateVisualizer(app.board, app.images)

	app.SetRunnableOnUnfocused(true)

	app.clientOrServer = client_or_server.NewClientOrServer(app.options.Net)
	return nil
}

func (app *App) Update() error {
	if !app.hasInitialized {
		if err := app.Init(); err != nil {
			return err
		}
		app.hasInitialized = true
	}
	dt := app.stopwatch.Lap()

	app.inputs.Update()
	if err := app.handleInput(); err != nil {
		return err
	}

	// Handle networking
	// - local: apply moves for whoever's turn it is
	// - client: send moves, snap to the server's board
	// - server: apply moves from each seat, send the board back
	app.clientOrServer.BeforeUpdate(app.world)
	if err := app.clientOrServer.Err(); err != nil {
		return err
	}

	app.visualizer.Update(&app.world.State, float32(dt.Seconds()))
	return nil
}

// handleInput turns this update's input into queued moves and commands
func (app *App) handleInput() error {
	if app.inputs.JustActivated(inputQuit) {
		return ErrQuit
	}
	if app.inputs.JustActivated(inputSave) {
		app.save()
	}
	if app.inputs.JustActivated(inputReset) {
		if app.options.Net.IsLocal() {
			app.world.Reset()
			log.Printf("board reset")
		} else {
			log.Printf("cannot reset a network match")
		}
	}
	if app.inputs.JustActivated(inputCyclePiece) {
		log.Printf("selected %s", app.catalogue.Next())
	}
	if app.inputs.JustActivated(inputSelect) {
		app.placeAt(app.inputs.MousePosition())
	}
	if app.inputs.JustActivated(inputRemove) {
		app.removeAt(app.inputs.MousePosition())
	}
	// always empty on desktop
	for _, touchID := range input.JustPressedTouchIDs() {
		app.placeAt(input.TouchPosition(touchID))
	}
	return nil
}

func (app *App) placeAt(x, y int) {
	row, col, ok := app.board.CellAt(x, y)
	if !ok {
		return
	}
	_, typ, ok := app.catalogue.Selected()
	if !ok {
		log.Printf("no piece types to place")
		return
	}
	app.world.Queue(bayou.PlaceAction{
		Row:    row,
		Col:    col,
		Player: app.world.MyPlayer,
		Type:   typ,
	})
}

func (app *App) removeAt(x, y int) {
	row, col, ok := app.board.CellAt(x, y)
	if !ok {
		return
	}
	app.world.Queue(bayou.RemoveAction{
		Row: row,
		Col: col,
	})
}

func (app *App) save() {
	if app.options.SavePath == "" {
		log.Printf("no save path set")
		return
	}
	if err := app.data.SaveToFile(app.options.SavePath, stateSection); err != nil {
		log.Printf("save failed: %v", err)
		return
	}
	log.Printf("saved %s", app.options.SavePath)
}

func (app *App) Draw(screen renderer.Screen) {
	screen.Fill(backgroundColor)
	if !app.hasInitialized ||
		!app.clientOrServer.HasStartedOrConnected() {
		return
	}
	app.visualizer.Draw(screen)
}

func (app *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := app.options.TileSize * bayou.BoardSize
	return size, size
}

// Start runs the game until the window is closed or the quit binding is
// pressed
func Start(options Options) error {
	app := New(options)
	size := app.options.TileSize * bayou.BoardSize
	app.SetWindowSize(size, size)
	app.SetWindowTitle("Bayou")
	if err := app.App.RunGame(app); err != nil && !errors.Is(err, ErrQuit) {
		return err
	}
	return nil
}
