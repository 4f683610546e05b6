// bayou runs the game. Build with "-tags server" (usually with "headless"
// too) to host a network match instead.
package main

import (
	"flag"
	"log"

	"github.com/shoeengine/bayou/internal/app"
	"github.com/shoeengine/bayou/internal/netdriver/webrtcdriver/webrtcshared"
)

func main() {
	var options app.Options
	flag.StringVar(&options.DataPath, "data", "", "game data file, defaults to the built-in data")
	flag.StringVar(&options.AssetsDir, "assets", "", "directory images are loaded from")
	flag.StringVar(&options.LoadPath, "load", "", "saved game to load on start")
	flag.StringVar(&options.SavePath, "save", "bayou_save.json", "where the save key writes the board")
	flag.IntVar(&options.TileSize, "tile", 0, "square size in pixels")
	flag.StringVar(&options.Net.PublicIP, "connect", "", "server IP to connect to (or the public IP to serve on), empty for hot-seat play")
	flag.IntVar(&options.Net.HTTPPort, "http-port", webrtcshared.DefaultHTTPPort, "port the server accepts connections on")
	flag.IntVar(&options.Net.STUNPort, "stun-port", webrtcshared.DefaultSTUNPort, "port of the server's STUN server")
	flag.BoolVar(&options.Net.Verbose, "verbose", false, "log network traffic")
	flag.Parse()

	if err := app.Start(options); err != nil {
		log.Fatalf("%v", err)
	}
}
