//go:build server

package client_or_server

import (
	"github.com/shoeengine/bayou/internal/netcode"
	"github.com/shoeengine/bayou/internal/netcode/netconf"
	"github.com/shoeengine/bayou/internal/netcode/server"
)

// NewClientOrServer will return server for server tagged builds
func NewClientOrServer(options netconf.Options) netcode.Controller {
	return server.New(options)
}
