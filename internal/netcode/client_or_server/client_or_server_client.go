//go:build !server

package client_or_server

import (
	"github.com/shoeengine/bayou/internal/netcode"
	"github.com/shoeengine/bayou/internal/netcode/client"
	"github.com/shoeengine/bayou/internal/netcode/local"
	"github.com/shoeengine/bayou/internal/netcode/netconf"
)

// NewClientOrServer will return a client for non-server tagged builds, or
// the hot-seat controller if there is no server to connect to
func NewClientOrServer(options netconf.Options) netcode.Controller {
	if options.IsLocal() {
		return local.New()
	}
	return client.New(options)
}
