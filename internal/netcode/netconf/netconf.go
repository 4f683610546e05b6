package netconf

type Options struct {
	// PublicIP is used by the:
	// Client: to connect to server, empty means local play
	// Server: to setup the STUN server
	PublicIP string
	// HTTPPort is where the server accepts connections, 0 for the default
	HTTPPort int
	// STUNPort is the server's STUN port, 0 for the default
	STUNPort int
	// Verbose logs network traffic
	Verbose bool
}

// IsLocal is true when there is no server to connect to
func (options Options) IsLocal() bool {
	return options.PublicIP == ""
}
