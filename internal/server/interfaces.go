package server

// Server defines the lifecycle contract of the transport servers managed by
// this package.
type Server interface {
	// RunServer serves requests and blocks until SIGTERM, SIGINT or SIGQUIT,
	// then shuts down gracefully.
	RunServer()

	// Shutdown ends open streams and gracefully stops the server.
	Shutdown()
}
