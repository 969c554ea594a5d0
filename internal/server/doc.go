// Package server runs the dev realtime server's HTTP transport.
//
// It owns the listener lifecycle: startup, signal handling, and a graceful
// shutdown that first ends open event streams and then drains requests.
package server
