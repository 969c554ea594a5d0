// Package http implements the HTTP transport of the dev realtime server.
//
// It serves a realtime JSON tree over the Realtime-Database REST dialect:
// every path is addressed as "{path}.json", GET returns the subtree (or an
// event stream when the client asks for text/event-stream), and PUT, PATCH,
// POST and DELETE mutate it. Token verification, request tracing, access
// logging and response compression are handled by middleware.
package http
