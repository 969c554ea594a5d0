// Package rest is a remote.Backend speaking the realtime database REST
// protocol: {base}{path}.json addressing, PUT/PATCH/DELETE writes and
// text/event-stream subscriptions carrying put and patch events.
//
// One stream is opened per subscribed path and shared by every subscriber
// of that path. Each stream keeps a local copy of its subtree and diffs it
// into child and value events.
package rest
