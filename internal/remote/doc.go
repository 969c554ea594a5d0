// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package remote defines the boundary between the mirror and a realtime
// keyed store.
//
// A [Ref] addresses one path in a JSON tree. It can read the subtree once,
// subscribe to child and value events, write, merge, delete, and mint push
// keys. Two implementations live in sub-packages: memory (an in-process
// store, also backing the dev server) and rest (the realtime-database REST
// and streaming protocol).
//
// The package also carries the JSON tree helpers shared by both backends:
// path normalisation, subtree get/set on decoded JSON, and the diff that turns
// a before/after pair of snapshots into child events.
package remote
