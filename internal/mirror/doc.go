// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package mirror keeps a local, eventually consistent copy of parts of a
// realtime store and tells consumers when it changes.
//
// Every primitive follows the same lifecycle. It reads its path once,
// hydrates from that snapshot, opens its ready gate and only then attaches
// the incremental subscriptions. Events that reach a primitive before it is
// ready are dropped.
//
//   - [Collection] mirrors a map of keyed records into materialized objects,
//     keeping insertion order and resolving [Collection.Create] once the
//     store echoes the new key back.
//   - [Var] mirrors a single value.
//   - [Composite] and [WaitAll] join the readiness of several primitives.
//   - [Record] and [IDList] are the building blocks domain objects are
//     made of: the current and previous raw record, and id lists encoded in
//     a single field.
//
// Incremental events for one primitive are handled one at a time, on the
// backend's delivery goroutine. Subscribers of Added, Changed and Removed run
// on that goroutine too and must not block on another round trip through the
// same backend.
package mirror
