// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package events implements the synchronous, in-order, multi-subscriber
// notification surfaces used by every mirrored primitive.
//
// [Registry] is an ordered callback multiplexer. [Gated] wraps a Registry
// with a one-way latch: once opened, subscribers that attach later are
// invoked immediately with the value the gate was opened with, so a late
// subscriber never misses a terminal state such as "ready".
package events
