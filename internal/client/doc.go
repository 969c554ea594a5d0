// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It connects to the realtime backend, logs in, waits for the campaign
// mirror to hydrate and then runs the terminal viewer next to the
// background workers in a single process lifecycle.
package client
