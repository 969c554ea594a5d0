// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoListener is returned when neither a handler nor an address is set for
// the realtime server.
var errNoListener = errors.New("realtime server has no HTTP listener configured")
