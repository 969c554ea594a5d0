// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-campaign-mirror/internal/campaign"
	"github.com/MKhiriev/go-campaign-mirror/internal/mirror"
)

func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, campaign.ErrNotLoggedIn):
		return "Not logged in: set REMOTE_AUTH_TOKEN"
	case errors.Is(err, mirror.ErrCreateTimeout):
		return "The server did not confirm the message in time"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "No network or the server is unavailable"
	}

	return err.Error()
}
