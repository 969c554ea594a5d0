// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"
)

// BuildInfo is the version stamp shown by the info window.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

func renderBuildInfoWindow(info BuildInfo, remoteURL string) string {
	var b strings.Builder

	b.WriteString("Application: campaign-mirror\n")
	b.WriteString("Version: ")
	b.WriteString(valueOrNA(info.Version))
	b.WriteString("\n")
	b.WriteString("Date: ")
	b.WriteString(valueOrNA(info.Date))
	b.WriteString("\n")
	b.WriteString("Commit: ")
	b.WriteString(valueOrNA(info.Commit))
	b.WriteString("\n")
	b.WriteString("Remote: ")
	b.WriteString(valueOrNA(remoteURL))

	return overlayBoxStyle.Render(renderPage("ABOUT", b.String(), "esc: back"))
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}
