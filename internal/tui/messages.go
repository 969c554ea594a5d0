package tui

// refreshMsg asks the viewer to re-read the mirrored campaign.
type refreshMsg struct{}

type sentMsg struct {
	err error
}

type clearStatusMsg struct{}
