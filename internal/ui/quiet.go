package ui

import "github.com/bamsammich/ferry/internal/stats"

// quietPresenter drains events without output. The summary is still
// available so callers can log it.
type quietPresenter struct {
	stats stats.Reader
}

func (p *quietPresenter) Run(events <-chan Event) error {
	for range events {
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
