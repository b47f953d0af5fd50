package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/vibelist/internal/models"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.ResolvedTrack] to implement [list.Item].
type trackItem struct {
	track models.ResolvedTrack
	seed  bool
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string {
	if i.seed {
		return "★ " + i.track.Name
	}
	return i.track.Name
}
func (i trackItem) Description() string { return i.track.Artists }
