// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for clip-to-playlist runs:
//  1. [RunView] : Monitor real-time pipeline progress (extract through backfill)
//  2. [ReviewView] : Browse the seed track and recommendations before publishing
//  3. [ConfirmView] : Confirm playlist creation
//  4. [PublishView] : Monitor playlist creation
//  5. [DoneView] : Display the created playlist or a failure
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the PipelineEngine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
