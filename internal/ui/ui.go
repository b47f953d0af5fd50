package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vibelist/internal/models"
	"github.com/desertthunder/vibelist/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RunView ViewState = iota
	ReviewView
	ConfirmView
	PublishView
	DoneView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.PipelineEngine
	videoPath    string
	editContext  string
	limit        int
	playlistName string
	width        int
	height       int
	trackList    list.Model
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *models.PipelineResult
	playlist     *models.PlaylistResult
	err          error
	help         help.Model
	keys         keyMap
}

type pipelineCompleteMsg struct {
	result *models.PipelineResult
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type publishCompleteMsg struct {
	playlist *models.PlaylistResult
	err      error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.PipelineEngine, videoPath, editContext, playlistName string, limit int) *Model {
	return &Model{
		ctx:          ctx,
		view:         RunView,
		engine:       engine,
		videoPath:    videoPath,
		editContext:  editContext,
		limit:        limit,
		playlistName: playlistName,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init starts the recommendation pipeline for the configured clip.
func (m *Model) Init() tea.Cmd {
	return m.startPipeline()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case RunView, PublishView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case ReviewView:
			return m.handleReviewKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case DoneView:
			return m.handleDoneKeys(msg)
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case pipelineCompleteMsg:
		m.err = msg.err
		m.result = msg.result
		if m.progressChan != nil {
			m.progressChan = nil
		}
		if msg.err != nil {
			m.view = DoneView
			return m, nil
		}
		m.trackList = list.New(m.trackItems(), list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = m.reviewTitle()
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = ReviewView
		return m, nil

	case publishCompleteMsg:
		m.playlist = msg.playlist
		m.err = msg.err
		m.view = DoneView
		if m.progressChan != nil {
			m.progressChan = nil
		}
		return m, nil
	}

	if m.view == ReviewView {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case RunView:
		return m.renderRun()
	case ReviewView:
		return m.renderReview()
	case ConfirmView:
		return m.renderConfirm()
	case PublishView:
		return m.renderPublish()
	case DoneView:
		return m.renderDone()
	default:
		return ""
	}
}

func (m *Model) handleReviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if m.result != nil && m.result.SeedTrack != nil {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		m.view = ReviewView
		return m, nil
	case "y":
		m.view = PublishView
		return m, m.startPublish()
	}
	return m, nil
}

func (m *Model) handleDoneKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter":
		return m, tea.Quit
	case "r":
		m.view = RunView
		m.result = nil
		m.playlist = nil
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
		return m, m.startPipeline()
	}
	return m, nil
}

func (m *Model) trackItems() []list.Item {
	items := []list.Item{}
	if m.result.SeedTrack != nil {
		items = append(items, trackItem{track: *m.result.SeedTrack, seed: true})
	}
	for _, track := range m.result.Recommendations {
		items = append(items, trackItem{track: track})
	}
	return items
}

func (m *Model) reviewTitle() string {
	if m.result.Vibe != nil {
		return fmt.Sprintf("%s • %s - %s", m.result.Vibe.Name, m.result.Song.Artists, m.result.Song.Title)
	}
	return fmt.Sprintf("%s - %s", m.result.Song.Artists, m.result.Song.Title)
}

func (m *Model) startPipeline() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	go func() {
		result, err := m.engine.Run(m.ctx, progressChan, m.videoPath, m.editContext, m.limit)
		m.result = result
		m.err = err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) startPublish() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	go func() {
		playlist, err := m.engine.Publish(m.ctx, progressChan, m.result, m.playlistName, false)
		m.playlist = playlist
		m.err = err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return m.completionMsg()
		}

		update, ok := <-m.progressChan
		if !ok {
			return m.completionMsg()
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) completionMsg() tea.Msg {
	if m.view == PublishView {
		return publishCompleteMsg{playlist: m.playlist, err: m.err}
	}
	return pipelineCompleteMsg{result: m.result, err: m.err}
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Building Your Vibe Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.Extract:
		phase = "Extracting audio from clip..."
	case tasks.Identify:
		phase = "Identifying song..."
	case tasks.Classify:
		phase = "Classifying vibe..."
	case tasks.ResolveSeed:
		phase = "Finding song on Spotify..."
	case tasks.Generate:
		phase = "Generating recommendations..."
	case tasks.SearchCandidates:
		phase = fmt.Sprintf("Searching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Backfill:
		phase = "Filling in from artist top tracks..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderReview() string {
	if m.result != nil && m.result.SeedTrack == nil {
		info := fmt.Sprintf("Identified: %s - %s\n\nNot found on Spotify, so there is nothing to publish.",
			m.result.Song.Artists, m.result.Song.Title)
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})
		return fmt.Sprintf("%s\n%s\n\n%s", styles.title.Render("Song Identified"), info, helpView)
	}

	createKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create playlist"))
	helpView := m.help.ShortHelpView([]key.Binding{createKey, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	name := m.playlistName
	if name == "" {
		name = fmt.Sprintf("%s Vibes", m.result.SeedTrack.Name)
	}
	title := styles.title.Render(fmt.Sprintf("Create playlist '%s' on Spotify?", name))
	info := fmt.Sprintf("\nTracks: %d\n", len(m.result.Recommendations)+1)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderPublish() string {
	title := styles.title.Render("Creating Playlist")
	return fmt.Sprintf("%s\n\n%s", title, m.progress.Message)
}

func (m *Model) renderDone() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Failed: %v", m.err)), helpView)
	}

	if m.playlist == nil {
		return fmt.Sprintf("%s\n\n%s", styles.warn.Render("No playlist created"), helpView)
	}

	title := styles.ok.Render("✓ Playlist Created!")
	info := fmt.Sprintf("\nName: %s\nTracks: %d\nURL: %s", m.playlist.Name, m.playlist.TrackCount, m.playlist.URL)
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
