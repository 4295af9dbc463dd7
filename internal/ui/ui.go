package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/pldiff/internal/formatter"
	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PickFirstView ViewState = iota
	PickSecondView
	ConfirmView
	CompareView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.CompareEngine
	token        models.AccessToken
	width        int
	height       int
	playlistList list.Model
	playlists    []models.PlaylistSummary
	first        *models.PlaylistSummary
	second       *models.PlaylistSummary
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	report       *models.ComparisonReport
	setIndex     int
	resultList   list.Model
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.CompareEngine, token models.AccessToken) *Model {
	return &Model{
		ctx:          ctx,
		view:         PickFirstView,
		engine:       engine,
		token:        token,
		playlistList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		resultList:   list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init initializes the TUI by fetching the user's library.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.resultList.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PickFirstView, PickSecondView:
			return m.handlePickKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case CompareView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistsFetched:
		playlists, _ := msg.data.([]models.PlaylistSummary)
		m.playlists = playlists
		items := make([]list.Item, len(playlists))
		for i, pl := range playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList.SetItems(items)
		m.playlistList.Title = "Choose the first playlist"
		return m, nil

	case MsgProgressUpdate:
		if update, ok := msg.data.(tasks.ProgressUpdate); ok {
			m.progress = update
		}
		return m, waitForProgress(m.progressChan, m.doneChan)

	case MsgCompareComplete:
		outcome, _ := msg.data.(compareOutcome)
		m.report = outcome.report
		m.err = outcome.err
		m.progressChan = nil
		m.doneChan = nil
		m.view = ResultView
		m.setIndex = 0
		m.showSet()
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case PickFirstView, PickSecondView:
		return m.renderPicker()
	case ConfirmView:
		return m.renderConfirm()
	case CompareView:
		return m.renderCompare()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePickKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.playlistList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.playlistList, cmd = m.playlistList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		if m.view == PickSecondView {
			m.view = PickFirstView
			m.first = nil
			m.playlistList.Title = "Choose the first playlist"
		}
		return m, nil
	case key.Matches(msg, m.keys.pick):
		selected, ok := m.playlistList.SelectedItem().(playlistItem)
		if !ok {
			return m, nil
		}
		pl := selected.playlist
		if m.view == PickFirstView {
			m.first = &pl
			m.view = PickSecondView
			m.playlistList.Title = fmt.Sprintf("Compare '%s' with...", pl.Name)
			return m, nil
		}
		m.second = &pl
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.confirm):
		m.view = CompareView
		return m, m.startCompare()
	case key.Matches(msg, m.keys.cancel), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = PickSecondView
		m.second = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = PickFirstView
		m.first, m.second = nil, nil
		m.report, m.err = nil, nil
		m.progress = tasks.ProgressUpdate{}
		m.playlistList.Title = "Choose the first playlist"
		return m, nil
	case key.Matches(msg, m.keys.nextSet):
		m.setIndex = (m.setIndex + 1) % 3
		m.showSet()
		return m, nil
	case key.Matches(msg, m.keys.prevSet):
		m.setIndex = (m.setIndex + 2) % 3
		m.showSet()
		return m, nil
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PickFirstView, PickSecondView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case ResultView:
		m.resultList, cmd = m.resultList.Update(msg)
	}
	return m, cmd
}

// showSet loads the currently selected result set into the result list.
func (m *Model) showSet() {
	if m.report == nil {
		m.resultList.SetItems(nil)
		return
	}

	set := m.report.Result.Sets()[m.setIndex]
	items := make([]list.Item, len(set.Tracks))
	for i, track := range set.Tracks {
		items[i] = trackItem{track: track}
	}
	m.resultList.SetItems(items)
	m.resultList.Title = fmt.Sprintf("%s (%d)", formatter.SetTitle(set.Name), len(set.Tracks))
	m.resultList.Select(0)
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		return playlistsFetchedMsg(m.engine.Playlists(m.ctx, m.token))
	}
}

func (m *Model) startCompare() tea.Cmd {
	first := models.PlaylistRef{Mode: models.Private, RawInput: m.first.ID}
	second := models.PlaylistRef{Mode: models.Private, RawInput: m.second.ID}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.doneChan = done

	go func() {
		report, err := m.engine.Compare(m.ctx, m.token, first, second, progress)
		close(progress)
		done <- compareCompleteMsg(report, err)
	}()

	return waitForProgress(progress, done)
}

func waitForProgress(progress <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		if update, ok := <-progress; ok {
			return progressUpdateMsg(update)
		}
		return <-done
	}
}

func (m *Model) renderPicker() string {
	helpKeys := m.keys.helpFor(m.view, len(m.playlists) == 0)
	if len(m.playlists) == 0 {
		return fmt.Sprintf("%s\n%s\n\n%s",
			Styles.Title("Playlist Compare"),
			Styles.Warn("No playlists found in your library. Use `pldiff compare` with share links instead."),
			m.help.ShortHelpView(helpKeys),
		)
	}
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConfirm() string {
	title := Styles.Title("Compare these playlists?")
	info := fmt.Sprintf("\nFirst:  %s (%s)\nSecond: %s (%s)\n", m.first.Name, m.first.ID, m.second.Name, m.second.ID)

	helpKeys := m.keys.helpFor(m.view, false)
	return fmt.Sprintf("%s\n%s\n%s", title, info, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderCompare() string {
	title := Styles.Title("Comparing Playlists")

	var phase string
	switch m.progress.Phase {
	case tasks.Resolve:
		phase = "Resolving playlists..."
	case tasks.FetchFirst, tasks.FetchSecond:
		phase = fmt.Sprintf("Fetching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Reconciling:
		phase = "Reconciling..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return Styles.Err(fmt.Sprintf("Comparison failed: %v\n\nPress r to start over, q to quit", m.err))
	}

	if m.report == nil {
		return Styles.Err("No result available\n\nPress r to start over, q to quit")
	}

	result := m.report.Result
	var tabs []string
	for i, set := range result.Sets() {
		label := fmt.Sprintf("%s %d", set.Name, len(set.Tracks))
		if i == m.setIndex {
			label = Styles.Set(set.Name) + fmt.Sprintf(" %d", len(set.Tracks))
			label = "[" + label + "]"
		}
		tabs = append(tabs, label)
	}

	title := Styles.OK(fmt.Sprintf("✓ %s vs %s", m.first.Name, m.second.Name))
	helpKeys := m.keys.helpFor(m.view, false)

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, strings.Join(tabs, "  "), m.resultList.View(), m.help.ShortHelpView(helpKeys))
}
