package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/tasks"
	tu "github.com/desertthunder/pldiff/internal/testing"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func newTestModel(t *testing.T, lib *tu.MockLibrary) *Model {
	t.Helper()

	engine := tasks.NewCompareEngine(lib, nil)
	m := NewModel(context.Background(), engine, models.AccessToken{Value: "tok"})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	msg := m.Init()()
	m.Update(msg)
	return m
}

// drive runs cmd and feeds every resulting message back into the model until no command remains.
func drive(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 50 {
			t.Fatal("command chain did not settle")
		}
		_, cmd = m.Update(cmd())
	}
}

func library() *tu.MockLibrary {
	return &tu.MockLibrary{
		Playlists: []models.PlaylistSummary{
			{ID: "p1", Name: "Road Trip"},
			{ID: "p2", Name: "Focus"},
		},
		TrackLists: map[string][]models.Track{
			"p1": {{ID: "a", Name: "Song A", Artist: "X"}, {ID: "b", Name: "Song B", Artist: "Y"}},
			"p2": {{ID: "a", Name: "Song A", Artist: "X"}, {ID: "c", Name: "Song C"}},
		},
	}
}

func TestModel_Init(t *testing.T) {
	t.Run("loads playlists", func(t *testing.T) {
		m := newTestModel(t, library())

		if len(m.playlists) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(m.playlists))
		}
		if m.view != PickFirstView {
			t.Errorf("expected PickFirstView, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Road Trip") {
			t.Errorf("picker should list playlists, got:\n%s", m.View())
		}
	})

	t.Run("empty library warns", func(t *testing.T) {
		m := newTestModel(t, &tu.MockLibrary{PlaylistsErr: errors.New("boom")})

		if len(m.playlists) != 0 {
			t.Fatalf("expected no playlists, got %d", len(m.playlists))
		}
		if !strings.Contains(m.View(), "No playlists found") {
			t.Errorf("expected empty library warning, got:\n%s", m.View())
		}

		m.Update(keyPress("enter"))
		if m.view != PickFirstView {
			t.Error("enter with no playlists should not advance")
		}
	})
}

func TestModel_CompareFlow(t *testing.T) {
	lib := library()
	m := newTestModel(t, lib)

	m.Update(keyPress("enter"))
	if m.view != PickSecondView || m.first == nil || m.first.ID != "p1" {
		t.Fatalf("expected p1 selected as first, view=%v first=%+v", m.view, m.first)
	}

	m.Update(keyPress("down"))
	m.Update(keyPress("enter"))
	if m.view != ConfirmView || m.second == nil || m.second.ID != "p2" {
		t.Fatalf("expected p2 selected as second, view=%v second=%+v", m.view, m.second)
	}
	if !strings.Contains(m.View(), "Second: Focus (p2)") {
		t.Errorf("confirm view should name both playlists, got:\n%s", m.View())
	}

	_, cmd := m.Update(keyPress("y"))
	if m.view != CompareView {
		t.Fatalf("expected CompareView, got %v", m.view)
	}
	drive(t, m, cmd)

	if m.view != ResultView {
		t.Fatalf("expected ResultView, got %v", m.view)
	}
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if m.report == nil {
		t.Fatal("expected a report")
	}
	if got := len(m.report.Result.Common); got != 1 {
		t.Errorf("expected 1 common track, got %d", got)
	}
	if len(lib.Calls) != 2 {
		t.Errorf("expected 2 track fetches, got %v", lib.Calls)
	}

	t.Run("tab cycles sets", func(t *testing.T) {
		if !strings.Contains(m.resultList.Title, "In Common (1)") {
			t.Errorf("expected common set first, got %q", m.resultList.Title)
		}

		m.Update(keyPress("tab"))
		if m.setIndex != 1 || !strings.Contains(m.resultList.Title, "Only in First (1)") {
			t.Errorf("expected only1 after tab, got index=%d title=%q", m.setIndex, m.resultList.Title)
		}

		m.Update(keyPress("tab"))
		m.Update(keyPress("tab"))
		if m.setIndex != 0 {
			t.Errorf("expected wrap to common, got %d", m.setIndex)
		}

		m.Update(keyPress("shift+tab"))
		if m.setIndex != 2 {
			t.Errorf("expected shift+tab to wrap to only2, got %d", m.setIndex)
		}
		if !strings.Contains(m.View(), "Road Trip vs Focus") {
			t.Errorf("result view should title the comparison, got:\n%s", m.View())
		}
	})

	t.Run("restart", func(t *testing.T) {
		m.Update(keyPress("r"))
		if m.view != PickFirstView {
			t.Errorf("expected PickFirstView after restart, got %v", m.view)
		}
		if m.first != nil || m.second != nil || m.report != nil {
			t.Error("restart should clear the selection and report")
		}
	})
}

func TestModel_Navigation(t *testing.T) {
	t.Run("esc returns to first picker", func(t *testing.T) {
		m := newTestModel(t, library())
		m.Update(keyPress("enter"))
		m.Update(keyPress("esc"))

		if m.view != PickFirstView || m.first != nil {
			t.Errorf("expected PickFirstView with no selection, view=%v", m.view)
		}
	})

	t.Run("n declines comparison", func(t *testing.T) {
		m := newTestModel(t, library())
		m.Update(keyPress("enter"))
		m.Update(keyPress("enter"))
		m.Update(keyPress("n"))

		if m.view != PickSecondView || m.second != nil {
			t.Errorf("expected PickSecondView with no second selection, view=%v", m.view)
		}
	})

	t.Run("quit", func(t *testing.T) {
		m := newTestModel(t, library())
		_, cmd := m.Update(keyPress("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestModel_CompareFailure(t *testing.T) {
	lib := library()
	lib.TrackErrs = map[string]error{"p2": errors.New("upstream down")}
	m := newTestModel(t, lib)

	m.Update(keyPress("enter"))
	m.Update(keyPress("down"))
	m.Update(keyPress("enter"))
	_, cmd := m.Update(keyPress("y"))
	drive(t, m, cmd)

	if m.view != ResultView {
		t.Fatalf("expected ResultView, got %v", m.view)
	}
	if m.err == nil || m.report != nil {
		t.Fatalf("expected error without report, err=%v report=%v", m.err, m.report)
	}
	if !strings.Contains(m.View(), "Comparison failed") {
		t.Errorf("expected failure message, got:\n%s", m.View())
	}
}

func TestRenderCompare(t *testing.T) {
	m := newTestModel(t, library())
	m.view = CompareView

	m.progress = tasks.ProgressUpdate{Phase: tasks.FetchFirst, Step: 1, Total: 2}
	if !strings.Contains(m.View(), "Fetching tracks (1/2)") {
		t.Errorf("unexpected compare view:\n%s", m.View())
	}

	m.progress = tasks.ProgressUpdate{Phase: tasks.Reconciling}
	if !strings.Contains(m.View(), "Reconciling") {
		t.Errorf("unexpected compare view:\n%s", m.View())
	}
}
