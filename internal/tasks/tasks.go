package tasks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/services"
	"github.com/desertthunder/pldiff/internal/shared"
	"golang.org/x/sync/errgroup"
)

// State is the lifecycle position of a [Comparison].
type State int

const (
	Idle State = iota
	Fetching
	Reconciled
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Reconciled:
		return "reconciled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Comparison is a single, one-shot comparison of two playlist references.
//
// Reconciled and Failed are terminal; a new comparison is needed to try again.
type Comparison struct {
	library services.Library
	logger  *log.Logger
	token   models.AccessToken
	first   models.PlaylistRef
	second  models.PlaylistRef

	mu     sync.Mutex
	state  State
	result *models.ComparisonReport
	err    error
}

// State returns the current lifecycle state.
func (c *Comparison) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the failure that moved the comparison to Failed, if any.
func (c *Comparison) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Result returns the report once the comparison is Reconciled, nil otherwise.
func (c *Comparison) Result() *models.ComparisonReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *Comparison) transition(from, to State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != from {
		return false
	}
	c.state = to
	return true
}

func (c *Comparison) fail(err error) error {
	c.mu.Lock()
	c.state = Failed
	c.err = err
	c.mu.Unlock()
	return err
}

// Run resolves both references, fetches both track listings concurrently and reconciles them.
//
// Reconciliation starts only after both fetches have settled. If either fetch fails the comparison
// fails with that error and no partial result is produced. Run may be called once.
func (c *Comparison) Run(ctx context.Context, progress chan<- ProgressUpdate) (*models.ComparisonReport, error) {
	c.mu.Lock()
	if c.state != Idle {
		state := c.state
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: comparison is %s", shared.ErrComparisonUsed, state)
	}
	c.mu.Unlock()

	first, second := c.first, c.second
	for i, ref := range []*models.PlaylistRef{&first, &second} {
		id, err := services.Resolve(*ref)
		if err != nil {
			return nil, c.fail(err)
		}
		ref.ResolvedID = id
		sendProgress(progress, resolveUpdate(i+1, *ref))
	}

	if !c.transition(Idle, Fetching) {
		return nil, fmt.Errorf("%w: comparison started concurrently", shared.ErrComparisonUsed)
	}

	var (
		g       errgroup.Group
		tracks1 []models.Track
		tracks2 []models.Track
	)

	g.Go(func() error {
		tracks, err := c.library.Tracks(ctx, first.ResolvedID, c.token)
		if err != nil {
			return fmt.Errorf("first playlist %s: %w", first.ResolvedID, err)
		}
		tracks1 = tracks
		sendProgress(progress, fetchUpdate(FetchFirst, first.ResolvedID, len(tracks)))
		return nil
	})

	g.Go(func() error {
		tracks, err := c.library.Tracks(ctx, second.ResolvedID, c.token)
		if err != nil {
			return fmt.Errorf("second playlist %s: %w", second.ResolvedID, err)
		}
		tracks2 = tracks
		sendProgress(progress, fetchUpdate(FetchSecond, second.ResolvedID, len(tracks)))
		return nil
	})

	if err := g.Wait(); err != nil {
		c.logger.Warn("comparison failed", "first", first.ResolvedID, "second", second.ResolvedID, "error", err)
		return nil, c.fail(err)
	}

	sendProgress(progress, reconcileUpdate(len(tracks1), len(tracks2)))
	result := &models.ComparisonReport{
		First:  first,
		Second: second,
		Result: Reconcile(tracks1, tracks2),
	}

	c.mu.Lock()
	c.state = Reconciled
	c.result = result
	c.mu.Unlock()

	sendProgress(progress, doneUpdate(result.Result))
	return result, nil
}

// CompareEngine creates and runs comparisons against a [services.Library].
type CompareEngine struct {
	library services.Library
	logger  *log.Logger
}

// NewCompareEngine creates a new CompareEngine; a nil logger discards output.
func NewCompareEngine(library services.Library, logger *log.Logger) *CompareEngine {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &CompareEngine{library: library, logger: logger}
}

// NewComparison prepares an Idle comparison between first and second for the holder of token.
func (e *CompareEngine) NewComparison(token models.AccessToken, first, second models.PlaylistRef) *Comparison {
	return &Comparison{
		library: e.library,
		logger:  shared.WithLogger(e.logger, "comparison", shared.GenerateID()),
		token:   token,
		first:   first,
		second:  second,
		state:   Idle,
	}
}

// Compare runs a fresh comparison to completion.
func (e *CompareEngine) Compare(ctx context.Context, token models.AccessToken, first, second models.PlaylistRef, progress chan<- ProgressUpdate) (*models.ComparisonReport, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library not initialized", shared.ErrServiceUnavailable)
	}
	return e.NewComparison(token, first, second).Run(ctx, progress)
}

// Playlists lists the user's library for private-mode selection.
//
// Failures are logged and degrade to an empty list so the session can continue with public links.
func (e *CompareEngine) Playlists(ctx context.Context, token models.AccessToken) []models.PlaylistSummary {
	if e.library == nil {
		return []models.PlaylistSummary{}
	}

	playlists, err := e.library.UserPlaylists(ctx, token)
	if err != nil {
		e.logger.Warn("failed to list library playlists", "error", err)
		return []models.PlaylistSummary{}
	}
	if playlists == nil {
		return []models.PlaylistSummary{}
	}
	return playlists
}

// Cover looks up the cover image for a reference without affecting any comparison.
//
// Unresolvable references and lookup failures both report ok=false.
func (e *CompareEngine) Cover(ctx context.Context, token models.AccessToken, ref models.PlaylistRef) (string, bool) {
	if e.library == nil {
		return "", false
	}

	id, err := services.Resolve(ref)
	if err != nil {
		e.logger.Debug("cover skipped for unresolved reference", "input", ref.RawInput)
		return "", false
	}
	return e.library.CoverImage(ctx, id, token)
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
