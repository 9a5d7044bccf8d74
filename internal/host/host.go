// Package host owns the authoritative diagram text. It dispatches renders
// asynchronously, keeps only the newest result, and manages the preview
// controller attached to that result.
package host

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/mermedit/internal/delta"
	"github.com/xonecas/mermedit/internal/preview"
	"github.com/xonecas/mermedit/internal/render"
)

// DefaultSaveName is the file name used by Save and Artifact.
const DefaultSaveName = "mermaid-code.mmd"

// ArtifactMediaType is the media type of the downloadable source.
const ArtifactMediaType = "text/plain; charset=utf-8"

// Status is the state of the rendered preview.
type Status int

const (
	Idle Status = iota
	Pending
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Preview is derived from the text at Revision. A preview never carries
// both SVG and Err.
type Preview struct {
	Status   Status
	SVG      string
	ViewBox  string
	Err      string
	Revision uint64
}

// RenderedMsg carries one finished render back to the UI loop.
type RenderedMsg struct {
	Revision uint64
	Text     string
	Preview  Preview
}

// Viewport hosts rendered diagrams. *preview.Server implements it.
type Viewport interface {
	Attach(revision uint64, svg string) (preview.Controller, error)
	Fail(revision uint64, msg string)
	// Clear empties the viewport. Nothing from earlier revisions may remain.
	Clear(revision uint64)
}

// Options configures a Shell.
type Options struct {
	Engine           render.Engine
	Viewport         Viewport // optional
	TitleFrontMatter bool
	SaveName         string
}

// Shell is the integration point between the editor and the renderer.
type Shell struct {
	engine   render.Engine
	viewport Viewport
	opts     Options

	mu       sync.Mutex
	text     string
	revision uint64
	baseline string
	name     string
	preview  Preview
	// stat caches Changes for statRev; statRev 0 means stale.
	stat     delta.Stat
	statRev  uint64
	cancel   context.CancelFunc
	closed   bool

	// ctrlMu serialises controller hand-over; viewport calls may block on
	// the network so they stay out from under mu.
	ctrlMu sync.Mutex
	ctrl   preview.Controller

	results chan RenderedMsg
	wg      sync.WaitGroup
}

// New creates a Shell.
func New(opts Options) *Shell {
	if opts.SaveName == "" {
		opts.SaveName = DefaultSaveName
	}
	return &Shell{
		engine:   opts.Engine,
		viewport: opts.Viewport,
		opts:     opts,
		results:  make(chan RenderedMsg),
	}
}

// Results delivers finished renders. Feed each to Apply.
func (s *Shell) Results() <-chan RenderedMsg { return s.results }

// Text returns the authoritative text.
func (s *Shell) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Revision returns the number of text changes so far.
func (s *Shell) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Preview returns the current preview state.
func (s *Shell) Preview() Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// Name returns the path of the last loaded or saved file.
func (s *Shell) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Changes summarises edits since the last load or save.
func (s *Shell) Changes() delta.Stat {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statRev == 0 || s.statRev != s.revision {
		s.stat = delta.Summary(s.baseline, s.text)
		s.statRev = s.revision
	}
	return s.stat
}

// setBaseline marks text as the unchanged state. Callers hold mu.
func (s *Shell) setBaseline(text string) {
	s.baseline = text
	s.statRev = 0
}

// SetText records text as the new authoritative value and supersedes any
// render in flight. Non-empty text starts a new render.
func (s *Shell) SetText(ctx context.Context, text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.text = text
	s.revision++
	rev := s.revision
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if text == "" {
		s.preview = Preview{Status: Idle, Revision: rev}
		s.mu.Unlock()
		s.clearViewport(rev)
		return
	}

	rctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	// The previous diagram stays attached until its successor is ready.
	s.preview = Preview{Status: Pending, SVG: s.preview.SVG, ViewBox: s.preview.ViewBox, Revision: rev}
	s.wg.Add(1)
	s.mu.Unlock()

	go s.render(rctx, rev, text)
}

// Rerender renders the current text again under a new revision.
func (s *Shell) Rerender(ctx context.Context) {
	s.SetText(ctx, s.Text())
}

func (s *Shell) render(ctx context.Context, rev uint64, text string) {
	defer s.wg.Done()

	svg, err := s.engine.Render(ctx, render.TargetID, text)
	if ctx.Err() != nil {
		log.Debug().Uint64("revision", rev).Msg("render superseded")
		return
	}

	msg := RenderedMsg{Revision: rev, Text: text}
	if err == nil {
		var box string
		svg, box, err = render.FitBox(svg)
		if err == nil {
			msg.Preview = Preview{Status: Ready, SVG: svg, ViewBox: box, Revision: rev}
		}
	}
	if err != nil {
		msg.Preview = Preview{Status: Failed, Err: err.Error(), Revision: rev}
	}

	select {
	case s.results <- msg:
	case <-ctx.Done():
	}
}

// Apply adopts a finished render unless newer text has superseded it.
// It reports whether the result was kept.
func (s *Shell) Apply(msg RenderedMsg) bool {
	s.mu.Lock()
	if s.closed || msg.Revision != s.revision || msg.Text != s.text {
		s.mu.Unlock()
		log.Debug().Uint64("revision", msg.Revision).Msg("discarding stale render")
		return false
	}
	s.preview = msg.Preview
	s.mu.Unlock()

	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()
	if s.ctrl != nil {
		s.ctrl.Release()
		s.ctrl = nil
	}
	if s.viewport == nil {
		return true
	}

	switch msg.Preview.Status {
	case Ready:
		ctrl, err := s.viewport.Attach(msg.Revision, msg.Preview.SVG)
		if err != nil {
			log.Warn().Err(err).Uint64("revision", msg.Revision).Msg("attach preview failed")
			return true
		}
		s.ctrl = ctrl
	case Failed:
		s.viewport.Fail(msg.Revision, msg.Preview.Err)
	}
	return true
}

// clearViewport drops the controller and any error the viewport still shows.
func (s *Shell) clearViewport(rev uint64) {
	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()
	if s.ctrl != nil {
		s.ctrl.Release()
		s.ctrl = nil
	}
	if s.viewport != nil {
		s.viewport.Clear(rev)
	}
}

func (s *Shell) releaseController() {
	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()
	if s.ctrl != nil {
		s.ctrl.Release()
		s.ctrl = nil
	}
}

// Close cancels pending renders and releases the controller. It is safe to
// call more than once.
func (s *Shell) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.releaseController()
}

// Artifact returns the current text as a downloadable file, or false when
// there is nothing to download.
func (s *Shell) Artifact() (preview.Artifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.text == "" {
		return preview.Artifact{}, false
	}
	return preview.Artifact{
		Name:      s.opts.SaveName,
		MediaType: ArtifactMediaType,
		Body:      []byte(s.text),
	}, true
}

// IsIgnorable reports whether err from Load or LoadFile should be dropped
// silently.
func IsIgnorable(err error) bool {
	return errors.Is(err, ErrNoFile)
}
