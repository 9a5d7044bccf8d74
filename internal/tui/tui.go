// Package tui is the mermedit terminal application: a Mermaid editor on the
// left, the state of the live preview on the right, and a status bar.
package tui

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/xonecas/mermedit/internal/filesearch"
	"github.com/xonecas/mermedit/internal/highlight"
	"github.com/xonecas/mermedit/internal/host"
	"github.com/xonecas/mermedit/internal/tui/editor"
	"github.com/xonecas/mermedit/internal/tui/modal"
)

// Options configures the application model.
type Options struct {
	Shell           *host.Shell
	Searcher        *filesearch.Searcher // nil disables the open-file picker
	Palette         highlight.Palette
	Keywords        []string // nil means highlight.Keywords
	ShowLineNumbers bool
	PreviewURL      string // empty when the preview server is disabled
	SaveDir         string
}

// Model is the application model.
type Model struct {
	width  int
	height int
	divX   int
	layout layout

	resizingPane bool

	palette highlight.Palette
	styles  styles
	spinner spinner.Model
	editor  editor.Model

	shell      *host.Shell
	searcher   *filesearch.Searcher
	previewURL string
	saveDir    string

	ctx    context.Context
	cancel context.CancelFunc

	// Modals, at most one open.
	picker  *modal.Picker
	errView *modal.TextView

	// Transient status message.
	status    string
	statusErr bool
	statusSeq int
}

// New creates the application model. The editor starts with the shell's
// current text.
func New(opts Options) Model {
	sty := newStyles(opts.Palette)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Background(lipgloss.Color(opts.Palette.Bg)).Foreground(lipgloss.Color(opts.Palette.Keyword))

	ed := editor.New()
	ed.ShowLineNumbers = opts.ShowLineNumbers
	ed.Styles = editor.NewStyles(opts.Palette)
	ed.Placeholder = "Type a Mermaid diagram…"
	if opts.Keywords != nil {
		ed.Keywords = opts.Keywords
	}
	ed.SetValue(opts.Shell.Text())
	ed.Focus()

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		palette:    opts.Palette,
		styles:     sty,
		spinner:    s,
		editor:     ed,
		shell:      opts.Shell,
		searcher:   opts.Searcher,
		previewURL: opts.PreviewURL,
		saveDir:    opts.SaveDir,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Init starts the caret blink, the spinner and the render pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.editor.BlinkCmd(), m.spinner.Tick, m.waitForRender())
}

// waitForRender blocks until the shell finishes a render.
func (m Model) waitForRender() tea.Cmd {
	results := m.shell.Results()
	return func() tea.Msg {
		msg, ok := <-results
		if !ok {
			return nil
		}
		return msg
	}
}
