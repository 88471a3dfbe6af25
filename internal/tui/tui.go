package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/webrev/cli"
	"github.com/sokinpui/webrev/internal/render"
	"github.com/sokinpui/webrev/model"
	"github.com/sokinpui/webrev/webrev"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))            // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))           // Red
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// hunkMargin is the number of rows kept above a hunk jumped to.
const hunkMargin = 3

// --- Messages ---
type loadedMsg struct{}

type renderedMsg struct {
	view    render.View
	index   int
	content string
}

type framesMsg struct {
	index  int
	frames *render.Frames
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

type editorMsg struct{ err error }

// --- Model ---
type Model struct {
	app     *webrev.App
	cfg     *cli.Config
	ctx     context.Context
	spinner spinner.Model
	state   state
	loaded  bool
	width   int
	height  int

	// index
	cursor int
	offset int

	// file views
	file     int
	view     render.View
	viewport viewport.Model
	left     viewport.Model
	right    viewport.Model
	frames   *render.Frames
	hunk     int

	status string
	err    error
}

type state int

const (
	stateLoading state = iota
	stateIndex
	stateView
	stateFrames
	stateError
)

func New(ctx context.Context, app *webrev.App, cfg *cli.Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		app:      app,
		cfg:      cfg,
		ctx:      ctx,
		spinner:  s,
		state:    stateLoading,
		width:    80,
		height:   24,
		viewport: viewport.New(80, 22),
		left:     viewport.New(39, 22),
		right:    viewport.New(39, 22),
		hunk:     -1,
	}
}

// Err is the error that stopped loading, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load)
}

func (m Model) load() tea.Msg {
	if err := m.app.Load(m.ctx); err != nil {
		return errorMsg{err}
	}
	return loadedMsg{}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		switch m.state {
		case stateIndex:
			return m.updateIndex(msg)
		case stateView, stateFrames:
			return m.updateFile(msg)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.scroll()
		if m.frames != nil {
			m.setFrames()
		}
		return m, nil

	case loadedMsg:
		m.loaded = true
		m.state = stateIndex
		view, err := render.ParseView(m.cfg.View)
		if err != nil || view == render.ViewIndex || m.cfg.File < 0 {
			return m, nil
		}
		if n := len(m.app.Comparison().Files); m.cfg.File >= n {
			m.status = errorStyle.Render(fmt.Sprintf("file %d out of range (%d files)", m.cfg.File, n))
			return m, nil
		}
		cmd := m.open(m.cfg.File, view)
		return m, cmd

	case renderedMsg:
		if msg.view != m.view || msg.index != m.file {
			return m, nil
		}
		m.frames = nil
		m.viewport.SetContent(msg.content)
		m.viewport.GotoTop()
		m.state = stateView
		return m, nil

	case framesMsg:
		if m.view != render.ViewFrames || msg.index != m.file {
			return m, nil
		}
		m.frames = msg.frames
		m.setFrames()
		m.state = stateFrames
		m.hunk = -1
		m.setOffset(0)
		m.jumpHunk(0)
		return m, nil

	case errorMsg:
		if !m.loaded {
			m.state = stateError
			m.err = msg.err
			return m, nil
		}
		m.state = stateIndex
		m.status = errorStyle.Render(msg.Error())
		return m, nil

	case editorMsg:
		m.status = ""
		if msg.err != nil {
			m.status = errorStyle.Render("nvim: " + msg.err.Error())
		}
		return m, nil

	case spinner.TickMsg:
		if m.state == stateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updateIndex(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	files := m.app.Comparison().Files
	switch {
	case key.Matches(msg, keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, keys.Down):
		m.cursor = min(m.cursor+1, max(len(files)-1, 0))
	case key.Matches(msg, keys.Top):
		m.cursor = 0
	case key.Matches(msg, keys.Bottom):
		m.cursor = max(len(files)-1, 0)
	case key.Matches(msg, keys.Open):
		if len(files) == 0 {
			return m, nil
		}
		cmd := m.open(m.cursor, m.initialView(m.cursor))
		return m, cmd
	}
	m.scroll()
	return m, nil
}

// visible is the number of index rows that fit on screen.
func (m Model) visible() int {
	return max(m.height-5, 1)
}

// scroll keeps the index cursor on screen.
func (m *Model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.visible() {
		m.offset = m.cursor - m.visible() + 1
	}
}

// updateFile handles keys shared by the single-pane views and the frames
// view, and hands the rest to the active viewports.
func (m Model) updateFile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	files := m.app.Comparison().Files
	views := m.app.Renderer().Views(m.file)
	switch {
	case key.Matches(msg, keys.Back):
		m.state = stateIndex
		m.status = ""
		m.scroll()
		return m, nil
	case key.Matches(msg, keys.NextView):
		cmd := m.open(m.file, cycle(views, m.view, 1))
		return m, cmd
	case key.Matches(msg, keys.PrevView):
		cmd := m.open(m.file, cycle(views, m.view, -1))
		return m, cmd
	case key.Matches(msg, keys.NextFile):
		if m.file+1 < len(files) {
			cmd := m.open(m.file+1, m.nextView(m.file+1))
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, keys.PrevFile):
		if m.file > 0 {
			cmd := m.open(m.file-1, m.nextView(m.file-1))
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, keys.Edit):
		return m.edit()
	}

	if m.state == stateFrames {
		return m.updateFrames(msg)
	}

	switch {
	case key.Matches(msg, keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateFrames moves both panes together. j and k step through hunks.
func (m Model) updateFrames(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.NextHunk):
		m.jumpHunk(m.hunk + 1)
	case key.Matches(msg, keys.PrevHunk):
		m.jumpHunk(m.hunk - 1)
	case key.Matches(msg, keys.Top):
		m.setOffset(0)
		m.hunk = -1
	case key.Matches(msg, keys.Bottom):
		m.setOffset(len(m.frames.Rows))
		m.hunk = len(m.frames.Hunks) - 1
	case key.Matches(msg, keys.PageDown):
		m.setOffset(m.left.YOffset + m.left.Height/2)
		m.hunk = m.frames.HunkAt(m.left.YOffset + hunkMargin)
	case key.Matches(msg, keys.PageUp):
		m.setOffset(m.left.YOffset - m.left.Height/2)
		m.hunk = m.frames.HunkAt(m.left.YOffset + hunkMargin)
	}
	return m, nil
}

// open starts rendering view for the file at index.
func (m *Model) open(index int, view render.View) tea.Cmd {
	m.file, m.view, m.cursor = index, view, index
	m.status = ""
	m.state = stateLoading

	app, ctx, width := m.app, m.ctx, m.width
	if view == render.ViewFrames {
		return tea.Batch(m.spinner.Tick, func() tea.Msg {
			f, err := app.Renderer().Frames(ctx, index)
			if err != nil {
				return errorMsg{err}
			}
			return framesMsg{index: index, frames: f}
		})
	}
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		content, err := app.Renderer().WithWidth(width).Render(ctx, view, index)
		if err != nil {
			return errorMsg{err}
		}
		return renderedMsg{view: view, index: index, content: content}
	})
}

// initialView is the view a file opens in from the index: the configured one
// when the file offers it, else its first view.
func (m Model) initialView(index int) render.View {
	views := m.app.Renderer().Views(index)
	if view, err := render.ParseView(m.cfg.View); err == nil && slices.Contains(views, view) {
		return view
	}
	if len(views) == 0 {
		return render.ViewPatch
	}
	return views[0]
}

// nextView keeps the current view when the file at index offers it.
func (m Model) nextView(index int) render.View {
	if slices.Contains(m.app.Renderer().Views(index), m.view) {
		return m.view
	}
	return m.initialView(index)
}

func (m Model) edit() (tea.Model, tea.Cmd) {
	line := 1
	if m.state == stateFrames && len(m.frames.HeadLines) > 0 {
		line = m.frames.HeadLines[max(m.hunk, 0)]
	} else if hunks, err := m.app.Renderer().Hunks(m.file); err == nil && len(hunks) > 0 {
		line = hunks[0].DestStart
	}

	cmd, err := m.app.Edit(m.ctx, m.file, max(line, 1))
	if err != nil {
		m.status = errorStyle.Render(err.Error())
		return m, nil
	}
	if cmd == nil {
		m.status = successStyle.Render("Opened in nvim")
		return m, nil
	}
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg { return editorMsg{err} })
}

func (m *Model) resize() {
	body := max(m.height-2, 1)
	m.viewport.Width, m.viewport.Height = m.width, body
	pane := max((m.width-1)/2, 1)
	m.left.Width, m.left.Height = pane, body
	m.right.Width, m.right.Height = pane, body
}

func (m *Model) setFrames() {
	offset := m.left.YOffset
	m.left.SetContent(strings.Join(m.frames.Pane(model.Base, m.left.Width), "\n"))
	m.right.SetContent(strings.Join(m.frames.Pane(model.Head, m.right.Width), "\n"))
	m.setOffset(offset)
}

// setOffset scrolls both panes to the same row.
func (m *Model) setOffset(n int) {
	m.left.SetYOffset(max(n, 0))
	m.right.SetYOffset(max(n, 0))
}

func (m *Model) jumpHunk(i int) {
	if m.frames == nil || i < 0 || i >= len(m.frames.Hunks) {
		return
	}
	m.hunk = i
	m.setOffset(m.frames.Hunks[i] - hunkMargin)
}

func (m Model) View() string {
	switch m.state {
	case stateLoading:
		return fmt.Sprintf("%s Loading...", m.spinner.View())
	case stateError:
		return errorStyle.Render("Error: ", m.err.Error()) + "\n\n" + faintStyle.Render(helpLine(keys.Quit))
	case stateIndex:
		return m.renderIndex()
	case stateFrames:
		divider := faintStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", m.left.Height), "\n"))
		panes := lipgloss.JoinHorizontal(lipgloss.Top, m.left.View(), divider, m.right.View())
		return m.header() + "\n" + panes + "\n" + m.footer(keys.NextHunk, keys.PrevHunk, keys.Top, keys.Bottom, keys.NextView, keys.NextFile, keys.Edit, keys.Back, keys.Quit)
	default:
		return m.header() + "\n" + m.viewport.View() + "\n" + m.footer(keys.NextView, keys.NextFile, keys.PrevFile, keys.Edit, keys.Back, keys.Quit)
	}
}

func (m Model) header() string {
	file := m.app.Comparison().Files[m.file]
	var views []string
	for _, v := range m.app.Renderer().Views(m.file) {
		if v == m.view {
			views = append(views, cursorStyle.Render(string(v)))
		} else {
			views = append(views, faintStyle.Render(string(v)))
		}
	}
	title := fmt.Sprintf("%s %s", statusStyle.Render(render.StatusLetter(file.Status)), headerStyle.Render(file.Filename))
	return title + "  " + strings.Join(views, " ")
}

func (m Model) footer(bindings ...key.Binding) string {
	if m.status != "" {
		return m.status
	}
	return faintStyle.Render(helpLine(bindings...))
}

func (m Model) renderIndex() string {
	c := m.app.Comparison()
	sum := model.Summarize(c.Files)

	var b strings.Builder
	b.WriteString(headerStyle.Render(c.Title))
	if c.Base != "" || c.Head != "" {
		b.WriteString(faintStyle.Render(fmt.Sprintf("  %s...%s", c.Base, c.Head)))
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("%d file(s) changed, %s", sum.Files, render.ChangeSummary(sum.Changes(), sum.Additions, sum.Deletions))))
	b.WriteString("\n\n")

	if len(c.Files) == 0 {
		b.WriteString(faintStyle.Render("No changes."))
		b.WriteString("\n")
	}

	for i := m.offset; i < len(c.Files) && i < m.offset+m.visible(); i++ {
		f := c.Files[i]
		marker := "  "
		name := f.Filename
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
			name = cursorStyle.Render(name)
		}
		views := make([]string, 0, len(render.AllViews))
		for _, v := range m.app.Renderer().Views(i) {
			views = append(views, string(v))
		}
		fmt.Fprintf(&b, "%s%s %s  %s  %s\n", marker, statusStyle.Render(render.StatusLetter(f.Status)), name,
			faintStyle.Render(render.ChangeSummary(f.Changes(), f.Additions, f.Deletions)),
			faintStyle.Render(strings.Join(views, " ")))
	}

	b.WriteString("\n")
	b.WriteString(m.footer(keys.Down, keys.Up, keys.Open, keys.Quit))
	return b.String()
}

// cycle returns the view step positions away from current in views.
func cycle(views []render.View, current render.View, step int) render.View {
	if len(views) == 0 {
		return current
	}
	i := 0
	for k, v := range views {
		if v == current {
			i = k
			break
		}
	}
	return views[((i+step)%len(views)+len(views))%len(views)]
}
