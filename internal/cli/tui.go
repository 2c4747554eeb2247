package cli

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pinmap/pkg/config"
	"github.com/matzehuels/pinmap/pkg/gallery"
)

// Terminal cells are mapped to pixels at this size so that swipe
// thresholds and icon sizes keep their pixel meaning.
const (
	cellWidth  = 8
	cellHeight = 16
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	viewerFrameStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(1, 2)
	hintStyle = lipgloss.NewStyle().Foreground(colorYellow).Italic(true)
)

// =============================================================================
// Key Bindings
// =============================================================================

type viewerKeyMap struct {
	Prev  key.Binding
	Next  key.Binding
	Jump  key.Binding
	Close key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func (k viewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Close, k.Help}
}

func (k viewerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next, k.Jump}, {k.Close, k.Help, k.Quit}}
}

var viewerKeys = viewerKeyMap{
	Prev:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
	Next:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
	Jump:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "jump")),
	Close: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// =============================================================================
// ViewerModel - Media viewer
// =============================================================================

// hintDismissedMsg is sent when the usage hint times out.
type hintDismissedMsg struct{}

// viewerClosedMsg tells an embedding model that the viewer was closed.
type viewerClosedMsg struct{ index int }

// ViewerModel is the bubbletea model for browsing a map's media. All input
// goes through a gallery.Dispatcher bound to the controller.
type ViewerModel struct {
	Title string

	ctrl    *gallery.Controller
	disp    *gallery.Dispatcher
	binding *gallery.Binding

	hintDone chan struct{}
	dismiss  func()

	help     help.Model
	embedded bool
	closed   bool
	width    int
}

// NewViewerModel opens a viewer over items at index.
func NewViewerModel(title string, items []gallery.MediaItem, index int, cfg config.ViewerConfig) *ViewerModel {
	m := &ViewerModel{
		Title:    title,
		disp:     gallery.NewDispatcher(),
		hintDone: make(chan struct{}),
		help:     help.New(),
	}
	var once sync.Once
	m.dismiss = func() { once.Do(func() { close(m.hintDone) }) }

	m.ctrl = gallery.New(items, index, gallery.Callbacks{
		OnIndexChange: func(int) {},
		OnClose:       func() { m.closed = true },
	}, gallery.WithSwipeThreshold(cfg.SwipeThreshold))

	delay := cfg.HintDelay
	if len(items) < 2 {
		delay = -1
	}
	m.binding = m.ctrl.Bind(m.disp, gallery.HintConfig{Delay: delay, OnDismiss: m.dismiss})
	return m
}

// Index returns the current media index.
func (m *ViewerModel) Index() int { return m.ctrl.Index() }

// Closed reports whether the viewer was closed.
func (m *ViewerModel) Closed() bool { return m.closed }

// Init waits for the usage hint to time out.
func (m *ViewerModel) Init() tea.Cmd {
	done := m.hintDone
	return func() tea.Msg {
		<-done
		return hintDismissedMsg{}
	}
}

func (m *ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case hintDismissedMsg:
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, viewerKeys.Quit):
			m.ctrl.Close()
		case key.Matches(msg, viewerKeys.Prev):
			m.disp.Dispatch(gallery.Event{Kind: gallery.EventKey, Key: gallery.KeyLeft})
		case key.Matches(msg, viewerKeys.Next):
			m.disp.Dispatch(gallery.Event{Kind: gallery.EventKey, Key: gallery.KeyRight})
		case key.Matches(msg, viewerKeys.Close):
			m.disp.Dispatch(gallery.Event{Kind: gallery.EventKey, Key: gallery.KeyEscape})
		case key.Matches(msg, viewerKeys.Jump):
			m.ctrl.JumpTo(int(msg.Runes[0] - '1'))
		case key.Matches(msg, viewerKeys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case tea.MouseMsg:
		m.mouse(msg)
	}
	if m.closed {
		return m, m.exit()
	}
	return m, nil
}

// mouse translates wheel and drag events. A left-button drag is a swipe.
func (m *ViewerModel) mouse(msg tea.MouseMsg) {
	x := float64(msg.X * cellWidth)
	switch {
	case msg.Button == tea.MouseButtonWheelDown:
		m.disp.Dispatch(gallery.Event{Kind: gallery.EventWheel, DY: 1})
	case msg.Button == tea.MouseButtonWheelUp:
		m.disp.Dispatch(gallery.Event{Kind: gallery.EventWheel, DY: -1})
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.disp.Dispatch(gallery.Event{Kind: gallery.EventTouch, Phase: gallery.TouchBegin, X: x})
	case msg.Action == tea.MouseActionMotion:
		m.disp.Dispatch(gallery.Event{Kind: gallery.EventTouch, Phase: gallery.TouchMoved, X: x})
	case msg.Action == tea.MouseActionRelease:
		m.disp.Dispatch(gallery.Event{Kind: gallery.EventTouch, Phase: gallery.TouchEnded, X: x})
	}
}

// exit releases the binding and either quits or hands control back to
// the embedding model.
func (m *ViewerModel) exit() tea.Cmd {
	m.Release()
	if m.embedded {
		idx := m.ctrl.Index()
		return func() tea.Msg { return viewerClosedMsg{index: idx} }
	}
	return tea.Quit
}

// Release removes the viewer's listeners and stops the hint timer.
func (m *ViewerModel) Release() {
	m.binding.Release()
	m.dismiss()
}

func (m *ViewerModel) View() string {
	if !m.ctrl.Viewable() {
		return listDimStyle.Render("No media")
	}
	item, _ := m.ctrl.Current()

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("[%d/%d]", m.ctrl.Index()+1, m.ctrl.Count())))
	b.WriteString("\n\n")

	var body strings.Builder
	glyph := "◼"
	if item.Kind == gallery.KindVideo {
		glyph = "▶"
	}
	name := item.Title
	if name == "" {
		name = item.ID
	}
	body.WriteString(listSelectedStyle.Render(glyph + " " + name))
	body.WriteString("\n")
	body.WriteString(StyleLink.Render(item.Src))
	if item.Caption != "" {
		body.WriteString("\n\n")
		body.WriteString(listNormalStyle.Render(item.Caption))
	}
	b.WriteString(viewerFrameStyle.Render(body.String()))
	b.WriteString("\n")
	b.WriteString(m.dots())
	b.WriteString("\n")

	if m.binding.Hint().Visible() {
		b.WriteString(hintStyle.Render("Swipe, scroll or use ←/→ to browse"))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(viewerKeys))
	return b.String()
}

// dots renders a page indicator for up to 20 items.
func (m *ViewerModel) dots() string {
	n := m.ctrl.Count()
	if n < 2 || n > 20 {
		return ""
	}
	parts := make([]string, n)
	for i := range parts {
		if i == m.ctrl.Index() {
			parts[i] = listSelectedStyle.Render("●")
		} else {
			parts[i] = listDimStyle.Render("○")
		}
	}
	return "  " + strings.Join(parts, " ")
}
