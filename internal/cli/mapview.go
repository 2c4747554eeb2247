package cli

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/pinmap/pkg/config"
	"github.com/matzehuels/pinmap/pkg/geometry"
	"github.com/matzehuels/pinmap/pkg/iconmap"
	"github.com/matzehuels/pinmap/pkg/mapfile"
	"github.com/matzehuels/pinmap/pkg/pipeline"
	"github.com/matzehuels/pinmap/pkg/viewport"
)

// Rows used by the header, status and footer lines around the map grid.
const mapChromeRows = 4

var (
	mapImageStyle    = lipgloss.NewStyle().Foreground(colorDim)
	mapHoverStyle    = lipgloss.NewStyle().Reverse(true)
	mapSelectedStyle = lipgloss.NewStyle().Background(colorCyan).Foreground(lipgloss.Color("0"))
	mapMutedStyle    = lipgloss.NewStyle().Faint(true)
)

// =============================================================================
// Key Bindings
// =============================================================================

type mapKeyMap struct {
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Zoom    key.Binding
	Reset   key.Binding
	Pan     key.Binding
	NextPin key.Binding
	Open    key.Binding
	Filter  key.Binding
	Clear   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k mapKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPin, k.Open, k.Filter, k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

func (k mapKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPin, k.Open, k.Filter, k.Clear},
		{k.ZoomIn, k.ZoomOut, k.Zoom, k.Reset, k.Pan},
		{k.Help, k.Quit},
	}
}

var mapKeys = mapKeyMap{
	ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
	Zoom:    key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "zoom step")),
	Reset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),
	Pan:     key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("arrows", "pan")),
	NextPin: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next icon")),
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "open media")),
	Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// =============================================================================
// MapModel - Interactive map
// =============================================================================

// layoutMsg is sent when the observation publishes a new frame outside of
// Update, for example after the image file changed.
type layoutMsg struct{}

// MapModel is the bubbletea model for an interactive map. The terminal is
// the container; the image is contain-fitted into it under the viewport's
// zoom, and icons follow every geometry change.
type MapModel struct {
	def    *mapfile.Definition
	viewer config.ViewerConfig

	box      *geometry.Box
	img      *geometry.FileImage
	engine   *viewport.Engine
	obs      *geometry.Observation
	unfollow func()

	mu      sync.Mutex
	frame   iconmap.Frame
	changed chan struct{}

	hover     string
	selected  string
	filter    textinput.Model
	filtering bool
	matches   map[string]bool

	help   help.Model
	open   *ViewerModel
	cols   int
	rows   int
	closed bool
}

// NewMapModel opens the map's image and starts observing its geometry.
// Release the model when done.
func NewMapModel(def *mapfile.Definition, opts pipeline.Options, viewer config.ViewerConfig) (*MapModel, error) {
	m := &MapModel{
		def:     def,
		viewer:  viewer,
		changed: make(chan struct{}, 1),
		help:    help.New(),
		cols:    80,
		rows:    24 - mapChromeRows,
	}
	m.box = geometry.NewBox(geometry.Rect{W: float64(m.cols * cellWidth), H: float64(m.rows * cellHeight)})

	img, err := geometry.OpenImage(def.Image, m.box)
	if err != nil {
		return nil, err
	}
	m.img = img
	m.engine = viewport.NewEngine(viewport.ConfigFor(opts.TierValue()))

	mapper := &iconmap.Mapper{
		Set:      def.Icons,
		Scale:    opts.Engine(def),
		ZBase:    opts.ZBaseFor(def),
		OnLayout: m.publish,
	}
	m.obs = mapper.Observe(m.box, viewport.Transformed{Inner: img, Container: m.box, Adapter: m.engine})
	m.unfollow = viewport.Follow(m.engine, m.obs)

	m.filter = textinput.New()
	m.filter.Placeholder = "filter icons"
	m.filter.Prompt = "/ "
	return m, nil
}

// publish stores fr and wakes the event loop without blocking.
func (m *MapModel) publish(fr iconmap.Frame) {
	m.mu.Lock()
	m.frame = fr
	m.mu.Unlock()
	select {
	case m.changed <- struct{}{}:
	default:
	}
}

// Frame returns the current layout.
func (m *MapModel) Frame() iconmap.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame
}

// Image returns the observed image, for watching its file.
func (m *MapModel) Image() *geometry.FileImage { return m.img }

// Observation returns the geometry observation driving the layout.
func (m *MapModel) Observation() *geometry.Observation { return m.obs }

// Engine returns the viewport engine.
func (m *MapModel) Engine() *viewport.Engine { return m.engine }

// Release stops the observation and the zoom subscription. It is
// idempotent.
func (m *MapModel) Release() {
	m.unfollow()
	m.obs.Stop()
	if m.open != nil {
		m.open.Release()
	}
}

func (m *MapModel) waitLayout() tea.Cmd {
	ch := m.changed
	return func() tea.Msg {
		<-ch
		return layoutMsg{}
	}
}

func (m *MapModel) Init() tea.Cmd {
	return m.waitLayout()
}

func (m *MapModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case viewerClosedMsg:
		m.open = nil
		return m, nil
	case layoutMsg:
		return m, m.waitLayout()
	}
	if m.open != nil {
		if _, ok := msg.(tea.WindowSizeMsg); !ok {
			_, cmd := m.open.Update(msg)
			return m, cmd
		}
		m.open.Update(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		return m, m.mouse(msg)
	case tea.KeyMsg:
		if m.filtering {
			return m, m.filterKey(msg)
		}
		return m, m.key(msg)
	}
	return m, nil
}

// resize maps the terminal to the container box and re-measures.
func (m *MapModel) resize(width, height int) {
	m.cols = max(width, 1)
	m.rows = max(height-mapChromeRows, 1)
	m.help.Width = width
	m.box.Resize(float64(m.cols*cellWidth), float64(m.rows*cellHeight))
	m.obs.Refresh()
}

func (m *MapModel) key(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, mapKeys.Quit):
		m.closed = true
		m.Release()
		return tea.Quit
	case key.Matches(msg, mapKeys.ZoomIn):
		m.engine.ZoomIn()
	case key.Matches(msg, mapKeys.ZoomOut):
		m.engine.ZoomOut()
	case key.Matches(msg, mapKeys.Zoom):
		m.engine.DoubleClick()
		m.obs.Refresh()
	case key.Matches(msg, mapKeys.Reset):
		m.engine.ResetTransform()
		m.obs.Refresh()
	case key.Matches(msg, mapKeys.Pan):
		m.pan(msg.String())
	case key.Matches(msg, mapKeys.NextPin):
		m.cycle(msg.String() == "shift+tab")
	case key.Matches(msg, mapKeys.Open):
		return m.openMedia()
	case key.Matches(msg, mapKeys.Filter):
		m.filtering = true
		return m.filter.Focus()
	case key.Matches(msg, mapKeys.Clear):
		m.selected = ""
		m.matches = nil
		m.filter.SetValue("")
	case key.Matches(msg, mapKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// pan moves the content by a few cells. Tiers without panning ignore it.
func (m *MapModel) pan(dir string) {
	const step = 4
	var dx, dy float64
	switch dir {
	case "up":
		dy = step * cellHeight
	case "down":
		dy = -step * cellHeight
	case "left":
		dx = step * cellWidth
	case "right":
		dx = -step * cellWidth
	}
	if m.engine.Pan(dx, dy) {
		m.obs.Refresh()
	}
}

func (m *MapModel) filterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.matches = nil
		return nil
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		if hits := iconmap.Search(m.def.Icons, m.filter.Value()); len(hits) > 0 {
			m.selected = hits[0].ID
		}
		return nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return cmd
}

// applyFilter recomputes the fuzzy matches. An empty query matches all.
func (m *MapModel) applyFilter() {
	q := m.filter.Value()
	if q == "" {
		m.matches = nil
		return
	}
	m.matches = make(map[string]bool)
	for _, ic := range iconmap.Search(m.def.Icons, q) {
		m.matches[ic.ID] = true
	}
}

// visible returns the placements passing the filter, in stacking order.
func (m *MapModel) visible() []iconmap.Placement {
	var out []iconmap.Placement
	for _, p := range m.Frame().Placements {
		if m.matches == nil || m.matches[p.IconID] {
			out = append(out, p)
		}
	}
	return out
}

// cycle moves the selection to the next or previous visible icon.
func (m *MapModel) cycle(back bool) {
	ps := m.visible()
	if len(ps) == 0 {
		return
	}
	i := -1
	for j, p := range ps {
		if p.IconID == m.selected {
			i = j
		}
	}
	switch {
	case i < 0 && back:
		i = len(ps) - 1
	case i < 0:
		i = 0
	case back:
		i = (i - 1 + len(ps)) % len(ps)
	default:
		i = (i + 1) % len(ps)
	}
	m.selected = ps[i].IconID
}

// openMedia opens the viewer at the selected icon's media item.
func (m *MapModel) openMedia() tea.Cmd {
	if len(m.def.Media) == 0 {
		return nil
	}
	index := 0
	if ic, ok := m.def.Icons.Get(m.selected); ok {
		index = m.def.MediaIndex(ic)
	}
	title := m.def.Title
	if title == "" {
		title = m.def.Name
	}
	m.open = NewViewerModel(title, m.def.Media, index, m.viewer)
	m.open.embedded = true
	m.open.Update(tea.WindowSizeMsg{Width: m.cols, Height: m.rows + mapChromeRows})
	return m.open.Init()
}

// mouse handles hover, click and wheel zoom. Cell centers are hit-tested
// in container pixels.
func (m *MapModel) mouse(msg tea.MouseMsg) tea.Cmd {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.engine.Wheel(-1)
		return nil
	case msg.Button == tea.MouseButtonWheelDown:
		m.engine.Wheel(1)
		return nil
	}

	x := (float64(msg.X) + 0.5) * cellWidth
	y := (float64(msg.Y-1) + 0.5) * cellHeight
	hit, ok := iconmap.HitTest(m.visible(), x, y)
	switch msg.Action {
	case tea.MouseActionMotion:
		m.hover = ""
		if ok {
			m.hover = hit.IconID
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if !ok {
			m.selected = ""
			return nil
		}
		m.selected = hit.IconID
		if ic, _ := m.def.Icons.Get(hit.IconID); ic.Media != "" {
			return m.openMedia()
		}
	}
	return nil
}

// =============================================================================
// View
// =============================================================================

func (m *MapModel) View() string {
	if m.closed {
		return ""
	}
	if m.open != nil {
		return m.open.View()
	}

	fr := m.Frame()
	var b strings.Builder
	title := m.def.Title
	if title == "" {
		title = m.def.Name
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  zoom %.0f%%  icons ×%.2f  %d/%d shown",
		m.engine.Scale()*100, fr.Scale, len(m.visible()), m.def.Icons.Len())))
	b.WriteString("\n")
	b.WriteString(m.grid(fr))
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	if m.filtering {
		b.WriteString(m.filter.View())
	} else {
		b.WriteString(m.help.View(mapKeys))
	}
	return b.String()
}

// grid draws the image area and every visible icon onto terminal cells.
// Higher stacking orders are drawn last.
func (m *MapModel) grid(fr iconmap.Frame) string {
	g := fr.Geometry
	x0, y0 := int(g.ImageOffsetX/cellWidth), int(g.ImageOffsetY/cellHeight)
	x1, y1 := int((g.ImageOffsetX+g.ImageWidth)/cellWidth), int((g.ImageOffsetY+g.ImageHeight)/cellHeight)
	background := func(r, c int) string {
		if c >= x0 && c < x1 && r >= y0 && r < y1 {
			return mapImageStyle.Render("·")
		}
		return " "
	}

	cells := make([][]string, m.rows)
	// owner holds the column where the glyph covering a cell starts, or -1.
	owner := make([][]int, m.rows)
	for r := range cells {
		cells[r] = make([]string, m.cols)
		owner[r] = make([]int, m.cols)
		for c := range cells[r] {
			cells[r][c] = background(r, c)
			owner[r][c] = -1
		}
	}
	// erase reverts the whole glyph covering (r, c) to background.
	erase := func(r, c int) {
		start := owner[r][c]
		if start < 0 {
			return
		}
		for k := start; k < m.cols && owner[r][k] == start; k++ {
			cells[r][k] = background(r, k)
			owner[r][k] = -1
		}
	}

	ps := append([]iconmap.Placement(nil), fr.Placements...)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Z < ps[j].Z })
	for _, p := range ps {
		c, r := int(p.X/cellWidth), int(p.Y/cellHeight)
		if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
			continue
		}
		glyph, w := m.glyph(p.IconID)
		if c+w > m.cols {
			continue
		}
		// Higher icons win; a glyph they partly cover is removed whole so
		// the row keeps its width.
		for k := c; k < c+w; k++ {
			erase(r, k)
		}
		cells[r][c] = m.styleIcon(p.IconID).Render(glyph)
		owner[r][c] = c
		for k := 1; k < w; k++ {
			cells[r][c+k] = ""
			owner[r][c+k] = c
		}
	}

	lines := make([]string, m.rows)
	for r, row := range cells {
		lines[r] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

// glyph returns the icon's terminal glyph and its width in cells.
func (m *MapModel) glyph(id string) (string, int) {
	ic, _ := m.def.Icons.Get(id)
	g := ic.Emoji
	if ic.Variant == iconmap.VariantImage || g == "" {
		g = "▣"
	}
	w := runewidth.StringWidth(g)
	if w < 1 {
		w = 1
	}
	return g, w
}

func (m *MapModel) styleIcon(id string) lipgloss.Style {
	switch {
	case id == m.selected:
		return mapSelectedStyle
	case id == m.hover:
		return mapHoverStyle
	case m.matches != nil && !m.matches[id]:
		return mapMutedStyle
	default:
		return lipgloss.NewStyle()
	}
}

// status describes the hovered or selected icon.
func (m *MapModel) status() string {
	id := m.hover
	if id == "" {
		id = m.selected
	}
	ic, ok := m.def.Icons.Get(id)
	if !ok {
		return listDimStyle.Render(fmt.Sprintf("%d media", len(m.def.Media)))
	}
	line := listSelectedStyle.Render(ic.Label())
	if ic.Description != "" {
		line += "  " + listNormalStyle.Render(runewidth.Truncate(ic.Description, max(m.cols-runewidth.StringWidth(ic.Label())-4, 0), "…"))
	}
	return line
}
