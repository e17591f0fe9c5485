package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ryanm101/flashman/internal/assets"
	"github.com/ryanm101/flashman/internal/browser"
	"github.com/ryanm101/flashman/internal/catalog"
)

type view int

const (
	viewResults view = iota
	viewCollection
	viewDetails
)

type focus int

const (
	focusList focus = iota
	focusSearch
	focusFilter
)

type imageInfo struct {
	width  int
	height int
	failed bool
}

// model is the bubbletea adapter over browser.Service. All service calls
// that change state happen in Update.
type model struct {
	svc    *browser.Service
	width  int
	height int

	view  view
	prev  view // view to return to when details close
	focus focus

	search textinput.Model
	filter textinput.Model

	// Results
	query   string
	total   int
	results []catalog.Record
	cursor  int
	loading bool

	// Collection
	games      []catalog.Record
	gameCursor int

	details *browser.DetailsShown
	images  map[string]imageInfo

	status   browser.OperationResult
	showHelp bool
}

func newModel(svc *browser.Service) model {
	search := textinput.New()
	search.Placeholder = "Search Flashpoint..."
	search.Prompt = "🔍 "
	search.CharLimit = 200

	filter := textinput.New()
	filter.Placeholder = "Filter by title"
	filter.Prompt = "Filter: "
	filter.CharLimit = 100

	m := model{
		svc:    svc,
		search: search,
		filter: filter,
		images: make(map[string]imageInfo),
	}
	return m.apply(svc.Init())
}

// Messages
type searchMsg struct {
	outcome browser.SearchOutcome
}

type detailsMsg struct {
	outcome browser.DetailsOutcome
}

type assetMsg struct {
	ready assets.Ready
	ok    bool
}

// Commands
func searchCmd(svc *browser.Service, query string) tea.Cmd {
	return func() tea.Msg {
		return searchMsg{outcome: svc.Search(context.Background(), query)}
	}
}

func detailsCmd(svc *browser.Service, r catalog.Record) tea.Cmd {
	return func() tea.Msg {
		return detailsMsg{outcome: svc.Details(context.Background(), r)}
	}
}

// waitForAsset delivers the next background image. It is re-armed after
// every delivery.
func waitForAsset(ch <-chan assets.Ready) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		return assetMsg{ready: r, ok: ok}
	}
}

// Init starts listening for images
func (m model) Init() tea.Cmd {
	return waitForAsset(m.svc.Assets())
}

// Update handles messages
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(msg.Width-10, 10)
		if m.view == viewResults {
			m = m.scroll()
		}
		return m, nil

	case searchMsg:
		m.loading = false
		m = m.apply(m.svc.ApplySearch(msg.outcome))
		if m.view != viewDetails {
			m.view = viewResults
		}
		return m.scroll(), nil

	case detailsMsg:
		m.loading = false
		return m.apply(m.svc.ShowDetails(msg.outcome)), nil

	case assetMsg:
		if !msg.ok {
			return m, nil
		}
		m = m.apply([]browser.Event{browser.AssetReady{Ready: msg.ready}})
		return m, waitForAsset(m.svc.Assets())

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusFilter:
			return m.updateFilter(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		m.focus = focusList
		m.loading = true
		return m, searchCmd(m.svc, m.search.Value())
	case "esc":
		m.search.Blur()
		m.focus = focusList
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filter.Blur()
		m.focus = focusList
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m = m.apply(m.svc.FilterChanged(m.filter.Value()))
	return m, cmd
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay - any key closes it
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "?":
		m.showHelp = true
	case "q":
		if m.view == viewDetails {
			return m.closeDetails(), nil
		}
		return m, tea.Quit
	case "esc", "backspace":
		if m.view == viewDetails {
			return m.closeDetails(), nil
		}
	case "/":
		if m.view == viewDetails {
			m = m.closeDetails()
		}
		m.view = viewResults
		m.focus = focusSearch
		cmd := m.search.Focus()
		return m, cmd
	case "f":
		if m.view == viewCollection {
			m.focus = focusFilter
			cmd := m.filter.Focus()
			return m, cmd
		}
	case "tab":
		switch m.view {
		case viewResults:
			m.view = viewCollection
		case viewCollection:
			m.view = viewResults
		}
	case "up", "k":
		m = m.move(-1)
	case "down", "j":
		m = m.move(1)
	case "pgup":
		m = m.move(-10)
	case "pgdown":
		m = m.move(10)
	case "enter":
		if r := m.selected(); r != nil && m.view != viewDetails {
			m.loading = true
			return m, detailsCmd(m.svc, r)
		}
	case "a":
		if r := m.selected(); r != nil && m.view != viewCollection {
			m = m.apply(m.svc.AddRequested(r))
		}
	case "d", "x":
		if r := m.selected(); r != nil {
			m = m.apply(m.svc.RemoveRequested(r))
		}
	}
	return m, nil
}

func (m model) closeDetails() model {
	m.svc.CloseDetails()
	m.details = nil
	m.view = m.prev
	return m
}

func (m model) move(delta int) model {
	switch m.view {
	case viewResults:
		m.cursor = clamp(m.cursor+delta, len(m.results))
		return m.scroll()
	case viewCollection:
		m.gameCursor = clamp(m.gameCursor+delta, len(m.games))
	}
	return m
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	return max(i, 0)
}

// scroll reports the result list position so more pages load near the end.
// While the list still fits on screen it keeps asking until a page overflows
// it or the session runs dry.
func (m model) scroll() model {
	visible := m.listHeight()
	for {
		loaded := len(m.results)
		maximum := max(loaded-visible, 0)
		position := min(max(m.cursor-visible+1, 0), maximum)
		m = m.apply(m.svc.ScrollPositionChanged(position, maximum))
		if maximum > 0 || len(m.results) == loaded {
			return m
		}
	}
}

func (m model) selected() catalog.Record {
	switch m.view {
	case viewDetails:
		if m.details != nil {
			return m.details.Record
		}
	case viewResults:
		if m.cursor < len(m.results) {
			return m.results[m.cursor]
		}
	case viewCollection:
		if m.gameCursor < len(m.games) {
			return m.games[m.gameCursor]
		}
	}
	return nil
}

// apply folds service events into the model.
func (m model) apply(events []browser.Event) model {
	for _, e := range events {
		switch e := e.(type) {
		case browser.ResultsReset:
			m.query = e.Query
			m.total = e.Total
			m.results = nil
			m.cursor = 0
		case browser.PageAppended:
			m.results = append(m.results, e.Records...)
		case browser.CollectionChanged:
			m.games = e.Records
			m.gameCursor = clamp(m.gameCursor, len(m.games))
		case browser.OperationResult:
			m.status = e
		case browser.DetailsShown:
			if m.view != viewDetails {
				m.prev = m.view
			}
			d := e
			m.details = &d
			m.view = viewDetails
		case browser.AssetReady:
			info := imageInfo{failed: e.Err != nil}
			if e.Image != nil && e.Err == nil {
				b := e.Image.Bounds()
				info.width, info.height = b.Dx(), b.Dy()
			}
			m.images[e.Asset.ID()] = info
		}
	}
	return m
}

func (m model) listHeight() int {
	// Chrome: title (2) + input (2) + tabs (2) + help (2) + status (1)
	return max(m.height-9, 5)
}

const ownedMark = "✓ owned"

// Styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("255"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tabStyle      = lipgloss.NewStyle().Padding(0, 1)
	activeTab     = tabStyle.Background(lipgloss.Color("205")).Foreground(lipgloss.Color("0"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	ownedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	platformStyles = map[string]lipgloss.Style{
		"flash": lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"html5": lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		"other": lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}

	statusColors = map[browser.ResultKind]lipgloss.Color{
		browser.Success: lipgloss.Color("42"),
		browser.Warning: lipgloss.Color("214"),
		browser.Failure: lipgloss.Color("196"),
	}
)

// View renders the UI
func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.viewHelp()
	}

	var body string
	switch m.view {
	case viewDetails:
		body = m.viewDetails()
	case viewCollection:
		body = m.viewCollection()
	default:
		body = m.viewResults()
	}

	help := "/: search | tab: switch | j/k: nav | enter: details | a: add | d: remove | f: filter | ?: help | q: quit"
	if m.view == viewDetails {
		help = "esc: back | a: add | d: remove | q: back"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("🎮 Flashman"),
		m.search.View(),
		m.viewTabs(),
		body,
		dimStyle.Render(help),
		m.viewStatus(),
	)
}

func (m model) viewTabs() string {
	results := fmt.Sprintf("Results (%d)", m.total)
	games := fmt.Sprintf("My Games (%d)", len(m.games))
	if m.view == viewCollection {
		return tabStyle.Render(results) + activeTab.Render(games)
	}
	return activeTab.Render(results) + tabStyle.Render(games)
}

func (m model) viewResults() string {
	if m.loading && len(m.results) == 0 {
		return "Searching..."
	}
	if len(m.results) == 0 {
		return dimStyle.Render("Press / to search the catalog.")
	}
	return m.renderList(m.results, m.cursor)
}

func (m model) viewCollection() string {
	var b strings.Builder
	if m.focus == focusFilter || m.filter.Value() != "" {
		b.WriteString(m.filter.View() + "\n")
	}
	if len(m.games) == 0 {
		b.WriteString(dimStyle.Render("No games in your collection."))
		return b.String()
	}
	b.WriteString(m.renderList(m.games, m.gameCursor))
	return b.String()
}

func (m model) renderList(records []catalog.Record, cursor int) string {
	visible := m.listHeight()
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := min(start+visible, len(records))

	var lines []string
	for i := start; i < end; i++ {
		r := records[i]
		line := fmt.Sprintf("%s %s %s", m.imageMark(assets.Logo(r.ID())), r.Title(), platformBadge(r.Platform()))
		if m.view == viewResults && m.svc.InCollection(r) {
			line += " " + ownedStyle.Render(ownedMark)
		}
		if i == cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(records) > visible {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("  (%d/%d)", cursor+1, len(records))))
	}
	return strings.Join(lines, "\n")
}

func (m model) viewDetails() string {
	d := m.details
	if d == nil {
		return ""
	}
	r := d.Record

	var lines []string
	lines = append(lines, titleStyle.Render(r.Title())+" "+platformBadge(r.Platform()))
	lines = append(lines, fmt.Sprintf("Logo: %s   Screenshot: %s",
		m.imageLabel(assets.Logo(r.ID())), m.imageLabel(assets.Screenshot(r.ID()))))
	lines = append(lines, "")
	if desc := r.ShortDescription(); desc != "" {
		lines = append(lines, desc, "")
	}

	for _, k := range r.Keys() {
		if k == "title" || k == "originalDescription" {
			continue
		}
		lines = append(lines, keyStyle.Render(k+":")+" "+r.Field(k))
	}

	if len(d.AddApps) > 0 {
		lines = append(lines, "", titleStyle.Render("Additional applications"))
		for _, app := range d.AddApps {
			lines = append(lines, fmt.Sprintf("  %s %s", app.Name, dimStyle.Render(app.ApplicationPath)))
		}
	}

	lines = append(lines, "")
	if d.InCollection {
		lines = append(lines, dimStyle.Render("In your collection. Press d to remove."))
	} else {
		lines = append(lines, keyStyle.Render("[a]")+" Add to My Games")
	}
	return strings.Join(lines, "\n")
}

func (m model) viewStatus() string {
	style := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("241")).
		Width(m.width)
	if c, ok := statusColors[m.status.Kind]; ok {
		style = style.Foreground(c)
	}
	text := " " + m.status.Message
	if m.loading {
		text = " Loading..."
	}
	return style.Render(text)
}

func (m model) viewHelp() string {
	lines := []string{
		titleStyle.Render("Keyboard Shortcuts"),
		"",
		keyStyle.Render("  /") + "      Search the catalog",
		keyStyle.Render("  tab") + "    Switch results / My Games",
		keyStyle.Render("  j/k") + "    Move",
		keyStyle.Render("  enter") + "  Show details",
		keyStyle.Render("  a") + "      Add to My Games",
		keyStyle.Render("  d") + "      Remove from My Games",
		keyStyle.Render("  f") + "      Filter My Games",
		keyStyle.Render("  q") + "      Back / quit",
		"",
		dimStyle.Render("Press any key to close"),
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("205")).
		Padding(1, 2).
		Width(50)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box.Render(strings.Join(lines, "\n")))
}

func (m model) imageMark(a assets.Asset) string {
	info, ok := m.images[a.ID()]
	switch {
	case !ok:
		return "·"
	case info.failed:
		return "✗"
	default:
		return "▣"
	}
}

func (m model) imageLabel(a assets.Asset) string {
	info, ok := m.images[a.ID()]
	switch {
	case !ok:
		return "loading..."
	case info.failed:
		return "unavailable"
	default:
		return fmt.Sprintf("%dx%d", info.width, info.height)
	}
}

func platformBadge(platform string) string {
	if platform == "" {
		return ""
	}
	return platformStyles[catalog.PlatformClass(platform)].Render("[" + platform + "]")
}
