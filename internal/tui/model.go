// Package tui provides the BubbleTea-based terminal folder browser, used
// when no graphical session is available.
package tui

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/folderpop/internal/output"
	"github.com/jmylchreest/folderpop/internal/popup"
	"github.com/jmylchreest/folderpop/internal/snapshot"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
	ModeSearch
	ModeHelp
)

// Options configures the browser.
type Options struct {
	// Load returns a fresh snapshot of the folder. Required.
	Load     func() *snapshot.Snapshot
	Launcher popup.Launcher
	// Changes delivers a value whenever the folder changed on disk.
	Changes    <-chan struct{}
	ShowHidden bool
	Clipboard  string // clipboard command, auto-detected if empty
}

// Model is the main TUI model.
type Model struct {
	opts Options

	mode Mode

	// Components
	list        list.Model
	viewport    viewport.Model
	searchInput textinput.Model
	help        help.Model

	// State
	snap        *snapshot.Snapshot
	listing     output.Listing
	selected    *output.Record
	searchQuery string
	showHidden  bool
	width       int
	height      int
	ready       bool

	keys KeyMap

	statusMsg string
	statusErr bool
}

// entryItem wraps a folder entry for the list component.
type entryItem struct {
	record output.Record
}

func (i entryItem) Title() string {
	if i.record.Kind == "folder" {
		return i.record.Name + "/"
	}
	return i.record.Name
}

func (i entryItem) Description() string {
	parts := []string{i.record.Kind}
	if i.record.Kind == "file" {
		parts = append(parts, humanize.Bytes(uint64(max(i.record.Size, 0))))
	}
	if !i.record.Modified.IsZero() {
		parts = append(parts, humanize.Time(i.record.Modified))
	}
	return strings.Join(parts, " · ")
}

func (i entryItem) FilterValue() string {
	return i.record.Name
}

// entryDelegate renders folders in the accent colour.
type entryDelegate struct {
	list.DefaultDelegate
}

func newEntryDelegate() entryDelegate {
	return entryDelegate{DefaultDelegate: list.NewDefaultDelegate()}
}

// Render renders a list item. Folders use the accent colour and hidden
// entries are dimmed.
func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(entryItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	isSelected := index == m.Index()
	itemWidth := m.Width() - d.Styles.NormalTitle.GetHorizontalPadding()

	titleStyle, descStyle := d.Styles.NormalTitle, d.Styles.NormalDesc
	if isSelected {
		titleStyle, descStyle = d.Styles.SelectedTitle, d.Styles.SelectedDesc
	}
	switch {
	case strings.HasPrefix(ei.record.Name, "."):
		titleStyle = titleStyle.Foreground(lipgloss.Color("8"))
	case ei.record.Kind == "folder" && !isSelected:
		titleStyle = titleStyle.Foreground(lipgloss.Color("12"))
	}

	fmt.Fprint(w, titleStyle.Render(truncate(ei.Title(), itemWidth)))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, descStyle.Render(truncate(ei.Description(), itemWidth)))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

// New creates a new TUI model.
func New(opts Options) Model {
	l := list.New(nil, newEntryDelegate(), 0, 0)
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search..."
	searchInput.CharLimit = 100

	return Model{
		opts:        opts,
		mode:        ModeList,
		list:        l,
		searchInput: searchInput,
		help:        help.New(),
		keys:        DefaultKeyMap(),
		showHidden:  opts.ShowHidden,
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadSnapshot,
		m.watchForChanges,
	)
}

type loadSnapshotMsg struct{}

func (m Model) loadSnapshot() tea.Msg {
	return loadSnapshotMsg{}
}

type refreshMsg struct{}

// watchForChanges waits for the next folder change.
func (m Model) watchForChanges() tea.Msg {
	if m.opts.Changes == nil {
		return nil
	}
	if _, ok := <-m.opts.Changes; !ok {
		return nil
	}
	return refreshMsg{}
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

type openResultMsg struct {
	path string
	err  error
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isErr: isErr} }
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2
		return m, nil

	case loadSnapshotMsg:
		m.reload()
		return m, nil

	case refreshMsg:
		m.reload()
		return m, m.watchForChanges

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, status("Copy failed: "+msg.err.Error(), true)
		}
		return m, status("Copied to clipboard", false)

	case openResultMsg:
		if msg.err != nil {
			return m, status("Open failed: "+msg.err.Error(), true)
		}
		m.release()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.mode {
	case ModeList:
		m.list, cmd = m.list.Update(msg)
	case ModeDetail:
		m.viewport, cmd = m.viewport.Update(msg)
	case ModeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

// reload replaces the snapshot, releasing the previous one.
func (m *Model) reload() {
	if m.opts.Load == nil {
		return
	}
	next := m.opts.Load()
	m.release()
	m.snap = next
	m.listing = output.NewListing(next)
	m.list.Title = m.listing.Title + "  " + m.listing.Status
	m.list.SetItems(m.buildListItems())
}

func (m *Model) release() {
	if m.snap != nil {
		m.snap.Release()
	}
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit) && (m.mode != ModeSearch || msg.Type == tea.KeyCtrlC):
		m.release()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help) && m.mode != ModeSearch:
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}
	return m, nil
}

func (m Model) selectedRecord() (output.Record, bool) {
	item, ok := m.list.SelectedItem().(entryItem)
	return item.record, ok
}

// handleListKey handles keys in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Open):
		if r, ok := m.selectedRecord(); ok {
			return m, m.open(r.Path)
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenFolder):
		return m, m.open(m.listing.Folder)

	case key.Matches(msg, m.keys.Details):
		if r, ok := m.selectedRecord(); ok {
			m.showDetail(r)
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		// Escape closes the browser like it closes the popup.
		if msg.Type == tea.KeyEsc {
			m.release()
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyPath):
		if r, ok := m.selectedRecord(); ok {
			return m, m.copyToClipboard(r.Path)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyAllJSON):
		return m, m.copyListing(output.NewJSONFormatter(), "JSON")

	case key.Matches(msg, m.keys.CopyAllYAML):
		return m, m.copyListing(output.NewYAMLFormatter(), "YAML")

	case key.Matches(msg, m.keys.ToggleHidden):
		m.showHidden = !m.showHidden
		m.list.SetItems(m.buildListItems())
		if m.showHidden {
			return m, status("Showing hidden entries", false)
		}
		return m, status("Hiding hidden entries", false)

	case key.Matches(msg, m.keys.Search):
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadSnapshot
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) showDetail(r output.Record) {
	m.selected = &r
	m.mode = ModeDetail
	m.viewport.SetContent(renderDetail(r))
	m.viewport.GotoTop()
}

// handleDetailKey handles keys in detail mode.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeList
		m.selected = nil
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.selected != nil {
			return m, m.open(m.selected.Path)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyPath):
		if m.selected != nil {
			return m, m.copyToClipboard(m.selected.Path)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleSearchKey handles keys in search mode.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		return m, nil

	case tea.KeyEnter:
		if r, ok := m.selectedRecord(); ok {
			m.searchInput.Blur()
			return m, m.open(r.Path)
		}
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	m.searchQuery = m.searchInput.Value()
	m.list.SetItems(m.buildListItems())
	return m, cmd
}

// buildListItems creates list items from the current listing.
func (m Model) buildListItems() []list.Item {
	query := strings.ToLower(m.searchQuery)
	items := make([]list.Item, 0, len(m.listing.Entries))
	for _, r := range m.listing.Entries {
		if !m.showHidden && strings.HasPrefix(r.Name, ".") {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(r.Name), query) {
			continue
		}
		items = append(items, entryItem{record: r})
	}
	return items
}

// renderDetail renders the detail view for an entry.
func renderDetail(r output.Record) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(r.Name) + "\n\n")
	sb.WriteString(labelStyle.Render("Path: ") + r.Path + "\n")
	sb.WriteString(labelStyle.Render("Kind: ") + r.Kind + "\n")
	if r.Kind == "file" {
		fmt.Fprintf(&sb, "%s%s (%s bytes)\n", labelStyle.Render("Size: "),
			humanize.Bytes(uint64(max(r.Size, 0))), humanize.Comma(r.Size))
	}
	if !r.Modified.IsZero() {
		sb.WriteString(labelStyle.Render("Modified: ") + r.Modified.Format(time.DateTime) +
			" (" + humanize.Time(r.Modified) + ")\n")
	}
	sb.WriteString(labelStyle.Render("Tooltip: ") + r.Tooltip + "\n")
	return sb.String()
}

func (m Model) open(path string) tea.Cmd {
	launcher := m.opts.Launcher
	return func() tea.Msg {
		if launcher == nil {
			return openResultMsg{path: path, err: fmt.Errorf("no launcher configured")}
		}
		return openResultMsg{path: path, err: launcher.Open(path)}
	}
}

func (m Model) copyToClipboard(text string) tea.Cmd {
	command := m.opts.Clipboard
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text, command)}
	}
}

// copyListing copies the visible entries in the given format.
func (m Model) copyListing(f output.Formatter, name string) tea.Cmd {
	visible := m.listing
	visible.Entries = nil
	for _, item := range m.list.Items() {
		if ei, ok := item.(entryItem); ok {
			visible.Entries = append(visible.Entries, ei.record)
		}
	}
	var buf bytes.Buffer
	if err := f.Format(&buf, visible); err != nil {
		return status("Failed to marshal "+name+": "+err.Error(), true)
	}
	return m.copyToClipboard(buf.String())
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeDetail:
		return m.viewDetail()
	case ModeSearch:
		return m.viewSearch()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewList() string {
	s := m.list.View()
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		return s + "\n" + statusStyle.Render(m.statusMsg)
	}
	return s + "\n" + m.buildKeybindBar(m.width, ModeList)
}

func (m Model) viewDetail() string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render("Entry Detail")
	return header + "\n" + m.viewport.View() + "\n" + m.buildKeybindBar(m.width, ModeDetail)
}

func (m Model) viewSearch() string {
	countStr := fmt.Sprintf("(%d matches)", len(m.list.Items()))
	searchBar := "Search: " + m.searchInput.View() + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(countStr)
	return searchBar + "\n" + m.list.View() + "\n" + m.buildKeybindBar(m.width, ModeSearch)
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)
	return titleStyle.Render("Keyboard Shortcuts") + "\n\n" +
		m.help.FullHelpView(m.keys.FullHelp()) + "\n\n" +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("Press ? or esc to return")
}

// keybind is one entry of the status bar.
type keybind struct {
	key  string
	desc string
}

// buildKeybindBar builds a keybind bar that fits within the given width.
// Binds are listed most important first.
func (m Model) buildKeybindBar(width int, mode Mode) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind
	switch mode {
	case ModeList:
		binds = []keybind{
			{"q", "quit"},
			{"enter", "open"},
			{"?", "help"},
			{"/", "search"},
			{"o", "folder"},
			{"i", "details"},
			{"c", "copy"},
			{".", "hidden"},
			{"r", "refresh"},
		}
	case ModeDetail:
		binds = []keybind{
			{"q", "quit"},
			{"esc", "back"},
			{"enter", "open"},
			{"c", "copy path"},
			{"j/k", "scroll"},
		}
	case ModeSearch:
		binds = []keybind{
			{"enter", "open"},
			{"esc", "close"},
			{"↑/↓", "navigate"},
		}
	}

	const separator = "  "
	var rendered, plain []string
	plainLen := 0
	for _, b := range binds {
		item := b.key + " " + b.desc
		next := plainLen + len([]rune(item))
		if len(plain) > 0 {
			next += len(separator)
		}
		if width > 0 && next > width {
			break
		}
		plainLen = next
		plain = append(plain, item)
		rendered = append(rendered, keyStyle.Render(b.key)+" "+b.desc)
	}
	return style.Render(strings.Join(rendered, separator))
}

// Run starts the browser and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
