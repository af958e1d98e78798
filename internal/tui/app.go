package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lu-zhengda/cleanslim/internal/category"
	"github.com/lu-zhengda/cleanslim/internal/engine"
	"github.com/lu-zhengda/cleanslim/internal/history"
	"github.com/lu-zhengda/cleanslim/internal/utils"
)

type errMsg struct {
	err error
}

type Model struct {
	engine *engine.Engine
	bridge *bridge
	ctx    context.Context

	// state lags the engine by the completion floor.
	state         engine.State
	categories    []category.Category
	cursor        int
	scanProgress  float64
	cleanProgress float64
	freed         int64
	results       []engine.CategoryResult
	status        string

	spinner spinner.Model
	bar     progress.Model

	width  int
	height int
}

// New builds the interactive model. Scan and clean completion are shown no
// sooner than minDuration after the phase starts.
func New(e *engine.Engine, minDuration time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return Model{
		engine:     e,
		bridge:     newBridge(e, minDuration),
		ctx:        context.Background(),
		state:      e.State(),
		categories: e.Categories(),
		spinner:    sp,
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// Close detaches the model from the engine.
func (m Model) Close() {
	m.bridge.close()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.bridge.wait(), m.startScan())
}

func (m Model) startScan() tea.Cmd {
	return func() tea.Msg {
		m.engine.StartScan(m.ctx)
		return nil
	}
}

// engineCmd runs fn off the update loop; engine calls may publish events
// that this model has to consume.
func engineCmd(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(60, msg.Width-10))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		cmd := m.apply(msg.event)
		return m, tea.Batch(m.bridge.wait(), cmd)

	case errMsg:
		m.status = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) apply(ev engine.Event) tea.Cmd {
	switch ev := ev.(type) {
	case engine.StateChanged:
		m.state = ev.To
		switch ev.To {
		case engine.Scanning:
			m.scanProgress = 0
			m.status = ""
		case engine.Cleaning:
			m.cleanProgress = 0
			m.freed = 0
			m.results = nil
			m.status = ""
		case engine.Idle:
			m.scanProgress = 0
			m.cleanProgress = 0
		}
	case engine.ScanProgress:
		m.scanProgress = ev.Fraction
	case engine.ScanCompleted:
		m.categories = ev.Categories
		m.scanProgress = 1
		m.cursor = min(m.cursor, max(0, len(m.categories)-1))
	case engine.CleanProgress:
		m.cleanProgress = ev.Fraction
	case engine.CleanCompleted:
		m.cleanProgress = 1
		m.freed = ev.BytesFreed
		m.results = ev.Results
		m.categories = m.engine.Categories()
		return recordHistory(ev.Results)
	case engine.SelectionChanged:
		for i := range m.categories {
			if m.categories[i].Name == ev.Name {
				m.categories[i].Selected = ev.Selected
			}
		}
	}
	return nil
}

func recordHistory(results []engine.CategoryResult) tea.Cmd {
	return engineCmd(func() error {
		entries := history.FromResults(results, history.TriggerManual, time.Now())
		return history.New(history.DefaultPath()).Record(entries...)
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.categories)-1 {
			m.cursor++
		}
	case "s":
		return m, m.startScan()
	case "r":
		return m, engineCmd(func() error {
			m.engine.Reset(m.ctx)
			return nil
		})
	case " ":
		if m.cursor < len(m.categories) {
			name := m.categories[m.cursor].Name
			return m, engineCmd(func() error {
				_, err := m.engine.Toggle(name)
				return err
			})
		}
	case "a":
		return m, engineCmd(func() error {
			return m.engine.SelectAll(!m.engine.AllSelected())
		})
	case "c", "enter":
		if m.state != engine.Scanned {
			return m, nil
		}
		return m, engineCmd(func() error {
			if !m.engine.StartClean(m.ctx) {
				return fmt.Errorf("nothing selected to clean")
			}
			return nil
		})
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	switch m.state {
	case engine.Idle:
		b.WriteString(renderHeader("idle"))
		b.WriteString("\n  Press s to scan.\n")
	case engine.Scanning:
		b.WriteString(renderHeader("scanning"))
		fmt.Fprintf(&b, "\n  %s Measuring categories...\n\n  %s\n", m.spinner.View(), m.bar.ViewAs(m.scanProgress))
	case engine.Scanned:
		b.WriteString(renderHeader("scanned"))
		b.WriteString(m.viewCategories())
	case engine.Cleaning:
		b.WriteString(renderHeader("cleaning"))
		fmt.Fprintf(&b, "\n  %s Cleaning...\n\n  %s\n", m.spinner.View(), m.bar.ViewAs(m.cleanProgress))
	case engine.Completed:
		b.WriteString(renderHeader("done"))
		b.WriteString(m.viewResults())
	}

	if m.status != "" {
		b.WriteString("\n  " + warnStyle.Render(m.status) + "\n")
	}
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) viewCategories() string {
	var b strings.Builder
	b.WriteString("\n")

	var total, selected int64
	for _, c := range m.categories {
		total += c.Size
		if c.Selected {
			selected += c.Size
		}
	}

	for i, c := range m.categories {
		box := "[ ]"
		if c.Selected {
			box = "[x]"
		}
		pointer := "  "
		name := lipgloss.NewStyle().Foreground(categoryColor(c.Name)).Render(fmt.Sprintf("%-26s", c.DisplayName))
		if i == m.cursor {
			pointer = selectedStyle.Render("> ")
		}
		var share float64
		if total > 0 {
			share = float64(c.Size) / float64(total)
		}
		fmt.Fprintf(&b, "%s%s %s %10s  %s\n", pointer, box, name, utils.FormatSize(c.Size), renderShare(share, 12))
	}

	fmt.Fprintf(&b, "\n  Total %s, selected %s\n", utils.FormatSize(total), selectedStyle.Render(utils.FormatSize(selected)))
	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", successStyle.Render("Freed "+utils.FormatSize(m.freed)))
	for _, r := range m.results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(&b, "  %s %-26s %s\n", failStyle.Render("x"), r.Name, dimStyle.Render(r.Err.Error()))
		case r.Failed > 0:
			fmt.Fprintf(&b, "  %s %-26s %10s  %s\n", warnStyle.Render("!"), r.Name, utils.FormatSize(r.Credited),
				dimStyle.Render(fmt.Sprintf("%d items could not be deleted", r.Failed)))
		default:
			fmt.Fprintf(&b, "  %s %-26s %10s\n", successStyle.Render("✓"), r.Name, utils.FormatSize(r.Credited))
		}
	}
	return b.String()
}

func (m Model) footer() string {
	switch m.state {
	case engine.Scanned:
		return renderFooter("space toggle", "a all", "c clean", "s rescan", "q quit")
	case engine.Completed, engine.Idle:
		return renderFooter("r rescan", "q quit")
	default:
		return renderFooter("q quit")
	}
}
