// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kestrelworks/spitap/pkg/spiperiph"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Live register dashboard",
	Long: `Interactive terminal dashboard showing the register file, decoder state,
output ports and recent bus activity while samples stream in from a
serial or WebSocket probe.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// Event log entry
type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// Messages
type tuiTickMsg time.Time
type busEventMsg spiperiph.Event
type busStateMsg struct {
	registers [spiperiph.RegisterCount]byte
	state     spiperiph.DecoderState
	ticks     uint64
	outPins   byte
	bidirPins byte
	stats     spiperiph.Statistics
}
type connClosedMsg struct{ err error }

// TUI model
// tuiModel owns its own Statistics copy. The reader goroutine keeps the
// live tracker and ships snapshots inside busStateMsg, so the two
// goroutines never touch the same counters.
type tuiModel struct {
	cfg      Config
	connInfo string
	stats    spiperiph.Statistics

	regTable  table.Model
	bus       busStateMsg
	eventLog  []eventLogEntry
	maxLog    int
	width     int
	height    int
	quitting  bool
	connError error
}

func newTUIModel(cfg Config, connInfo string) tuiModel {
	columns := []table.Column{
		{Title: "Addr", Width: 4},
		{Title: "Register", Width: 18},
		{Title: "Value", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(spiperiph.RegisterCount),
		table.WithFocused(false),
	)
	styles := table.DefaultStyles()
	styles.Selected = styles.Cell
	t.SetStyles(styles)

	return tuiModel{
		cfg:      cfg,
		connInfo: connInfo,
		regTable: t,
		eventLog: make([]eventLogEntry, 0),
		maxLog:   100,
		width:    80,
		height:   24,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(
		tuiTickCmd(),
		tea.EnterAltScreen,
	)
}

func tuiTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tuiTickMsg(t)
	})
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tuiTickMsg:
		m.stats.CalculateRates()
		return m, tuiTickCmd()

	case busStateMsg:
		m.bus = msg
		m.stats = msg.stats
		rows := make([]table.Row, spiperiph.RegisterCount)
		for addr := 0; addr < spiperiph.RegisterCount; addr++ {
			rows[addr] = table.Row{
				fmt.Sprintf("%d", addr),
				registerLabel(m.cfg, uint8(addr)),
				fmt.Sprintf("0x%02X", msg.registers[addr]),
			}
		}
		m.regTable.SetRows(rows)

	case busEventMsg:
		ev := spiperiph.Event(msg)
		switch ev.Type {
		case spiperiph.EventCommit:
			m.addLogEntry(fmt.Sprintf("tick %d: %s -> %s", ev.Tick, ev.Frame, registerLabel(m.cfg, ev.Frame.Address)), false)
		case spiperiph.EventRejectAddress:
			m.addLogEntry(fmt.Sprintf("tick %d: %s REJECTED (address out of range)", ev.Tick, ev.Frame), true)
		case spiperiph.EventReadIgnored:
			m.addLogEntry(fmt.Sprintf("tick %d: %s ignored (write-only bus)", ev.Tick, ev.Frame), false)
		case spiperiph.EventRestart:
			m.addLogEntry(fmt.Sprintf("tick %d: frame restarted mid-reception", ev.Tick), true)
		}

	case connClosedMsg:
		m.connError = msg.err
		m.addLogEntry("connection closed", true)
	}

	return m, nil
}

func (m *tuiModel) addLogEntry(message string, isError bool) {
	entry := eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	// Keep only last N entries
	if len(m.eventLog) > m.maxLog {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLog:]
	}
}

func (m tuiModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("SPITAP - REGISTER MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Press 'q' to quit", m.connInfo)))
	s.WriteString("\n\n")

	// Decoder and port state
	stateLine := fmt.Sprintf("%s %s   %s %d   %s %08b   %s %08b",
		labelStyle.Render("Decoder:"), valueStyle.Render(m.bus.state.String()),
		labelStyle.Render("Ticks:"), m.bus.ticks,
		labelStyle.Render("Out:"), m.bus.outPins,
		labelStyle.Render("Bidir:"), m.bus.bidirPins,
	)
	s.WriteString(boxStyle.Render(stateLine))
	s.WriteString("\n\n")

	// Register file
	s.WriteString(labelStyle.Render("Registers:"))
	s.WriteString("\n")
	s.WriteString(boxStyle.Render(m.regTable.View()))
	s.WriteString("\n\n")

	// Statistics
	statsContent := fmt.Sprintf("%s %s   %s %s   %s %s   %s %s",
		labelStyle.Render("Started:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.FramesStarted)),
		labelStyle.Render("Committed:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.FramesCommitted)),
		labelStyle.Render("Rejected:"), func() string {
			if m.stats.RejectedAddress > 0 {
				return errorStyle.Render(fmt.Sprintf("%d", m.stats.RejectedAddress))
			}
			return valueStyle.Render("0")
		}(),
		labelStyle.Render("Rate:"), valueStyle.Render(fmt.Sprintf("%.1f frames/s", m.stats.FrameRate)),
	)
	s.WriteString(boxStyle.Render(statsContent))
	s.WriteString("\n\n")

	if m.connError != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Connection lost: %v", m.connError)))
		s.WriteString("\n\n")
	}

	// Event log
	s.WriteString(labelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logHeight := m.height - 20 // Reserve space for header, state and stats
	if logHeight < 5 {
		logHeight = 5
	}

	logContent := strings.Builder{}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					warningStyle.Render("ℹ "+entry.message),
				))
			}
		}
	}

	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadActiveConfig()
	if err != nil {
		return err
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	periph := spiperiph.New()
	m := newTUIModel(cfg, connInfo)
	prog := tea.NewProgram(m)

	periph.Notify = func(ev spiperiph.Event) {
		prog.Send(busEventMsg(ev))
	}

	// The peripheral and its statistics live on this goroutine only;
	// every chunk advances the model, then a snapshot of the bus state
	// is pushed to the UI.
	reads := make(chan sampleChunk)
	go streamSamples(conn, reads)
	go func() {
		for r := range reads {
			if len(r.data) > 0 {
				periph.Run(r.data)
				prog.Send(busStateMsg{
					registers: periph.Registers(),
					state:     periph.State(),
					ticks:     periph.Ticks(),
					outPins:   periph.OutPins(),
					bidirPins: periph.BidirPins(),
					stats:     periph.Stats().Snapshot(),
				})
			}
			if r.err != nil {
				prog.Send(connClosedMsg{err: r.err})
				return
			}
		}
	}()

	_, err = prog.Run()
	return err
}
