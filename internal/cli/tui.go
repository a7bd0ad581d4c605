package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/export"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Board Rows
// =============================================================================

// boardRow is the display summary of one board.
type boardRow struct {
	ID        string
	Name      string
	Tiles     int
	Fixed     bool
	Links     int
	Reachable int
}

// summarize builds one row per board, in input order.
func summarize(boards []board.Board) []boardRow {
	links := board.Links(boards)
	rows := make([]boardRow, len(boards))
	for i := range boards {
		b := &boards[i]
		rows[i] = boardRow{
			ID:        b.ID,
			Name:      b.DisplayName(),
			Tiles:     len(b.Tiles),
			Fixed:     b.IsFixed,
			Links:     len(links[b.ID]),
			Reachable: len(board.Reachable(boards, b.ID)),
		}
	}
	return rows
}

func (r boardRow) cells() []string {
	layout := "free"
	if r.Fixed {
		layout = "fixed"
	}
	name := r.Name
	if name == "" {
		name = "—"
	}
	return []string{name, r.ID, strconv.Itoa(r.Tiles), layout, strconv.Itoa(r.Links), strconv.Itoa(r.Reachable)}
}

var boardHeaders = []string{"Board", "ID", "Tiles", "Grid", "Links", "Exports"}

// boardTable renders rows as a bordered table. highlight is the row index to
// emphasize, or -1.
func boardTable(rows []boardRow, highlight int, prefix func(i int) string) *table.Table {
	data := make([][]string, len(rows))
	for i, r := range rows {
		cells := r.cells()
		if prefix != nil {
			cells = append([]string{prefix(i)}, cells...)
		}
		data[i] = cells
	}
	headers := boardHeaders
	if prefix != nil {
		headers = append([]string{""}, headers...)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == highlight {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
}

// =============================================================================
// BoardListModel - Interactive root board selection
// =============================================================================

// BoardListModel is the bubbletea model for interactive root selection.
type BoardListModel struct {
	Rows     []boardRow
	Format   string
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewBoardListModel creates a new board list model.
func NewBoardListModel(boards []board.Board, format string) BoardListModel {
	return BoardListModel{
		Rows:   summarize(boards),
		Format: format,
		Height: 15,
	}
}

func (m BoardListModel) Init() tea.Cmd {
	return nil
}

func (m BoardListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Rows) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Rows[m.Cursor].ID
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BoardListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Root Board"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	visible := m.Rows[m.Offset:end]
	t := boardTable(visible, m.Cursor-m.Offset, func(i int) string {
		if m.Offset+i == m.Cursor {
			return "▸"
		}
		return " "
	})
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	exports := 1
	if m.Format != export.FormatOBF && len(m.Rows) > 0 {
		exports = m.Rows[m.Cursor].Reachable
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %s exports %d board(s)",
		m.Cursor+1, len(m.Rows), m.Format, exports)))

	return b.String()
}

// pickBoard runs the board picker on the terminal and returns the chosen
// board id, or "" when the user quit.
func pickBoard(boards []board.Board, format string) (string, error) {
	p := tea.NewProgram(NewBoardListModel(boards, format), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("board picker: %w", err)
	}
	return final.(BoardListModel).Selected, nil
}
