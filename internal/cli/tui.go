package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/libscout/libscout/pkg/discovery"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// PackageListModel is the bubbletea model for interactive result
// selection.
type PackageListModel struct {
	Results  []discovery.PackageResult
	Cursor   int
	Selected *discovery.PackageResult
	Height   int
	Offset   int
}

// NewPackageListModel creates a package list model.
func NewPackageListModel(results []discovery.PackageResult) PackageListModel {
	return PackageListModel{
		Results: results,
		Height:  15,
	}
}

func (m PackageListModel) Init() tea.Cmd {
	return nil
}

func (m PackageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Results)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = &m.Results[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PackageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Library"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Results) {
		end = len(m.Results)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Results[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			r.Name,
			"v" + r.Version,
			fmt.Sprintf("%d", r.Stars),
			r.Category,
			formatRelativeTime(r.UpdatedAt),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Library", "Version", "Stars", "Category", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 3 {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Results))))

	return b.String()
}

// pickAndShow runs the interactive picker and prints the chosen library.
func (c *CLI) pickAndShow(ctx context.Context, svc *discovery.Service, results []discovery.PackageResult) error {
	prog := tea.NewProgram(NewPackageListModel(results), tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return fmt.Errorf("run picker: %w", err)
	}

	model, ok := final.(PackageListModel)
	if !ok || model.Selected == nil {
		return nil
	}

	printPackage(*model.Selected)
	return nil
}

// printPackage renders one library in detail.
func printPackage(r discovery.PackageResult) {
	fmt.Println()
	fmt.Println(StyleTitle.Render(r.Name) + " " + StyleDim.Render("v"+r.Version))
	if r.Description != "" {
		printDetail("%s", r.Description)
	}
	fmt.Println()
	printKeyValue("Author", r.Author)
	printKeyValue("Stars", fmt.Sprintf("%d", r.Stars))
	printKeyValue("Category", r.Category)
	printKeyValue("Updated", formatRelativeTime(r.UpdatedAt))
	printKeyValue("Repository", r.RepositoryURL)
	if r.DownloadURL != "" {
		printKeyValue("Download", r.DownloadURL)
	}
	if r.RawURL != "" {
		printKeyValue("Raw file", r.RawURL)
	}
	fmt.Println()
}
