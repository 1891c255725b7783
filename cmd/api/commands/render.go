package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/taskmaster/todoboard/internal/domain/entities"
	"github.com/taskmaster/todoboard/internal/infrastructure/config"
	"github.com/taskmaster/todoboard/internal/ports"
)

// Palette is the terminal color scheme for one UI theme
type Palette struct {
	Header lipgloss.Color
	Border lipgloss.Color
	Muted  lipgloss.Color
	Status map[entities.Status]lipgloss.Color
}

var (
	lightPalette = Palette{
		Header: lipgloss.Color("#101F38"),
		Border: lipgloss.Color("#dce0e5"),
		Muted:  lipgloss.Color("#6b7280"),
		Status: map[entities.Status]lipgloss.Color{
			entities.StatusTodo:       lipgloss.Color("#616161"),
			entities.StatusInProgress: lipgloss.Color("#1976d2"),
			entities.StatusDone:       lipgloss.Color("#2e7d32"),
			entities.StatusCancelled:  lipgloss.Color("#d32f2f"),
		},
	}

	darkPalette = Palette{
		Header: lipgloss.Color("#f2f2f2"),
		Border: lipgloss.Color("#2a3850"),
		Muted:  lipgloss.Color("#9ca3af"),
		Status: map[entities.Status]lipgloss.Color{
			entities.StatusTodo:       lipgloss.Color("#bdbdbd"),
			entities.StatusInProgress: lipgloss.Color("#90caf9"),
			entities.StatusDone:       lipgloss.Color("#8BC34A"),
			entities.StatusCancelled:  lipgloss.Color("#e57373"),
		},
	}
)

// PaletteFor picks the palette matching the configured theme
func PaletteFor(ui config.UIConfig) Palette {
	if ui.IsDark() {
		return darkPalette
	}
	return lightPalette
}

const timeLayout = "Jan 2, 2006 15:04"

// formatDeadline mirrors how list items show a missing deadline.
func formatDeadline(t *time.Time) string {
	if t == nil {
		return "No deadline"
	}
	return t.Local().Format(timeLayout)
}

// renderTodos writes views as a bordered table followed by a count line.
func renderTodos(w io.Writer, views []ports.TodoView, p Palette) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Foreground(p.Header).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	overdue := cell.Foreground(p.Status[entities.StatusCancelled]).Bold(true)

	rows := make([][]string, 0, len(views))
	for _, v := range views {
		deadline := formatDeadline(v.Deadline)
		if v.IsOverdue {
			deadline += " (overdue)"
		}
		rows = append(rows, []string{
			strconv.FormatInt(v.ID, 10),
			v.StatusLabel,
			v.Name,
			v.AuthorName,
			v.AssigneeName,
			deadline,
			v.CreatedAt.Local().Format(timeLayout),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(p.Border)).
		Headers("ID", "STATUS", "NAME", "AUTHOR", "ASSIGNEE", "DEADLINE", "CREATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			v := views[row]
			switch col {
			case 1:
				return cell.Foreground(p.Status[v.Status])
			case 5:
				if v.IsOverdue {
					return overdue
				}
			}
			return cell
		})

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, r.NewStyle().Foreground(p.Muted).Render(fmt.Sprintf("%d todo(s)", len(views))))
	return err
}

// renderUsers writes the directory as a bordered table.
func renderUsers(w io.Writer, users []entities.User, p Palette) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Foreground(p.Header).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(users))
	for i := range users {
		rows = append(rows, []string{
			strconv.FormatInt(users[i].ID, 10),
			users[i].FullName(),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(p.Border)).
		Headers("ID", "NAME").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	_, err := fmt.Fprintln(w, t.String())
	return err
}
