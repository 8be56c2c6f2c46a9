package play

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gigurra/guesstune/cmd/celebrate"
	"github.com/gigurra/guesstune/cmd/quiz/game"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))  // Green
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // Bright red
	feedbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")) // Yellow
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

const confettiRows = 4

func (m *model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	st := m.game.Snapshot()

	var b strings.Builder
	header := fmt.Sprintf("%s  %s", titleStyle.Render("guesstune"), headerStyle.Render(m.artist))
	if st.PoolSize > 0 {
		header += dimStyle.Render(fmt.Sprintf(" · %d tracks", st.PoolSize))
	}
	b.WriteString(header + "\n")

	if m.burst.Active(m.now()) {
		b.WriteString(renderConfetti(m.burst.Frame(m.now(), width, confettiRows), width, confettiRows))
	} else {
		b.WriteString(strings.Repeat("\n", confettiRows))
	}

	switch {
	case m.loading && st.Phase == game.Idle:
		b.WriteString(dimStyle.Render("Loading tracks...") + "\n")
	case st.Phase == game.Idle:
		b.WriteString(dimStyle.Render("No tracks loaded. Press ctrl+a to pick another artist.") + "\n")
	default:
		b.WriteString(m.renderRound(st, width))
	}

	b.WriteString("\n" + m.input.View() + "\n")
	if st.Feedback != "" {
		b.WriteString(feedbackStyle.Render(truncate(st.Feedback, width)) + "\n")
	}
	if m.status != "" {
		b.WriteString(dimStyle.Render(m.status) + "\n")
	}

	if len(st.Guesses) > 0 {
		b.WriteString("\n" + headerStyle.Render("Guesses") + "\n")
		for _, g := range st.Guesses {
			mark, style := "✗", wrongStyle
			if g.Correct {
				mark, style = "✓", correctStyle
			}
			line := fmt.Sprintf("  %s %s", mark, truncate(g.Text, width-14))
			b.WriteString(style.Render(line) + dimStyle.Render(fmt.Sprintf("  %ss", seconds(g.Snippet.Seconds()))) + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render(m.helpLine()) + "\n")
	return b.String()
}

func (m *model) renderRound(st game.State, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Snippet %d/%d · %ss   Attempts left %d   Hints %d   Vol %d%%\n",
		st.EscalationIndex+1, len(st.Durations), seconds(st.Snippet.Seconds()),
		st.AttemptsLeft, st.HintsUsed, int(st.Volume*100+0.5))

	icon := "■"
	if st.Playing {
		icon = "▶"
	}
	clock := fmt.Sprintf(" %s / %s", formatClock(st.Progress), formatClock(st.Snippet))
	barWidth := min(40, max(10, width-runewidth.StringWidth(clock)-4))
	b.WriteString(icon + " " + barStyle.Render(progressBar(st.Progress, st.Snippet, barWidth)) + clock + "\n")

	switch {
	case m.audioErr != nil:
		b.WriteString(wrongStyle.Render(truncate("Audio unavailable: "+m.audioErr.Error(), width)) + "\n")
	case m.audio == nil:
		b.WriteString(dimStyle.Render("Loading preview...") + "\n")
	}

	if st.Phase == game.Ended && st.Song != nil && st.Song.Cover != "" {
		b.WriteString(dimStyle.Render(truncate("Cover: "+st.Song.Cover, width)) + "\n")
	}
	return b.String()
}

func (m *model) helpLine() string {
	if m.mode == modeArtist {
		return "enter: load artist  esc: cancel"
	}
	return "enter: guess  ctrl+p: play  ctrl+g: hint  ctrl+n: skip  ctrl+x: stop  pgup/pgdn: volume  ctrl+y: copy answer  ctrl+a: artist  esc: quit"
}

// renderConfetti lays sprites out on a rows x width grid, respecting the
// double width of most emoji.
func renderConfetti(sprites []celebrate.Sprite, width, rows int) string {
	grid := make([][]celebrate.Sprite, rows)
	for _, s := range sprites {
		if s.Y >= 0 && s.Y < rows {
			grid[s.Y] = append(grid[s.Y], s)
		}
	}

	var b strings.Builder
	for _, row := range grid {
		col := 0
		for _, s := range sortByX(row) {
			if s.X < col {
				continue
			}
			w := runewidth.StringWidth(s.Emoji)
			if s.X+w > width {
				break
			}
			b.WriteString(strings.Repeat(" ", s.X-col))
			b.WriteString(s.Emoji)
			col = s.X + w
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sortByX(row []celebrate.Sprite) []celebrate.Sprite {
	out := slices.Clone(row)
	slices.SortStableFunc(out, func(a, b celebrate.Sprite) int { return cmp.Compare(a.X, b.X) })
	return out
}

func seconds(s float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", s), "0"), ".")
}
