package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/focusflow/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// request tracks one in-flight assistant call so it can be cancelled and so
// a second submit is ignored while it runs
type request struct {
	cancel context.CancelFunc
	seq    int
}

// begin starts a new call and returns its context and sequence number
func (r *request) begin() (context.Context, int) {
	r.stop()
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.seq++
	return ctx, r.seq
}

// stop cancels the call in flight, if any
func (r *request) stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// loading reports whether a call is in flight
func (r *request) loading() bool { return r.cancel != nil }

// finish accepts the result for seq. Results of cancelled or superseded
// calls are rejected.
func (r *request) finish(seq int) bool {
	if r.cancel == nil || seq != r.seq {
		return false
	}
	r.cancel()
	r.cancel = nil
	return true
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func newSpinner() spinner.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(styles.Current.Accent)
	return sp
}

// helpLine renders "key desc • key desc" pairs
func helpLine(s *styles.Styles, pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.HelpKey.Render(pairs[i])+" "+s.HelpDesc.Render(pairs[i+1]))
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

// renderAlert draws a blocking message centered in the content area
func renderAlert(s *styles.Styles, text string, width, height int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Alert.Render(text),
		"",
		s.TitleMuted.Render("Press any key to continue"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
