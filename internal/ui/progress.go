package ui

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

// ProgressBar represents a styled progress bar used while executing the
// move plan.
type ProgressBar struct {
	progress progress.Model
	current  int
	total    int
	label    string
	mu       sync.Mutex
}

// NewProgressBar creates a new progress bar
func NewProgressBar(total int, label string) *ProgressBar {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)
	p.FullColor = string(ColorPrimary)
	p.EmptyColor = string(ColorMuted)

	return &ProgressBar{
		progress: p,
		current:  0,
		total:    total,
		label:    label,
	}
}

// Increment increments the progress
func (pb *ProgressBar) Increment() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if pb.current < pb.total {
		pb.current++
	}
}

// SetCurrent sets the current value
func (pb *ProgressBar) SetCurrent(n int) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.current = n
}

// View returns the rendered progress bar
func (pb *ProgressBar) View() string {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	percent := float64(pb.current) / float64(pb.total)
	if pb.total == 0 {
		percent = 0
	}

	bar := pb.progress.ViewAs(percent)
	countStr := CountStyle.Render(fmt.Sprintf("%d/%d", pb.current, pb.total))

	return fmt.Sprintf("%s %s %s", InfoStyle.Render(pb.label), bar, countStr)
}

// RunSpinner displays an indeterminate spinner while fn runs and returns
// fn's error. The spinner failing to start (no TTY) is not an error; fn's
// result is reported either way.
func RunSpinner(message string, fn func() error) error {
	p := tea.NewProgram(NewSpinner(message))

	done := make(chan error, 1)
	go func() {
		err := fn()
		done <- err
		p.Send(spinnerDoneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		log.Debug().Err(err).Msg("spinner unavailable, continuing without it")
	}
	return <-done
}

// SpinnerModel shows an indeterminate spinner during the scan phase.
type SpinnerModel struct {
	spinner  spinner.Model
	message  string
	done     bool
	err      error
	quitting bool
}

type spinnerDoneMsg struct{ err error }

// NewSpinner creates a new spinner with a message
func NewSpinner(message string) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSecondary)
	return SpinnerModel{
		spinner: s,
		message: message,
	}
}

func (m SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m SpinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return RenderError(m.err.Error())
		}
		return RenderSuccess(m.message)
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), InfoStyle.Render(m.message))
}
