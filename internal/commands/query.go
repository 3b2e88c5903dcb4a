package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"

	"github.com/maduarte/chatdeck/internal/api"
	"github.com/maduarte/chatdeck/internal/config"
	apierrors "github.com/maduarte/chatdeck/internal/errors"
	"github.com/maduarte/chatdeck/internal/render"
)

var (
	colorText    = lipgloss.Color("#c0caf5")
	colorTextDim = lipgloss.Color("#565f89")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorHeading = lipgloss.Color("#7aa2f7")
	colorFailure = lipgloss.Color("#f7768e")
)

var (
	answerLabelStyle = lipgloss.NewStyle().
				Foreground(colorHeading).
				Bold(true)

	answerBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorHeading).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

// spinner is a minimal stderr progress indicator for one-shot queries.
type spinner struct {
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	stopped bool
}

func newSpinner(message string) *spinner {
	return &spinner{
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(os.Stderr, "\033[?25l")
		frame := 0
		for {
			select {
			case <-s.stop:
				fmt.Fprint(os.Stderr, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				char := lipgloss.NewStyle().Foreground(colorHeading).Render(chars[frame%len(chars)])
				msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
				fmt.Fprintf(os.Stderr, "\r\033[K%s %s", char, msg)
				frame++
			}
		}
	}()
}

func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	check := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(os.Stderr, "%s %s\n", check, msg)
}

func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery sends a single prompt and writes the response to stdout.
// When rawOutput is true only the response text is printed.
func runQuery(prompt string, rawOutput bool) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := context.Background()

	var spin *spinner
	if !rawOutput {
		spin = newSpinner("Opening session")
		spin.start()
	}

	session, err := resolveSession(ctx, client)
	if err != nil {
		if !rawOutput {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to open a session"))
		}
		return fmt.Errorf("failed to open a session: %w", err)
	}
	if !rawOutput {
		spin.stopWithSuccess(fmt.Sprintf("Session: %s", session.Title))
	}

	var text string
	if noStreamFlag {
		text, err = queryBlocking(ctx, client, session.ID, prompt, rawOutput)
	} else {
		text, err = queryStreaming(ctx, client, session.ID, prompt, rawOutput)
	}
	if err != nil {
		return err
	}

	return writeResponse(cfg, text, rawOutput)
}

// queryBlocking waits for the complete response.
func queryBlocking(ctx context.Context, client *api.Client, sessionID, prompt string, rawOutput bool) (string, error) {
	var spin *spinner
	if !rawOutput {
		spin = newSpinner("Generating response")
		spin.start()
	}

	text, err := client.SendMessage(ctx, sessionID, prompt)
	if err != nil {
		if !rawOutput {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Generation failed"))
		}
		return "", fmt.Errorf("generation failed: %w", err)
	}
	if !rawOutput {
		spin.stopWithSuccess("Done")
	}
	return text, nil
}

// queryStreaming prints deltas as they arrive and returns the full text.
// A failure after partial content keeps the partial text, matching the
// interactive client.
func queryStreaming(ctx context.Context, client *api.Client, sessionID, prompt string, rawOutput bool) (string, error) {
	var spin *spinner
	if !rawOutput {
		spin = newSpinner("Generating response")
		spin.start()
	}

	stream, err := client.OpenStream(ctx, sessionID, prompt)
	if err != nil {
		if !rawOutput {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Generation failed"))
		}
		return "", fmt.Errorf("generation failed: %w", err)
	}
	defer stream.Close()

	echo := rawOutput && outputFlag == ""

	var sb strings.Builder
	for {
		delta, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if sb.Len() > 0 {
				// Keep the partial response, note the break on stderr.
				if !rawOutput {
					spin.stopWithError()
				}
				fmt.Fprintln(os.Stderr)
				fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Stream interrupted"))
				return sb.String(), nil
			}
			if !rawOutput {
				spin.stopWithError()
				fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Generation failed"))
			}
			return "", fmt.Errorf("generation failed: %w", err)
		}
		sb.WriteString(delta)
		if echo {
			fmt.Print(delta)
		}
	}

	if !rawOutput {
		spin.stopWithSuccess("Done")
	}
	if echo && sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
		fmt.Println()
	}
	return sb.String(), nil
}

// writeResponse delivers the final text to the configured destination.
func writeResponse(cfg config.Config, text string, rawOutput bool) error {
	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !rawOutput {
			msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Response saved to %s", outputFlag))
			fmt.Fprintln(os.Stderr, msg)
		}
		return nil
	}

	if rawOutput {
		// Streaming already echoed the text.
		if noStreamFlag {
			fmt.Print(text)
		}
		return nil
	}

	if cfg.CopyToClipboard {
		if err := clipboard.WriteAll(text); err != nil {
			warn := lipgloss.NewStyle().Foreground(colorFailure).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err))
			fmt.Fprintln(os.Stderr, warn)
		} else {
			msg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(os.Stderr, msg)
		}
	}

	termWidth := getTerminalWidth()
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Println(answerLabelStyle.Render("◆ Assistant"))

	opts := render.OptionsFromConfig(cfg.Markdown).WithWidth(contentWidth)
	rendered, err := render.Markdown(text, opts)
	if err != nil {
		rendered = text
	}
	rendered = strings.TrimRight(rendered, "\n")

	fmt.Println(answerBubbleStyle.Width(bubbleWidth).Render(rendered))
	return nil
}

// formatErrorMessage formats an error with context from structured errors.
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorFailure)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	switch {
	case apierrors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Run 'chatdeck login' to refresh your session"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The response timed out. Try again or raise stream_timeout in your config"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your connection to the server"))
	}

	return sb.String()
}
