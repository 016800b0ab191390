package workflow

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rileyhilliard/gitstrap/internal/errors"
	"github.com/rileyhilliard/gitstrap/internal/ui"
)

// Gate blocks until the operator confirms the public key is uploaded to the
// hosting provider. Returning an error aborts the workflow. Cancelling the
// context (SIGINT) releases the wait.
type Gate func(ctx context.Context, pubKey string) error

// InteractiveGate prints the public key and waits for confirmation.
// On a terminal it uses a confirm prompt; otherwise it blocks on a newline
// from stdin. Either way the wait is indefinite unless ctx is cancelled.
func InteractiveGate(out io.Writer) Gate {
	return func(ctx context.Context, pubKey string) error {
		keyStyle := lipgloss.NewStyle().Foreground(ui.ColorInfo)

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Add this public key to your hosting provider (Settings → SSH keys):")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  %s\n", keyStyle.Render(pubKey))
		fmt.Fprintln(out)

		if term.IsTerminal(int(os.Stdin.Fd())) {
			var uploaded bool
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title("Have you added the key?").
						Affirmative("Yes, continue").
						Negative("Abort").
						Value(&uploaded),
				),
			)

			if err := form.RunWithContext(ctx); err != nil {
				return errors.WrapWithCode(err, errors.ErrSSH,
					"Failed to get operator confirmation",
					"")
			}

			if !uploaded {
				return errors.New(errors.ErrSSH,
					"Onboarding aborted before verification",
					"Upload the key and re-run gitstrap")
			}
			return nil
		}

		fmt.Fprint(out, "Press Enter once the key is uploaded... ")
		done := make(chan error, 1)
		go func() {
			_, err := bufio.NewReader(os.Stdin).ReadString('\n')
			done <- err
		}()

		select {
		case <-ctx.Done():
			return errors.WrapWithCode(ctx.Err(), errors.ErrSSH,
				"Interrupted while waiting for confirmation",
				"Upload the key and re-run gitstrap")
		case err := <-done:
			if err != nil {
				return errors.WrapWithCode(err, errors.ErrSSH,
					"Stdin closed while waiting for confirmation",
					"Run interactively, or set gate.skip once the key is uploaded")
			}
			return nil
		}
	}
}
