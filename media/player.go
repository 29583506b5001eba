package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Player renders an audio file through the host's audio output.
type Player interface {
	Play(ctx context.Context, path string) error
}

// CommandPlayer plays a file by running an external player with the file
// path as its last argument.
type CommandPlayer struct {
	Command []string
}

// DefaultPlayerCommand picks a player for the current OS.
func DefaultPlayerCommand() []string {
	if runtime.GOOS == "darwin" {
		return []string{"afplay"}
	}
	return []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"}
}

func (p *CommandPlayer) Play(ctx context.Context, path string) error {
	command := p.Command
	if len(command) == 0 {
		command = DefaultPlayerCommand()
	}
	cmd := exec.CommandContext(ctx, command[0], append(command[1:], path)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("could not play audio: %s exited with %d: %s", command[0], exitErr.ExitCode(), strings.TrimSpace(string(out)))
		}
		return fmt.Errorf("could not play audio: %w", err)
	}
	return nil
}
