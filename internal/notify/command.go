package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
)

// Command speaks by running a text-to-speech program such as espeak or say,
// passing the text as the last argument. It never waits for the program:
// a new utterance kills the one still playing.
type Command struct {
	name string
	args []string

	mu      sync.Mutex
	current *exec.Cmd
	done    chan struct{}
}

// NewCommand creates a command speaker.
func NewCommand(name string, args ...string) *Command {
	return &Command{name: name, args: args}
}

// Speak starts the program and returns once it is running.
func (c *Command) Speak(_ context.Context, text string) error {
	if c.name == "" {
		return errors.New("no speech command configured")
	}
	path, err := exec.LookPath(c.name)
	if err != nil {
		return fmt.Errorf("finding speech command: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		select {
		case <-c.done:
		default:
			_ = c.current.Process.Kill()
		}
	}

	args := append(append([]string{}, c.args...), text)
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting speech command: %w", err)
	}
	done := make(chan struct{})
	c.current, c.done = cmd, done
	go func() {
		_ = cmd.Wait()
		close(done)
	}()
	return nil
}
