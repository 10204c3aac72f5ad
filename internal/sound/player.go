// Package sound plays highlight-triggered sounds. Playback is fire-and-forget
// and must never block or fail the pipeline; a broken player costs a sound,
// not a line of text.
package sound

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Player is the capability the pipeline fires sound events into.
type Player interface {
	Play(path string, volume float64)
}

// CommandPlayer shells out to an external player binary (afplay, paplay,
// mpv...). Each Play spawns the command on its own goroutine and forgets it.
type CommandPlayer struct {
	// Command is the player binary. Extra placeholder args: {file} for the
	// sound path, {volume} for the 0..1 volume.
	Command string
	Args    []string
	// Dir is prepended to relative sound paths.
	Dir    string
	Logger *log.Logger
}

// NewCommandPlayer builds a player for the given command line.
func NewCommandPlayer(command string, args []string, dir string, logger *log.Logger) *CommandPlayer {
	if logger == nil {
		logger = log.Default()
	}
	return &CommandPlayer{Command: command, Args: args, Dir: dir, Logger: logger}
}

// Play starts playback in the background.
func (p *CommandPlayer) Play(path string, volume float64) {
	if p.Command == "" {
		return
	}
	cmd := exec.Command(p.Command, p.buildArgs(path, volume)...)
	go func() {
		if err := cmd.Run(); err != nil {
			p.Logger.Debug("sound playback failed", "file", path, "err", err)
		}
	}()
}

// buildArgs substitutes the placeholders into the configured argument list.
// Without a {file} placeholder the path is appended as the last argument.
func (p *CommandPlayer) buildArgs(path string, volume float64) []string {
	if p.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(p.Dir, path)
	}
	args := make([]string, 0, len(p.Args)+1)
	replaced := false
	for _, a := range p.Args {
		switch a {
		case "{file}":
			args = append(args, path)
			replaced = true
		case "{volume}":
			args = append(args, fmt.Sprintf("%g", volume))
		default:
			args = append(args, a)
		}
	}
	if !replaced {
		args = append(args, path)
	}
	return args
}

// Nop discards all sound events. Used when no player is configured.
type Nop struct{}

// Play implements Player.
func (Nop) Play(string, float64) {}
