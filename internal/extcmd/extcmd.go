// Package extcmd runs the external programs a build depends on, streaming
// their output into the context logger and keeping the last lines for error
// reports.
package extcmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/vk/regiongrid/internal/ctxlog"
)

// tailLines is how many output lines an Error keeps.
const tailLines = 20

// Invocation describes one external program run.
type Invocation struct {
	// Name labels the program in logs and errors, e.g. "renderer".
	Name string
	Args []string
	Dir  string
	Env  []string
}

// Error reports a program that could not start or exited unsuccessfully.
type Error struct {
	Name     string
	ExitCode int
	Tail     []string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s failed", e.Name)
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" with exit code %d", e.ExitCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if len(e.Tail) > 0 {
		msg += "\n" + strings.Join(e.Tail, "\n")
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Expand replaces every {key} placeholder in args with vars[key].
func Expand(args []string, vars map[string]string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		for k, v := range vars {
			a = strings.ReplaceAll(a, "{"+k+"}", v)
		}
		out[i] = a
	}
	return out
}

// Run executes the program and waits for it. There is no timeout; a
// cancelled context kills the process.
func Run(ctx context.Context, s Invocation) error {
	if len(s.Args) == 0 {
		return &Error{Name: s.Name, Err: errors.New("empty command")}
	}
	logger := ctxlog.FromContext(ctx).With("program", s.Name)

	cmd := exec.CommandContext(ctx, s.Args[0], s.Args[1:]...)
	cmd.Dir = s.Dir
	if len(s.Env) > 0 {
		cmd.Env = append(cmd.Environ(), s.Env...)
	}

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	tail := &ring{max: tailLines}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sc := bufio.NewScanner(pr)
		sc.Buffer(make([]byte, 64*1024), 1024*1024)
		for sc.Scan() {
			line := sc.Text()
			tail.add(line)
			logger.Debug(line)
		}
		_, _ = io.Copy(io.Discard, pr)
	}()

	logger.Debug("Starting external program.", "args", s.Args, "dir", s.Dir)
	err := cmd.Run()
	pw.Close()
	wg.Wait()

	if err != nil {
		e := &Error{Name: s.Name, Tail: tail.lines(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			e.ExitCode = exitErr.ExitCode()
		}
		return e
	}
	logger.Debug("External program finished.")
	return nil
}

type ring struct {
	max int
	buf []string
}

func (r *ring) add(line string) {
	r.buf = append(r.buf, line)
	if len(r.buf) > r.max {
		r.buf = r.buf[len(r.buf)-r.max:]
	}
}

func (r *ring) lines() []string {
	return append([]string(nil), r.buf...)
}
