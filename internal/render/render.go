// Package render invokes the static-site renderer inside a target's work
// directory.
package render

import (
	"context"

	"github.com/vk/regiongrid/internal/ctxlog"
	"github.com/vk/regiongrid/internal/extcmd"
)

// Command runs the renderer as an external program with the work directory
// as its current directory, e.g. `bundle exec jekyll build`.
type Command struct {
	Args []string
}

// New creates a renderer invoking args. Args may reference {work_dir}.
func New(args []string) *Command {
	return &Command{Args: append([]string(nil), args...)}
}

// Render builds the site found in workDir. A non-zero exit is an error.
func (c *Command) Render(ctx context.Context, workDir string) error {
	args := extcmd.Expand(c.Args, map[string]string{"work_dir": workDir})
	if err := extcmd.Run(ctx, extcmd.Invocation{Name: "renderer", Args: args, Dir: workDir}); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Renderer finished.", "work_dir", workDir)
	return nil
}
