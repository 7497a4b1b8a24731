package executor

import (
	"fmt"

	"github.com/vk/regiongrid/internal/model"
)

// Stage names one step of a target build.
type Stage string

const (
	StagePrepare      Stage = "prepare"
	StageOverlay      Stage = "overlay"
	StageWriteConfig  Stage = "write_config"
	StagePipeline     Stage = "pipeline"
	StageRender       Stage = "render"
	StagePublishLocal Stage = "publish_local"
)

// BuildError reports that one target failed. It never aborts a run.
type BuildError struct {
	Target model.Target
	Stage  Stage
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s failed at %s: %v", e.Target, e.Stage, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
