// Package executor builds one target's site from its configuration overlay.
//
// A build is a fixed sequence of stages run in the target's own work
// directory: prepare the directories, derive the overlay, write the renderer
// configuration, run the data pipeline, run the renderer and finally replace
// the target's published directory with the fresh output. Any stage failure
// is returned as a *BuildError naming the target and the stage; the
// previously published output of that target is left untouched.
package executor
