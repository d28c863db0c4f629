package cli

import (
	"fmt"
	"strings"
)

// Pipeline tasks a run may execute. Only coarse generation creates a scene
// from nothing; every other task continues an existing one.
const (
	TaskCoarse      = "coarse"
	TaskPopulate    = "populate"
	TaskFineTerrain = "fine_terrain"
	TaskRender      = "render"
	TaskGroundTruth = "ground_truth"
	TaskMeshSave    = "mesh_save"
	TaskExport      = "export"
)

// Tasks lists every task name in pipeline order.
var Tasks = []string{
	TaskCoarse, TaskPopulate, TaskFineTerrain, TaskRender,
	TaskGroundTruth, TaskMeshSave, TaskExport,
}

// UnknownTaskError is returned for a task name not in Tasks.
type UnknownTaskError struct {
	Task string
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("unknown task %q (valid: %s)", e.Task, strings.Join(Tasks, ", "))
}

// freshGeneration reports whether tasks start a new scene: no tasks at all
// means the whole pipeline, otherwise coarse must be among them.
func freshGeneration(tasks []string) (bool, error) {
	if len(tasks) == 0 {
		return true, nil
	}
	fresh := false
	for _, task := range tasks {
		known := false
		for _, t := range Tasks {
			if task == t {
				known = true
				break
			}
		}
		if !known {
			return false, &UnknownTaskError{Task: task}
		}
		if task == TaskCoarse {
			fresh = true
		}
	}
	return fresh, nil
}
