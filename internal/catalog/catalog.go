// Package catalog describes the entrepreneurship programs and the projects
// enrolled in them. Implementations live in subpackages.
package catalog

import (
	"context"
	"errors"
	"strings"
)

// ErrUnexpectedStatus is wrapped by backends that got a reply they cannot interpret.
var ErrUnexpectedStatus = errors.New("catalog: unexpected response status")

type Program struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Project struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
	// CurrentStage is the name of the program the project is enrolled in.
	CurrentStage string `json:"currentStage"`
}

// Catalog reads program and project records. A missing record is reported as
// a nil result with a nil error.
type Catalog interface {
	ProgramByName(ctx context.Context, name string) (*Program, error)
	ProjectsByStage(ctx context.Context, stage string) ([]Project, error)
	ProjectByName(ctx context.Context, name string) (*Project, error)
}

const programPrefix = "Tec Lean "

// StageFromProgram maps a spoken program name ("Tec Lean Discover") to the
// stage key the data API stores ("Discover").
func StageFromProgram(program string) string {
	return strings.Replace(program, programPrefix, "", 1)
}
