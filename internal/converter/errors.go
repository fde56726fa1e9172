package converter

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/excel-translation-tool/internal/types"
)

// Fatal error kinds. Everything else is reported as a diagnostic.
var (
	// ErrIO means an input could not be read or the output could not be
	// written.
	ErrIO = errors.New("i/o failure")

	// ErrStructure means a table is not shaped the way the pipeline needs.
	ErrStructure = errors.New("invalid table structure")
)

// StageOutput names the write step in fatal errors.
const StageOutput types.Stage = "output"

// FatalError aborts a run. It matches both its Kind and the wrapped cause
// with errors.Is.
type FatalError struct {
	Stage types.Stage
	Path  string
	Kind  error
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s file '%s': %v", e.Stage, e.Path, e.Err)
}

func (e *FatalError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
