// =============================================================================
// Excel Translation Tool - Main Entry Point
// =============================================================================
//
// USAGE:
//   translator process   - Translate the source workbook
//   translator validate  - Check the inputs without writing output
//   translator history   - List earlier runs
//   translator version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Core translation, validation and I/O logic
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/excel-translation-tool/cmd"
)

func main() {
	cmd.Execute()
}
