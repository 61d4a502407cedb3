// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/divvyplan/pkg/constants"
)

// OutputFormats lists the report formats the CLI can render.
var OutputFormats = []string{
	constants.OutputFormatPretty,
	constants.OutputFormatJSON,
	constants.OutputFormatYAML,
	constants.OutputFormatPDF,
}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	for _, f := range OutputFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("expected output format of %s, got %s", strings.Join(OutputFormats, ", "), format)
}
