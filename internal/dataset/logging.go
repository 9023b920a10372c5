package dataset

import (
	"io"

	"github.com/umkm-jabar/umkmdash-cli/internal/logging"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Dataset:", PrefixColor: ui.FgCyan}

// SetLogger sets an optional destination for dataset loading logs.
// When set to nil, logging is disabled.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(scope string, format string, args ...any) {
	logger.Logf(scope, format, args...)
}
