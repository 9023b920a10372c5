package decision

import (
	"io"

	"github.com/umkm-jabar/umkmdash-cli/internal/logging"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Decision:", PrefixColor: ui.FgYellow}

// SetLogger sets an optional destination for ranking logs.
// When set to nil, logging is disabled.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(scope string, format string, args ...any) {
	logger.Logf(scope, format, args...)
}
