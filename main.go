package main

import (
	"context"
	"errors"
	"io"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"

	cmd "github.com/umkm-jabar/umkmdash-cli/cmd/umkmdash"
	"github.com/umkm-jabar/umkmdash-cli/internal/apperr"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

// Set at build time with -ldflags "-X main.Version=... -X main.Commit=...".
var (
	Version = "dev"
	Commit  = ""
)

func main() {
	cmd.SetVersion(Version)
	err := fang.Execute(
		context.Background(),
		cmd.GetRootCmd(),
		fang.WithVersion(Version),
		fang.WithCommit(Commit),
		fang.WithColorSchemeFunc(ui.FangColorScheme),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
		fang.WithErrorHandler(handleError),
	)
	if err == nil || errors.Is(err, apperr.ErrCancelled) {
		return
	}
	os.Exit(1)
}

// handleError prints nothing for a cancelled prompt or browser.
func handleError(w io.Writer, styles fang.Styles, err error) {
	if errors.Is(err, apperr.ErrCancelled) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
