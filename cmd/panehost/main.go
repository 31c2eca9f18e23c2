package main

import (
	"runtime"

	"github.com/bnema/panehost/internal/cli/cmd"
	"github.com/bnema/panehost/internal/domain/build"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// GTK must run on the thread that initialized it, which is the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	enableCrashForensics()

	cmd.SetBuildInfo(build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	})
	cmd.Execute()
}
