package instantiate

import "github.com/natefinch/lumberjack"

// Options configures one call to Instantiate.
type Options struct {
	// BaseEnvironment seeds the root System's environment before its own
	// declared Environment is overlaid on top. A nil map is treated as
	// empty.
	BaseEnvironment map[string]string

	// DiagnosticsLog, if set, routes every leaf's diagnostic stream into
	// the one shared file named by its Filename instead of each leaf
	// getting its own private temp file. Each leaf appends through its own
	// descriptor; only Filename is read from the Logger, so its size-based
	// rotation is not applied to these writes. Grounded on
	// pkg/cli/cmds/log.go's lumberjack setup.
	DiagnosticsLog *lumberjack.Logger
}
