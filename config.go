package spindle

import (
	"os"
	"path"
)

// RootPath stores the directory channel files are created in. It defaults
// to a spindle subdirectory of the system temp directory and can be
// overridden with the SPINDLE_DIR environment variable.
var RootPath string

// initConfig initializes the config constants
func initConfig() {
	rootPath, ok := os.LookupEnv("SPINDLE_DIR")
	if !ok {
		rootPath = path.Join(os.TempDir(), "spindle")
	}
	RootPath = rootPath
}
