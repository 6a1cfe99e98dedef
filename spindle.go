// Package spindle is an allocation-minimized toolkit for working with
// shared memory as structured byte buffers: direct buffers with typed,
// bounds-checked access, an ASCII numeric codec that encodes and parses
// decimals in place, and a single-transmitter broadcast stream that fans
// variable-length messages out to any number of receivers without locks.
//
// The subpackages carry the machinery (bytebuf, ascii, broadcast, bitutil,
// collections); this package ties them to the filesystem with Channel, a
// named broadcast stream over a memory-mapped file that cooperating
// processes can map and poll.
package spindle

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is the last tagged version of the package
const Version = "1.0.0"

var logging bool
var logWriters = []zapcore.WriteSyncer{os.Stdout}
var logger *zap.Logger
var zapEncoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "level",
	NameKey:        "logger",
	CallerKey:      "caller",
	MessageKey:     "msg",
	StacktraceKey:  "stacktrace",
	EncodeLevel:    zapcore.LowercaseLevelEncoder,
	EncodeTime:     zapcore.ISO8601TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
}

func initLogging() {
	logging = false
	initializeLogger()
}

// EnableLogging enables lifecycle logging if true is passed
// and disables it if false is passed.
func EnableLogging(enable bool) {
	logging = enable
}

// AddLogWriter adds a new io.Writer as a target for writing
// logs.
func AddLogWriter(writer io.Writer) {
	logWriters = append(logWriters, zapcore.AddSync(writer))
	initializeLogger()
}

// SetLogWriters will set the passed io.Writer instances as targets for
// writing logs.
func SetLogWriters(writers ...io.Writer) {
	writesyncers := make([]zapcore.WriteSyncer, 0, len(writers))
	for _, w := range writers {
		writesyncers = append(writesyncers, zapcore.AddSync(w))
	}

	logWriters = writesyncers
	initializeLogger()
}

func initializeLogger() {
	ws := zap.CombineWriteSyncers(logWriters...)
	logger = zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zapEncoderConfig),
		ws, zapcore.InfoLevel,
	))
}

// hash generates a unique id for a string of the specified bit length
// NOTE: make sure this is as fast as possible
func hash(s string, b uint32) uint64 {
	val := xxhash.Sum64String(s)
	if b == 0 {
		return val
	}

	return val & ((1 << b) - 1)
}

// init maintains a central location of all things that happen when the
// package is initialized instead of everything being scattered in multiple
// source files
func init() {
	initLogging()
	initConfig()
}
