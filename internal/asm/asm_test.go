package asm_test

import (
	"io"
	"testing"

	"github.com/sicxe/assembler/internal/log"
)

// testLogger returns a logger that discards output; tests care about return values and error
// slices, not log formatting.
func testLogger(t *testing.T) *log.Logger {
	t.Helper()
	return log.NewFormattedLogger(io.Discard)
}
