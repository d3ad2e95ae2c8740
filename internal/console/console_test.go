package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrinter(t *testing.T) {
	assert := require.New(t)

	buf := new(bytes.Buffer)

	printer := NewPrinter(buf)

	// Test Info
	printer.Info("ℹ️", "This is an info message: %s", "test")

	assert.Contains(buf.String(), "ℹ️ This is an info message: test")

	buf = new(bytes.Buffer)

	printer = NewPrinter(buf)

	// Test Error
	printer.Error("❌", "This is an error message: %s", "test")

	assert.Contains(buf.String(), "❌ This is an error message: test")

	buf = new(bytes.Buffer)

	printer = NewPrinter(buf)

	// No emoji prefix
	printer.Info("", "plain line")

	assert.Contains(buf.String(), "plain line")
}
