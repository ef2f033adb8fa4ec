package cmd

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/chrisuehlinger/tinyrender/config"
	"github.com/chrisuehlinger/tinyrender/observability"
)

// resetForTest clears package state and silences the global logger so that
// commands under test do not write log lines.
func resetForTest(t *testing.T) {
	t.Helper()
	cfgFile = ""
	observability.ResetForTest()
	observability.Initialize(config.LoggerConfig{Level: "fatal", Format: "json"}, zapcore.AddSync(io.Discard))
	t.Cleanup(observability.ResetForTest)
}

// runCmd executes a fresh root command with args and returns its output.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetForTest(t)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func findCmd(root *cobra.Command, name string) *cobra.Command {
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
