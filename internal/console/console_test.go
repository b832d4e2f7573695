package console

import (
	"bytes"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestLoggerStreams(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name    string
		quiet   bool
		verbose bool
		wantOut string
		wantErr string
	}{
		{
			name:    "default",
			wantOut: "INFO: starting 2\nSUCCESS: done\n",
			wantErr: "WARN: skipped x\nERROR: dnslookup error: b.invalid\n",
		},
		{
			name:    "verbose",
			verbose: true,
			wantOut: "INFO: starting 2\nSUCCESS: done\nDEBUG: worker 1\n",
			wantErr: "WARN: skipped x\nERROR: dnslookup error: b.invalid\n",
		},
		{
			name:    "quiet keeps diagnostics",
			quiet:   true,
			verbose: true,
			wantOut: "",
			wantErr: "WARN: skipped x\nERROR: dnslookup error: b.invalid\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errw bytes.Buffer
			l := New(&out, &errw, tt.quiet, tt.verbose)

			l.Info("starting %d", 2)
			l.Success("done")
			l.Debug("worker %d", 1)
			l.Warn("skipped %s", "x")
			l.Error("dnslookup error: %s", "b.invalid")

			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantErr, errw.String())
			assert.Equal(t, tt.quiet, l.Quiet())
		})
	}
}

func TestDefaultUsesStandardStreams(t *testing.T) {
	l := Default(true, false)
	assert.Equal(t, os.Stdout, l.out)
	assert.Equal(t, os.Stderr, l.err)
	assert.True(t, l.Quiet())
}
