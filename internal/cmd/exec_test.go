package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/raphi011/pre-commit-vauxoo/internal/log"
)

func logCtx() context.Context {
	l := log.New(&bytes.Buffer{}, false, false)
	return log.WithLogger(context.Background(), l)
}

func TestRunContext_Success(t *testing.T) {
	t.Parallel()
	err := RunContext(logCtx(), "", "echo", "hello")
	if err != nil {
		t.Errorf("RunContext(echo hello) = %v, want nil", err)
	}
}

func TestRunContext_Failure(t *testing.T) {
	t.Parallel()
	err := RunContext(logCtx(), "", "sh", "-c", "exit 1")
	if err == nil {
		t.Error("RunContext(exit 1) = nil, want error")
	}
}

func TestRunContext_StderrMessage(t *testing.T) {
	t.Parallel()
	err := RunContext(logCtx(), "", "sh", "-c", "echo 'bad thing' >&2; exit 1")
	if err == nil {
		t.Fatal("RunContext = nil, want error")
	}
	if err.Error() != "bad thing" {
		t.Errorf("RunContext error = %q, want %q", err.Error(), "bad thing")
	}
}

func TestRunContext_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(logCtx())
	cancel()
	err := RunContext(ctx, "", "sleep", "10")
	if err != context.Canceled {
		t.Errorf("RunContext error = %v, want context.Canceled", err)
	}
}

func TestOutputContext_Success(t *testing.T) {
	t.Parallel()
	out, err := OutputContext(logCtx(), "", "echo", "hello")
	if err != nil {
		t.Fatalf("OutputContext(echo hello) = %v, want nil", err)
	}
	if got := string(out); got != "hello\n" {
		t.Errorf("OutputContext output = %q, want %q", got, "hello\n")
	}
}

func TestOutputContext_Dir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out, err := OutputContext(logCtx(), dir, "sh", "-c", "ls -a | grep -c .")
	if err != nil {
		t.Fatalf("OutputContext with dir = %v, want nil", err)
	}
	if len(out) == 0 {
		t.Error("OutputContext with dir returned no output")
	}
}

func TestStatusContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		script     string
		wantStatus int
		wantOut    string
	}{
		{name: "success", script: "echo ok", wantStatus: 0, wantOut: "ok\n"},
		{name: "exit 1", script: "exit 1", wantStatus: 1},
		{name: "exit 3", script: "echo partial; exit 3", wantStatus: 3, wantOut: "partial\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var stdout, stderr bytes.Buffer
			status, err := StatusContext(logCtx(), "", &stdout, &stderr, "sh", "-c", tt.script)
			if err != nil {
				t.Fatalf("StatusContext = %v, want nil", err)
			}
			if status != tt.wantStatus {
				t.Errorf("StatusContext status = %d, want %d", status, tt.wantStatus)
			}
			if stdout.String() != tt.wantOut {
				t.Errorf("StatusContext stdout = %q, want %q", stdout.String(), tt.wantOut)
			}
		})
	}
}

func TestStatusContext_MissingExecutable(t *testing.T) {
	t.Parallel()
	_, err := StatusContext(logCtx(), "", &bytes.Buffer{}, &bytes.Buffer{}, "definitely-not-a-real-binary-xyz")
	if err == nil {
		t.Error("StatusContext(missing binary) = nil, want error")
	}
}

func TestStatusInputContext(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	status, err := StatusInputContext(logCtx(), "", strings.NewReader("select 1;\n"), &stdout, &stderr, "sh", "-c", "cat; echo warn >&2; exit 2")
	if err != nil {
		t.Fatalf("StatusInputContext = %v, want nil", err)
	}
	if status != 2 {
		t.Errorf("StatusInputContext status = %d, want 2", status)
	}
	if stdout.String() != "select 1;\n" {
		t.Errorf("StatusInputContext stdout = %q, want stdin echoed", stdout.String())
	}
	if stderr.String() != "warn\n" {
		t.Errorf("StatusInputContext stderr = %q, want %q", stderr.String(), "warn\n")
	}
}

func TestCommandLoggedWhenVerbose(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, true, false))
	if err := RunContext(ctx, "", "true"); err != nil {
		t.Fatalf("RunContext(true) = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("$ true")) {
		t.Errorf("verbose log = %q, want command line", buf.String())
	}
}
