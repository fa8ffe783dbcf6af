// Package cmd provides helpers for executing external commands with proper error handling.
//
// This package wraps [os/exec.Cmd] to capture stderr and include it in error
// messages, making command failures more informative for users. Every call is
// reported to the context logger so --verbose shows what was executed.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repoRoot, "git", "status"); err != nil {
//	    // err contains stderr output if available
//	    return fmt.Errorf("git failed: %w", err)
//	}
//
//	// For commands that return output:
//	out, err := cmd.OutputContext(ctx, repoRoot, "git", "ls-files")
//
//	// For commands whose exit status is data (hook runs):
//	status, err := cmd.StatusContext(ctx, repoRoot, os.Stdout, os.Stderr, "pre-commit", "run")
//
//	// Feeding stdin (ecpg syntax checks):
//	status, err := cmd.StatusInputContext(ctx, "", strings.NewReader(sql), &out, &errOut, "ecpg", "-o", "-", "-")
//
// # Design Notes
//
// git and pre-commit are executed as CLIs rather than through libraries so the
// user's own installation and configuration are honoured.
package cmd
