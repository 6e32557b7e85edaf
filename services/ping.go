package services

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const (
	commandTimeout = 4 * time.Second
	outputCap      = 4000
)

// PingArgs builds the argument vector for a single-packet reachability probe.
func PingArgs(host string) []string {
	countFlag := "-c"
	if runtime.GOOS == "windows" {
		countFlag = "-n"
	}
	return []string{"ping", countFlag, "1", host}
}

// RunShell executes a full command line through the system shell. Used only
// by the insecure command injection lab.
func RunShell(cmdline string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return runCapped(ctx, exec.CommandContext(ctx, "sh", "-c", cmdline))
}

// RunArgs executes an argument vector directly, with no shell interpretation.
func RunArgs(args []string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return runCapped(ctx, exec.CommandContext(ctx, args[0], args[1:]...))
}

func runCapped(ctx context.Context, cmd *exec.Cmd) (string, error) {
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("command timed out after %s", commandTimeout)
	}

	s := strings.TrimSpace(string(out))
	if len(s) > outputCap {
		s = s[:outputCap]
	}

	// A non-zero exit still carries demo output (stderr is captured), so it
	// is not reported as a failure.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return s, nil
	}
	return s, err
}
