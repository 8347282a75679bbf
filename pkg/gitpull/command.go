package gitpull

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/cuemby/komodo-core/pkg/komodo"
)

// runShell runs one shell command with dir as its working directory,
// returning a komodo.Log: build *exec.Cmd, capture stdout/stderr
// separately, time it.
func runShell(ctx context.Context, stage, dir, command string) komodo.Log {
	start := time.Now()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return komodo.Log{
		Stage:   stage,
		Command: command,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Success: err == nil,
		Start:   start,
		End:     time.Now(),
	}
}

// commitHashLog reads the head commit hash and subject line, returning
// them alongside a Log entry describing the read.
func commitHashLog(ctx context.Context, dir string) (komodo.Log, string, string, error) {
	start := time.Now()

	hashCmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	hashCmd.Dir = dir
	hashOut, err := hashCmd.Output()
	if err != nil {
		return komodo.Log{}, "", "", err
	}

	msgCmd := exec.CommandContext(ctx, "git", "log", "-1", "--pretty=%s")
	msgCmd.Dir = dir
	msgOut, err := msgCmd.Output()
	if err != nil {
		return komodo.Log{}, "", "", err
	}

	hash := strings.TrimSpace(string(hashOut))
	message := strings.TrimSpace(string(msgOut))

	return komodo.Log{
		Stage:   "latest commit",
		Command: "git rev-parse HEAD && git log -1 --pretty=%s",
		Stdout:  hash + " " + message,
		Success: true,
		Start:   start,
		End:     time.Now(),
	}, hash, message, nil
}
