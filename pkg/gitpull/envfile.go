package gitpull

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cuemby/komodo-core/pkg/komodo"
)

// writeEnvFile materialises environment into a dotenv-style file at
// <dir>/<envFilePath>, interpolating `[[name]]` tokens against secrets
// if provided. Returns the written path and a descriptive Log.
func writeEnvFile(dir, envFilePath string, environment []string, secrets map[string]string) (string, komodo.Log, error) {
	start := time.Now()

	if envFilePath == "" || len(environment) == 0 {
		return "", komodo.Log{}, nil
	}

	full := filepath.Join(dir, envFilePath)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", komodo.SimpleLog("write env file", fmt.Sprintf("failed to create directory: %v", err)), err
	}

	var b strings.Builder
	for _, line := range environment {
		expanded := line
		if secrets != nil {
			expanded = expandSecrets(line, secrets)
		}
		b.WriteString(expanded)
		b.WriteString("\n")
	}

	if err := os.WriteFile(full, []byte(b.String()), 0600); err != nil {
		return "", komodo.Log{
			Stage:   "write env file",
			Stderr:  err.Error(),
			Success: false,
			Start:   start,
			End:     time.Now(),
		}, err
	}

	return full, komodo.Log{
		Stage:   "write env file",
		Stdout:  fmt.Sprintf("wrote %d lines to %s", len(environment), full),
		Success: true,
		Start:   start,
		End:     time.Now(),
	}, nil
}

// expandSecrets performs a minimal `[[name]]` substitution for the env
// file writer; the full Variable/Secret Interpolator (pkg/interpolate)
// is used upstream on the StackConfig's environment string before this
// package ever sees it. This second pass exists because the
// environment block and the on_pull hook's command are interpolated at
// different points in the pull sequence, each against its own secret
// set.
func expandSecrets(line string, secrets map[string]string) string {
	for name, value := range secrets {
		line = strings.ReplaceAll(line, "[["+name+"]]", value)
	}
	return line
}
