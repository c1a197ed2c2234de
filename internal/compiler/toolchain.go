package compiler

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ButlerSebastian/adl-sub000/pkg/logger"
)

var toolchainLog = logger.New("compiler:toolchain")

// toolchainTimeout bounds every external syntax-check invocation: the
// emitter's own generated artifact is never invalidated by a slow or
// missing external tool, only optionally double-checked by one.
const toolchainTimeout = 10 * time.Second

// CheckTypeScript runs `tsc --noEmit` against generated TypeScript source,
// when tsc is available on PATH. Unavailability is silent (returns true,
// nil, nil): the external check is optional and never blocks the primary
// generated artifact.
func CheckTypeScript(source string) (ok bool, messages []string, err error) {
	return checkWithToolchain("tsc", []string{"--noEmit"}, "adlc-check-*.ts", source)
}

// CheckPython runs `python3 -m py_compile` against generated Python
// source, when a python3 interpreter is available on PATH. Same silent-
// unavailability contract as CheckTypeScript.
func CheckPython(source string) (ok bool, messages []string, err error) {
	return checkWithToolchain("python3", []string{"-m", "py_compile"}, "adlc-check-*.py", source)
}

// checkWithToolchain writes source to a temp file with the given pattern,
// then runs binary with args appended with the temp file path. A binary
// missing from PATH is treated as "nothing to report" (ok=true, no
// messages), not an error.
func checkWithToolchain(binary string, args []string, pattern, source string) (bool, []string, error) {
	if _, err := exec.LookPath(binary); err != nil {
		toolchainLog.Printf("%s not found on PATH, skipping external syntax check", binary)
		return true, nil, nil
	}

	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return false, nil, err
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(source); err != nil {
		f.Close()
		return false, nil, err
	}
	if err := f.Close(); err != nil {
		return false, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), toolchainTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, append(args, f.Name())...)
	cmd.Dir = filepath.Dir(f.Name())
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		toolchainLog.Printf("%s timed out after %s", binary, toolchainTimeout)
		return true, []string{binary + " timed out, skipping external syntax check"}, nil
	}
	if runErr == nil {
		return true, nil, nil
	}
	return false, splitLines(stderr.String()), nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
