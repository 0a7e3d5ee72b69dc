package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/screenrec/screenrec/internal/errdefs"
)

// PromptFunc asks the user a yes/no question and reports consent. A nil
// PromptFunc means no terminal is attached and prompting is skipped.
type PromptFunc func(question string) bool

// ResolveOutputPath prepares the output destination. Missing parent
// directories are created. When the target file already exists, conflict
// resolution applies in priority order: the explicit overwrite flag, an
// interactive prompt, an incrementing numeric suffix.
func ResolveOutputPath(raw string, overwrite bool, prompt PromptFunc) (string, error) {
	path := ExpandTilde(strings.TrimSpace(raw))
	if path == "" {
		return "", errdefs.New(errdefs.CodeConfigInvalid, "output path required")
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errdefs.Wrapf(err, errdefs.CodeConfigInvalid,
				"cannot create output directory %s", dir)
		}
	}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return path, nil
	case err != nil:
		return "", errdefs.Wrapf(err, errdefs.CodeConfigInvalid,
			"cannot inspect output path %s", path)
	}

	if overwrite {
		return path, nil
	}
	if prompt != nil && prompt(fmt.Sprintf("%s already exists. Overwrite?", path)) {
		return path, nil
	}
	return suffixedPath(path)
}

// suffixedPath finds the first free name-N variant of path.
func suffixedPath(path string) (string, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; i <= maxSuffixAttempts; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
	}
	return "", errdefs.Newf(errdefs.CodeOutputConflict,
		"no conflict-free output name near %s", path)
}

// ExpandTilde resolves a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
