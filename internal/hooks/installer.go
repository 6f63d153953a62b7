package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AtticAIInc/engram/internal/engramerr"
)

// ManagedHooks lists the git hooks engram installs wrapper scripts for.
var ManagedHooks = []string{"prepare-commit-msg", "post-commit"}

const managedMarker = "# managed-by: engram"

const backupSuffix = ".pre-engram"

func hookScript(hookName string) string {
	return fmt.Sprintf(`#!/bin/sh
%s
backup="$(dirname "$0")/%s%s"
if [ -x "$backup" ]; then
	"$backup" "$@" || exit $?
fi
engram hook-handler %s "$@" || true
`, managedMarker, hookName, backupSuffix, hookName)
}

// Install writes wrapper scripts for every hook in ManagedHooks into
// <workspace>/.git/hooks/, chaining to any pre-existing hook by copying it
// to <name>.pre-engram first. The wrapper runs that backup before engram's
// own handler and exits with its status if it fails; a failure of engram's
// handler is ignored so it never blocks a commit.
func Install(workspace string) error {
	hooksDir, err := hooksDir(workspace)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return engramerr.Wrap(engramerr.KindIO, "create hooks directory", err)
	}

	for _, name := range ManagedHooks {
		path := filepath.Join(hooksDir, name)
		if existing, err := os.ReadFile(path); err == nil {
			if strings.Contains(string(existing), managedMarker) {
				continue // already ours
			}
			backup := path + backupSuffix
			if err := os.WriteFile(backup, existing, 0755); err != nil {
				return engramerr.Wrap(engramerr.KindIO, "back up existing hook "+name, err)
			}
		}
		if err := os.WriteFile(path, []byte(hookScript(name)), 0755); err != nil {
			return engramerr.Wrap(engramerr.KindIO, "install hook "+name, err)
		}
	}
	return nil
}

// Uninstall removes engram's wrapper scripts and restores any backed-up
// original hook.
func Uninstall(workspace string) error {
	hooksDir, err := hooksDir(workspace)
	if err != nil {
		return err
	}

	for _, name := range ManagedHooks {
		path := filepath.Join(hooksDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if !strings.Contains(string(data), managedMarker) {
			continue // not ours, leave it alone
		}
		if err := os.Remove(path); err != nil {
			return engramerr.Wrap(engramerr.KindIO, "remove hook "+name, err)
		}

		backup := path + backupSuffix
		if backupData, err := os.ReadFile(backup); err == nil {
			if err := os.WriteFile(path, backupData, 0755); err != nil {
				return engramerr.Wrap(engramerr.KindIO, "restore backup hook "+name, err)
			}
			_ = os.Remove(backup)
		}
	}
	return nil
}

func hooksDir(workspace string) (string, error) {
	// .git may be a file (worktrees, submodules) pointing elsewhere; engram
	// only manages hooks for the common case of a plain .git directory.
	dotGit := filepath.Join(workspace, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		return "", engramerr.NotInitialized()
	}
	if !info.IsDir() {
		return "", engramerr.New(engramerr.KindNotInitialized, "worktree/submodule .git files are not supported for hook installation")
	}
	return filepath.Join(dotGit, "hooks"), nil
}
