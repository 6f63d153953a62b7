package hooks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AtticAIInc/engram/internal/model"
)

func TestActiveSessionRoundtrip(t *testing.T) {
	dir := t.TempDir()

	_, ok, err := ReadActiveSession(dir)
	require.NoError(t, err)
	require.False(t, ok)

	session := ActiveSession{
		EngramID:  model.EngramID("abc123"),
		AgentName: "claude-code",
		StartedAt: time.Now().UTC(),
	}
	require.NoError(t, StartActiveSession(dir, session))

	got, ok, err := ReadActiveSession(dir)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, session.EngramID, got.EngramID)

	require.NoError(t, EndActiveSession(dir))
	_, ok, err = ReadActiveSession(dir)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPrepareCommitMsgAppendsTrailerOnlyWhenActive(t *testing.T) {
	dir := t.TempDir()
	msgFile := filepath.Join(dir, "COMMIT_EDITMSG")
	require.NoError(t, os.WriteFile(msgFile, []byte("Fix bug\n"), 0644))

	require.NoError(t, PrepareCommitMsg(dir, msgFile))
	data, err := os.ReadFile(msgFile)
	require.NoError(t, err)
	require.NotContains(t, string(data), engramTrailerPrefix)

	require.NoError(t, StartActiveSession(dir, ActiveSession{EngramID: "sess1"}))
	require.NoError(t, PrepareCommitMsg(dir, msgFile))
	data, err = os.ReadFile(msgFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "Engram-Id: sess1")
}

func TestInstallWritesManagedHooksAndBacksUpExisting(t *testing.T) {
	dir := t.TempDir()
	gitDir := filepath.Join(dir, ".git", "hooks")
	require.NoError(t, os.MkdirAll(gitDir, 0755))

	existing := filepath.Join(gitDir, "post-commit")
	require.NoError(t, os.WriteFile(existing, []byte("#!/bin/sh\necho custom\n"), 0755))

	require.NoError(t, Install(dir))

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	require.Contains(t, string(data), managedMarker)

	backup := existing + ".pre-engram"
	backupData, err := os.ReadFile(backup)
	require.NoError(t, err)
	require.Contains(t, string(backupData), "echo custom")

	require.NoError(t, Uninstall(dir))
	restored, err := os.ReadFile(existing)
	require.NoError(t, err)
	require.Contains(t, string(restored), "echo custom")
}
