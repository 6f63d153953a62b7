// Package importers converts vendor-specific agent session logs (Claude
// Code's JSONL transcripts, Aider's markdown chat history, or a generic JSON
// transcript) into engram's EngramData shape, each tagged with
// CaptureModeImport and a SourceHash so re-importing the same file is a
// no-op.
package importers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/model"
)

// Importer converts one vendor's on-disk session format into EngramData.
type Importer interface {
	// Name identifies the importer for logging and the --format CLI flag.
	Name() string
	// Detect reports whether path looks like this importer's format, without
	// fully parsing it.
	Detect(path string) bool
	// Import parses path into a full EngramData aggregate.
	Import(path string) (*model.EngramData, error)
}

// registry lists importers in detection priority order: more specific
// formats (Claude Code, Aider) are probed before the generic JSON fallback.
var registry = []Importer{
	&ClaudeCodeImporter{},
	&AiderImporter{},
	&GenericJSONImporter{},
}

// Lookup returns the importer registered under name, or nil.
func Lookup(name string) Importer {
	for _, imp := range registry {
		if imp.Name() == name {
			return imp
		}
	}
	return nil
}

// AutoDetect probes every registered importer against path and returns the
// first match. engramerr.KindImport is returned when nothing recognizes it.
func AutoDetect(path string) (Importer, error) {
	for _, imp := range registry {
		if imp.Detect(path) {
			return imp, nil
		}
	}
	return nil, engramerr.New(engramerr.KindImport, fmt.Sprintf("no importer recognizes %s", path))
}

// SourceHash returns the sha256 of path's full content, used to populate
// Manifest.SourceHash and detect duplicate imports via storage.FindBySourceHash.
func SourceHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", engramerr.Wrap(engramerr.KindImport, "read "+path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// finalizeManifest stamps the common fields every importer needs set on a
// freshly-parsed EngramData before it is handed to storage.Create.
func finalizeManifest(data *model.EngramData, path, agentName string) error {
	hash, err := SourceHash(path)
	if err != nil {
		return err
	}
	data.Manifest.SourceHash = &hash
	data.Manifest.CaptureMode = model.CaptureModeImport
	if data.Manifest.Agent.Name == "" {
		data.Manifest.Agent.Name = agentName
	}
	data.Manifest.TokenUsage.Recompute()
	return nil
}
