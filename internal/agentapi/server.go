// Package agentapi exposes engram's query operations as plain Go functions
// with human-readable text output, the shape an MCP (model context
// protocol) tool server or any other agent-facing RPC surface adapts onto
// stdio JSON-RPC. Each call opens its own Store rather than holding one
// open across requests: the underlying git repository handle is not safe
// to share across concurrent requests, so a fresh open per call is cheaper
// to reason about than pooling one.
package agentapi

import (
	"path/filepath"

	"github.com/AtticAIInc/engram/internal/engramerr"
	"github.com/AtticAIInc/engram/internal/index"
	"github.com/AtticAIInc/engram/internal/storage"
)

// Server holds the paths needed to open a fresh Store and Index per request.
type Server struct {
	RepoPath  string
	IndexPath string
}

// NewServer builds a Server rooted at repoPath, defaulting the index
// location to <repoPath>/.engram/index.bleve.
func NewServer(repoPath string) *Server {
	return &Server{
		RepoPath:  repoPath,
		IndexPath: filepath.Join(repoPath, ".engram", "index.bleve"),
	}
}

func (s *Server) openStorage() (*storage.Store, error) {
	return storage.Open(s.RepoPath)
}

func (s *Server) openIndex() (*index.Index, error) {
	idx, err := index.Open(s.IndexPath)
	if err != nil {
		return nil, engramerr.Wrap(engramerr.KindIndex, "open search index", err)
	}
	return idx, nil
}
