package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/AtticAIInc/engram/internal/agentapi"
)

// rpcRequest is a minimal JSON-RPC 2.0 request, the shape an MCP client
// speaks over stdio: one JSON object per line, method names matching the
// agentapi.Server method it dispatches to.
type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type rpcResponse struct {
	ID     json.RawMessage `json:"id"`
	Result *rpcResult      `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

type rpcResult struct {
	Content string `json:"content"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// newMCPCmd runs engram as a long-lived stdio JSON-RPC tool server: one
// request object per line in, one response object per line out, dispatching
// to internal/agentapi's handlers. This is the surface an editor's agent
// integration talks to instead of shelling out to the engram binary per query.
func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run engram as a stdio JSON-RPC tool server for agent integrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := agentapi.NewServer(workspace)
			return serveMCP(server, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	return cmd
}

func serveMCP(server *agentapi.Server, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req rpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			_ = enc.Encode(rpcResponse{Error: &rpcError{Code: -32700, Message: "parse error: " + err.Error()}})
			continue
		}

		content, err := dispatchMCP(server, req.Method, req.Params)
		if err != nil {
			_ = enc.Encode(rpcResponse{ID: req.ID, Error: &rpcError{Code: -32000, Message: err.Error()}})
			continue
		}
		_ = enc.Encode(rpcResponse{ID: req.ID, Result: &rpcResult{Content: content}})
	}
	return scanner.Err()
}

func dispatchMCP(server *agentapi.Server, method string, params json.RawMessage) (string, error) {
	switch method {
	case "search":
		var p agentapi.SearchParams
		if err := json.Unmarshal(params, &p); err != nil {
			return "", err
		}
		return server.Search(p)
	case "show":
		var p agentapi.ShowParams
		if err := json.Unmarshal(params, &p); err != nil {
			return "", err
		}
		return server.Show(p)
	case "log":
		var p agentapi.LogParams
		if err := json.Unmarshal(params, &p); err != nil {
			return "", err
		}
		return server.Log(p)
	case "trace":
		var p agentapi.TraceParams
		if err := json.Unmarshal(params, &p); err != nil {
			return "", err
		}
		return server.Trace(p)
	case "diff":
		var p agentapi.DiffParams
		if err := json.Unmarshal(params, &p); err != nil {
			return "", err
		}
		return server.Diff(p)
	case "dead_ends":
		var p agentapi.DeadEndsParams
		if err := json.Unmarshal(params, &p); err != nil {
			return "", err
		}
		return server.DeadEnds(p)
	default:
		return "", fmt.Errorf("unknown method %q", method)
	}
}
