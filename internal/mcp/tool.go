package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/docsmith/internal/docmodel"
	"github.com/mvp-joe/docsmith/internal/refgraph"
)

// LookupResult is the JSON response for one matched symbol.
type LookupResult struct {
	Identity   string              `json:"identity"`
	Kind       string              `json:"kind"`
	Name       string              `json:"name"`
	Signature  string              `json:"signature,omitempty"`
	Deprecated bool                `json:"deprecated,omitempty"`
	Content    string              `json:"content,omitempty"`
	Members    []string            `json:"members,omitempty"`
	References map[string][]string `json:"references,omitempty"`
}

// LookupResponse wraps all matches for one query.
type LookupResponse struct {
	Results []*LookupResult `json:"results"`
	Total   int             `json:"total"`
}

// AddLookupTool registers the docsmith_lookup tool with an MCP server.
// This function is composable with other tool registrations.
func AddLookupTool(s *server.MCPServer, module *docmodel.Module, graph *refgraph.Graph) {
	tool := mcp.NewTool(
		"docsmith_lookup",
		mcp.WithDescription("Look up documentation for a symbol by qualified identity (e.g. 'pkg.Type.Method') or by simple name. Returns documentation content, signature, members, and resolved cross-references."),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Qualified identity or simple symbol name to look up")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of matches for name lookups (default: 10)")),
	)

	s.AddTool(tool, createLookupHandler(module, graph))
}

// createLookupHandler creates the handler for docsmith_lookup.
func createLookupHandler(module *docmodel.Module, graph *refgraph.Graph) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		symbol, ok := argsMap["symbol"].(string)
		if !ok || symbol == "" {
			return mcp.NewToolResultError("symbol parameter is required"), nil
		}

		limit := 10
		if l, ok := argsMap["limit"].(float64); ok && l > 0 {
			limit = int(l)
		}

		var matches []*docmodel.Node
		if node := graph.Node(symbol); node != nil {
			matches = append(matches, node)
		} else {
			matches = findByName(module, symbol, limit)
		}

		response := &LookupResponse{}
		for _, n := range matches {
			response.Results = append(response.Results, toResult(n))
		}
		response.Total = len(response.Results)

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// findByName walks the tree collecting nodes whose name matches, case
// insensitively, up to limit.
func findByName(module *docmodel.Module, name string, limit int) []*docmodel.Node {
	var matches []*docmodel.Node
	lower := strings.ToLower(name)
	module.Walk(func(n *docmodel.Node) {
		if len(matches) >= limit {
			return
		}
		if strings.ToLower(n.Name) == lower {
			matches = append(matches, n)
		}
	})
	return matches
}

func toResult(n *docmodel.Node) *LookupResult {
	r := &LookupResult{
		Identity:   n.Identity,
		Kind:       string(n.Kind),
		Name:       n.Name,
		Signature:  n.Signature,
		Deprecated: n.Deprecated,
		Content:    n.Content.TestString(),
	}
	for _, c := range n.Children() {
		r.Members = append(r.Members, c.Identity)
	}
	for _, ref := range n.References() {
		if r.References == nil {
			r.References = make(map[string][]string)
		}
		kind := string(ref.Kind)
		r.References[kind] = append(r.References[kind], ref.To.Identity)
	}
	return r
}
