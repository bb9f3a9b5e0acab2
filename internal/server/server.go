// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package server adapts the tool registry to the Model Context Protocol.
// The MCP SDK owns the wire format, the version handshake and request
// sequencing; this package only registers the catalog and converts
// registry envelopes into protocol results.
package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"fsgate/internal/tools"
)

const (
	serverName    = "fsgate"
	serverTitle   = "Sandboxed filesystem and system information tools"
	serverVersion = "0.1.0"

	serverInstructions = `This server exposes filesystem operations restricted to a sandbox.
Paths outside the allowed directories, inside blocked directories, or with
disallowed file extensions are rejected. Use get_allowed_paths to discover
the sandbox boundaries.`
)

// Server wraps an MCP server bound to a tool registry.
type Server struct {
	mcp      *mcp.Server
	registry *tools.Registry
	logger   zerolog.Logger
}

// New builds the MCP server and registers every tool in the registry.
func New(registry *tools.Registry, logger zerolog.Logger) *Server {
	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Title:   serverTitle,
			Version: serverVersion,
		}, &mcp.ServerOptions{
			Instructions: serverInstructions,
		}),
		registry: registry,
		logger:   logger,
	}
	for _, tool := range registry.Tools() {
		s.mcp.AddTool(&mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.Parameters,
		}, s.toolHandler(tool.Name))
	}
	return s
}

// toolHandler bridges one registered tool into the protocol envelope:
// {content: [{type: "text", text}], isError}. Panics are contained here
// so a broken executor cannot take down the session.
func (s *Server) toolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (res *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error().Str("tool", name).Interface("panic", r).Msg("tool panicked")
				res = &mcp.CallToolResult{
					Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: tool %s panicked: %v", name, r)}},
					IsError: true,
				}
				err = nil
			}
		}()

		result := s.registry.ExecuteJSON(ctx, name, json.RawMessage(req.Params.Arguments))
		s.logger.Debug().Str("tool", name).Bool("is_error", result.IsError()).Msg("tool call handled")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result.Result}},
			IsError: result.IsError(),
		}, nil
	}
}

// Run serves the protocol over stdio until the context is canceled or
// the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info().Str("version", serverVersion).Msg("serving MCP over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Catalog connects an in-memory client to the server and returns the
// advertised tool list, for informational commands and tests.
func (s *Server) Catalog(ctx context.Context) ([]*mcp.Tool, error) {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.mcp.Connect(ctx, serverTransport, nil)
	if err != nil {
		return nil, err
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "fsgate-inspector"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		return nil, err
	}
	toolsResult, err := clientSession.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return nil, err
	}
	if err = clientSession.Close(); err != nil {
		return nil, err
	}
	if err = serverSession.Wait(); err != nil {
		return nil, err
	}
	return toolsResult.Tools, nil
}
