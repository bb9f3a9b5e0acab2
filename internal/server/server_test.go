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

package server

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"fsgate/internal/sandbox"
	"fsgate/internal/tools"
)

func newTestServer(t *testing.T, root string) *Server {
	t.Helper()
	policy, err := sandbox.NewPolicy([]string{root}, nil, nil)
	if err != nil {
		t.Fatalf("failed to build policy: %v", err)
	}
	registry := tools.NewRegistry(policy, tools.DefaultLimits(), zerolog.Nop())
	return New(registry, zerolog.Nop())
}

func connectClient(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	if _, err := s.mcp.Connect(ctx, serverTransport, nil); err != nil {
		t.Fatalf("failed to connect server session: %v", err)
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("failed to connect client session: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestCatalogAdvertisesSixTools(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	catalog, err := s.Catalog(context.Background())
	if err != nil {
		t.Fatalf("failed to fetch catalog: %v", err)
	}

	want := map[string]bool{
		"read_file": false, "write_file": false, "list_directory": false,
		"get_system_info": false, "create_sample_file": false, "get_allowed_paths": false,
	}
	for _, tool := range catalog {
		if _, known := want[tool.Name]; !known {
			t.Errorf("unexpected tool in catalog: %s", tool.Name)
			continue
		}
		want[tool.Name] = true
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("tool %s missing from catalog", name)
		}
	}
}

func TestCallToolRoundTrip(t *testing.T) {
	root := t.TempDir()
	s := newTestServer(t, root)
	session := connectClient(t, s)
	ctx := context.Background()
	target := filepath.Join(root, "note.txt")

	writeRes, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "write_file",
		Arguments: map[string]interface{}{
			"filepath": target,
			"content":  "hello over the wire",
		},
	})
	if err != nil {
		t.Fatalf("write_file call failed: %v", err)
	}
	if writeRes.IsError {
		t.Fatalf("expected write_file success, got error result: %v", writeRes.Content)
	}

	readRes, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "read_file",
		Arguments: map[string]interface{}{"filepath": target},
	})
	if err != nil {
		t.Fatalf("read_file call failed: %v", err)
	}
	if readRes.IsError {
		t.Fatalf("expected read_file success, got error result: %v", readRes.Content)
	}
	text, ok := readRes.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", readRes.Content[0])
	}
	if !strings.Contains(text.Text, "hello over the wire") {
		t.Fatalf("expected round-tripped content, got: %s", text.Text)
	}
}

func TestCallToolDenialIsErrorResultNotProtocolError(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	session := connectClient(t, s)
	ctx := context.Background()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "read_file",
		Arguments: map[string]interface{}{"filepath": "/etc/passwd"},
	})
	if err != nil {
		t.Fatalf("expected error envelope, not protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected isError result for path outside the sandbox")
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	if !strings.Contains(text.Text, "denied") && !strings.Contains(text.Text, "permitted") {
		t.Fatalf("expected denial message, got: %s", text.Text)
	}

	// session keeps serving after a denial
	next, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_allowed_paths",
		Arguments: map[string]interface{}{},
	})
	if err != nil {
		t.Fatalf("expected session to keep serving, got: %v", err)
	}
	if next.IsError {
		t.Fatalf("expected get_allowed_paths success after denial, got: %v", next.Content)
	}
}
