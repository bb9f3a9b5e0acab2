package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	fserrors "fsgate/internal/errors"
	"fsgate/internal/sandbox"
)

// ExecutorFunc is the function signature for tool implementations.
type ExecutorFunc func(ctx context.Context, args map[string]interface{}) (string, error)

// Tool represents a callable tool/function with its implementation.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
	Validate    ValidationRule
	Executor    ExecutorFunc
}

// ToolResult is the uniform envelope returned for every tool call.
// Failures of any kind end up here; nothing escapes the registry as a
// panic or an unhandled error.
type ToolResult struct {
	Function string
	Result   string
	Error    error
}

// IsError reports whether the result carries a failure.
func (tr *ToolResult) IsError() bool {
	return tr.Error != nil
}

// Registry holds all available tools with their implementations. The
// sandbox policy is injected at construction and shared read-only by
// every executor.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]*Tool
	order  []string
	logger zerolog.Logger
}

// NewRegistry creates a registry with the built-in tools bound to the
// given sandbox policy and limits.
func NewRegistry(policy *sandbox.Policy, limits Limits, logger zerolog.Logger) *Registry {
	r := &Registry{
		tools:  make(map[string]*Tool),
		logger: logger,
	}
	registerBuiltinTools(r, &ops{
		policy: policy,
		limits: normalizeLimits(limits),
		logger: logger,
	})
	return r
}

// RegisterTool adds a tool to the registry, replacing any previous tool
// of the same name.
func (r *Registry) RegisterTool(tool *Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.tools[tool.Name] = tool
}

// Tools returns the catalog in registration order.
func (r *Registry) Tools() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	catalog := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		catalog = append(catalog, r.tools[name])
	}
	return catalog
}

// ToolNames returns a sorted list of all tool names.
func (r *Registry) ToolNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs the named tool with the given arguments. Unknown tools,
// invalid arguments and executor failures all come back as error-flagged
// results; the per-request loop never sees a raw failure.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) *ToolResult {
	result := &ToolResult{Function: name}
	if args == nil {
		args = map[string]interface{}{}
	}

	tool, exists := r.getTool(name)
	if !exists {
		result.Error = fserrors.New(fserrors.CodeUnknownTool, fmt.Sprintf("unknown tool: %s", name))
		result.Result = fmt.Sprintf("Error: Tool '%s' not found. Available tools: %v", name, r.ToolNames())
		return result
	}

	if tool.Validate != nil {
		if err := tool.Validate(args); err != nil {
			result.Error = fserrors.Wrap(fserrors.CodeArguments, "invalid arguments", err)
			result.Result = fmt.Sprintf("Error: %v", result.Error)
			return result
		}
	}

	output, err := tool.Executor(ctx, args)
	if err != nil {
		r.logger.Debug().Str("tool", name).Err(err).Msg("tool execution failed")
		result.Error = err
		result.Result = fmt.Sprintf("Error: %v", err)
		return result
	}
	result.Result = output
	return result
}

// ExecuteJSON decodes a raw JSON argument payload and runs the tool.
func (r *Registry) ExecuteJSON(ctx context.Context, name string, argsJSON []byte) *ToolResult {
	args, err := parseToolArgs(argsJSON)
	if err != nil {
		wrapped := fserrors.Wrap(fserrors.CodeArguments, "invalid tool arguments", err)
		return &ToolResult{
			Function: name,
			Result:   fmt.Sprintf("Error: %v", wrapped),
			Error:    wrapped,
		}
	}
	return r.Execute(ctx, name, args)
}

// getTool safely retrieves a tool definition.
func (r *Registry) getTool(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}
