package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/zmcp/ga4-mcp/internal/config"
	"github.com/zmcp/ga4-mcp/internal/constants"
	"github.com/zmcp/ga4-mcp/internal/ga4"
	"github.com/zmcp/ga4-mcp/internal/mcp"
	"github.com/zmcp/ga4-mcp/internal/normalize"
)

// GA4MCPBridge connects the Google Analytics 4 APIs to MCP. Tool handlers
// never fail at the protocol level: every error becomes an {"error": ...}
// JSON envelope in the tool result.
type GA4MCPBridge struct {
	config *config.Config
	client *ga4.Client
	server *mcp.Server
}

// NewGA4MCPBridge creates a new bridge instance. The GA4 client is only
// built when credentials are configured; without one, every tool answers
// with the not-initialized envelope.
func NewGA4MCPBridge(ctx context.Context, cfg *config.Config) (*GA4MCPBridge, error) {
	var client *ga4.Client
	if cfg.HasCredentials() {
		var err error
		client, err = ga4.New(ctx, cfg.ClientEmail, cfg.NormalizedPrivateKey())
		if err != nil {
			return nil, fmt.Errorf("failed to create GA4 client: %w", err)
		}
	}
	return NewWithClient(cfg, client), nil
}

// NewWithClient creates a bridge around an existing client. Used by tests
// and by callers that build the client themselves.
func NewWithClient(cfg *config.Config, client *ga4.Client) *GA4MCPBridge {
	bridge := &GA4MCPBridge{
		config: cfg,
		client: client,
		server: mcp.NewServer(constants.MCPServerName, constants.MCPServerVersion),
	}

	bridge.registerReportingTools()
	bridge.registerAdminTools()
	bridge.registerResources()
	bridge.registerPrompts()

	return bridge
}

// GetServer returns the underlying MCP server
func (b *GA4MCPBridge) GetServer() *mcp.Server {
	return b.server
}

// Run starts the MCP server
func (b *GA4MCPBridge) Run() error {
	return b.server.Run()
}

// Stop stops the MCP server
func (b *GA4MCPBridge) Stop() {
	b.server.Stop()
}

// GetTraceInfo returns the registered surface for --trace output
func (b *GA4MCPBridge) GetTraceInfo() map[string]interface{} {
	tools := b.server.GetTools()
	toolNames := make([]string, 0, len(tools))
	for _, tool := range tools {
		toolNames = append(toolNames, tool.Name)
	}

	resources := b.server.GetResources()
	resourceURIs := make([]string, 0, len(resources))
	for _, r := range resources {
		resourceURIs = append(resourceURIs, r.URI)
	}

	prompts := b.server.GetPrompts()
	promptNames := make([]string, 0, len(prompts))
	for _, p := range prompts {
		promptNames = append(promptNames, p.Name)
	}

	return map[string]interface{}{
		"server_name":      constants.MCPServerName,
		"server_version":   constants.MCPServerVersion,
		"protocol_version": constants.MCPProtocolVersion,
		"default_property": b.config.PropertyID,
		"initialized":      b.client != nil,
		"tool_count":       len(toolNames),
		"tools":            toolNames,
		"resources":        resourceURIs,
		"prompts":          promptNames,
	}
}

func (b *GA4MCPBridge) logVerbose(format string, args ...interface{}) {
	if b.config.Verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	}
}

// --- result helpers ---

// errorJSON renders the standard error envelope all tools return on failure
func errorJSON(format string, args ...interface{}) string {
	data, _ := json.Marshal(map[string]string{"error": fmt.Sprintf(format, args...)})
	return string(data)
}

// toJSON renders a tool result as 2-space-indented JSON
func toJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorJSON("failed to serialize response: %v", err)
	}
	return string(data)
}

// --- argument helpers ---

// stringArg reads a string argument, rendering numbers as digits so
// callers may pass property IDs either way.
func stringArg(args map[string]interface{}, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}

func int64Arg(args map[string]interface{}, key string) (int64, bool) {
	switch v := args[key].(type) {
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func boolArg(args map[string]interface{}, key string) bool {
	v, _ := args[key].(bool)
	return v
}

// optBoolArg distinguishes "absent" from "false" for sparse updates
func optBoolArg(args map[string]interface{}, key string) *bool {
	if v, ok := args[key].(bool); ok {
		return &v
	}
	return nil
}

// resolveProperty picks the property from the arguments or the configured
// default, returning a full "properties/{id}" resource name.
func (b *GA4MCPBridge) resolveProperty(args map[string]interface{}) (string, bool) {
	id := stringArg(args, "property_id")
	if id == "" {
		id = b.config.PropertyID
	}
	if id == "" {
		return "", false
	}
	return normalize.ResourcePath(id, constants.PropertyPrefix), true
}
