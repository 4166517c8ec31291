package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/zmcp/ga4-mcp/internal/constants"
	"github.com/zmcp/ga4-mcp/internal/transport"
)

// Tool represents an MCP tool
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolHandler is a function that handles tool execution
type ToolHandler func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Resource represents an MCP resource with a fixed URI
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceTemplate represents an MCP resource with a parameterized URI
type ResourceTemplate struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceHandler resolves a resource read. For templates, params holds the
// values extracted from the URI.
type ResourceHandler func(ctx context.Context, uri string, params map[string]string) (string, error)

// Prompt represents an MCP prompt
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument describes one prompt argument
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PromptHandler renders a prompt into its message text
type PromptHandler func(ctx context.Context, args map[string]string) (string, error)

// Request represents an incoming MCP request
type Request struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      interface{}            `json:"id"`
	Method  string                 `json:"method"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

type resourceEntry struct {
	resource *Resource
	handler  ResourceHandler
}

type templateEntry struct {
	template *ResourceTemplate
	handler  ResourceHandler
}

type promptEntry struct {
	prompt  *Prompt
	handler PromptHandler
}

// Server represents an MCP server
type Server struct {
	name            string
	version         string
	protocolVersion string
	tools           map[string]*Tool
	toolOrder       []string // Maintains insertion order
	handlers        map[string]ToolHandler
	resources       []*resourceEntry
	templates       []*templateEntry
	prompts         []*promptEntry
	transport       transport.Transport
	ctx             context.Context
	cancel          context.CancelFunc
	mu              sync.RWMutex
	initialized     bool
}

// NewServer creates a new MCP server
func NewServer(name, version string) *Server {
	// Disable logging to avoid contaminating stdio communication
	log.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		name:            name,
		version:         version,
		protocolVersion: constants.MCPProtocolVersion,
		tools:           make(map[string]*Tool),
		toolOrder:       make([]string, 0),
		handlers:        make(map[string]ToolHandler),
		ctx:             ctx,
		cancel:          cancel,
	}
}

// SetProtocolVersion sets the MCP protocol version to use
func (s *Server) SetProtocolVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.protocolVersion = version
}

// AddTool registers a new tool with the server
func (s *Server) AddTool(tool *Tool, handler ToolHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Only add to order if it's a new tool
	if _, exists := s.tools[tool.Name]; !exists {
		s.toolOrder = append(s.toolOrder, tool.Name)
	}

	s.tools[tool.Name] = tool
	s.handlers[tool.Name] = handler
}

// AddResource registers a fixed-URI resource
func (s *Server) AddResource(resource *Resource, handler ResourceHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources = append(s.resources, &resourceEntry{resource: resource, handler: handler})
}

// AddResourceTemplate registers a parameterized resource
func (s *Server) AddResourceTemplate(template *ResourceTemplate, handler ResourceHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = append(s.templates, &templateEntry{template: template, handler: handler})
}

// AddPrompt registers a prompt
func (s *Server) AddPrompt(prompt *Prompt, handler PromptHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, &promptEntry{prompt: prompt, handler: handler})
}

// GetTools returns all registered tools in insertion order
func (s *Server) GetTools() []*Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]*Tool, 0, len(s.tools))
	for _, name := range s.toolOrder {
		if tool, exists := s.tools[name]; exists {
			tools = append(tools, tool)
		}
	}
	return tools
}

// GetResources returns all registered fixed-URI resources
func (s *Server) GetResources() []*Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resources := make([]*Resource, 0, len(s.resources))
	for _, entry := range s.resources {
		resources = append(resources, entry.resource)
	}
	return resources
}

// GetPrompts returns all registered prompts
func (s *Server) GetPrompts() []*Prompt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prompts := make([]*Prompt, 0, len(s.prompts))
	for _, entry := range s.prompts {
		prompts = append(prompts, entry.prompt)
	}
	return prompts
}

// SetTransport sets the transport for the server
func (s *Server) SetTransport(t interface{}) {
	if trans, ok := t.(transport.Transport); ok {
		s.transport = trans
	}
}

// Run starts the MCP server
func (s *Server) Run() error {
	if s.transport == nil {
		return fmt.Errorf("transport not set")
	}
	return s.transport.Start(s.ctx)
}

// HandleMessage processes incoming transport messages
func (s *Server) HandleMessage(ctx context.Context, msg *transport.Message) (*transport.Message, error) {
	if msg.JSONRPC != "2.0" {
		return s.createErrorResponse(msg.ID, -32600, "Invalid Request", "JSON-RPC version must be 2.0"), nil
	}

	req := &Request{
		JSONRPC: msg.JSONRPC,
		ID:      msg.ID,
		Method:  msg.Method,
	}

	if len(msg.Params) > 0 {
		var params map[string]interface{}
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.createErrorResponse(msg.ID, -32700, "Parse error", err.Error()), nil
		}
		req.Params = params
	} else {
		req.Params = make(map[string]interface{})
	}

	// Notifications expect no response
	if req.Method == "initialized" || req.Method == "notifications/initialized" {
		s.handleInitialized(req)
		return nil, nil
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "resources/list":
		return s.handleResourcesList(req)
	case "resources/templates/list":
		return s.handleResourceTemplatesList(req)
	case "resources/read":
		return s.handleResourcesRead(ctx, req)
	case "prompts/list":
		return s.handlePromptsList(req)
	case "prompts/get":
		return s.handlePromptsGet(ctx, req)
	case "ping":
		return s.handlePing(req)
	default:
		return s.createErrorResponse(req.ID, -32601, "Method not found", req.Method), nil
	}
}

// Stop stops the MCP server
func (s *Server) Stop() {
	s.cancel()
}

// createErrorResponse creates an error response message
func (s *Server) createErrorResponse(id interface{}, code int, message, data string) *transport.Message {
	return &transport.Message{
		JSONRPC: "2.0",
		ID:      normalizeID(id),
		Error: &transport.Error{
			Code:    code,
			Message: message,
			Data:    json.RawMessage(fmt.Sprintf("%q", data)),
		},
	}
}

// createResponse creates a success response message
func (s *Server) createResponse(id interface{}, result interface{}) (*transport.Message, error) {
	resultBytes, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	return &transport.Message{
		JSONRPC: "2.0",
		ID:      normalizeID(id),
		Result:  resultBytes,
	}, nil
}

// normalizeID converts null/missing request IDs to 0 for client compatibility
func normalizeID(id interface{}) json.RawMessage {
	switch v := id.(type) {
	case json.RawMessage:
		if string(v) == "null" || len(v) == 0 {
			return json.RawMessage("0")
		}
		return v
	case nil:
		return json.RawMessage("0")
	default:
		idBytes, _ := json.Marshal(id)
		return idBytes
	}
}

func (s *Server) handleInitialize(req *Request) (*transport.Message, error) {
	result := map[string]interface{}{
		"capabilities": map[string]interface{}{
			"prompts": map[string]interface{}{
				"listChanged": false,
			},
			"resources": map[string]interface{}{
				"listChanged": false,
				"subscribe":   false,
			},
			"tools": map[string]interface{}{
				"listChanged": true,
			},
		},
		"protocolVersion": s.protocolVersion,
		"serverInfo": map[string]interface{}{
			"name":    s.name,
			"version": s.version,
		},
	}

	return s.createResponse(req.ID, result)
}

func (s *Server) handleInitialized(req *Request) {
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()
}

func (s *Server) handleToolsList(req *Request) (*transport.Message, error) {
	result := map[string]interface{}{
		"tools": s.GetTools(),
	}
	return s.createResponse(req.ID, result)
}

func (s *Server) handleToolsCall(ctx context.Context, req *Request) (*transport.Message, error) {
	params, ok := req.Params["arguments"].(map[string]interface{})
	if !ok {
		params = make(map[string]interface{})
	}

	name, ok := req.Params["name"].(string)
	if !ok {
		return s.createErrorResponse(req.ID, -32602, "Invalid params", "Missing tool name"), nil
	}

	s.mu.RLock()
	handler, exists := s.handlers[name]
	s.mu.RUnlock()

	if !exists {
		return s.createErrorResponse(req.ID, -32602, "Invalid params", fmt.Sprintf("Tool not found: %s", name)), nil
	}

	result, err := handler(ctx, params)
	if err != nil {
		return s.createErrorResponse(req.ID, -32603, fmt.Sprintf("Tool '%s' failed: %s", name, err.Error()), err.Error()), nil
	}

	response := map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": result,
			},
		},
	}

	return s.createResponse(req.ID, response)
}

func (s *Server) handlePing(req *Request) (*transport.Message, error) {
	return s.createResponse(req.ID, map[string]interface{}{})
}

func (s *Server) handleResourcesList(req *Request) (*transport.Message, error) {
	resources := s.GetResources()
	list := make([]interface{}, 0, len(resources))
	for _, r := range resources {
		list = append(list, r)
	}
	result := map[string]interface{}{
		"resources": list,
	}
	return s.createResponse(req.ID, result)
}

func (s *Server) handleResourceTemplatesList(req *Request) (*transport.Message, error) {
	s.mu.RLock()
	templates := make([]interface{}, 0, len(s.templates))
	for _, entry := range s.templates {
		templates = append(templates, entry.template)
	}
	s.mu.RUnlock()

	result := map[string]interface{}{
		"resourceTemplates": templates,
	}
	return s.createResponse(req.ID, result)
}

func (s *Server) handleResourcesRead(ctx context.Context, req *Request) (*transport.Message, error) {
	uri, ok := req.Params["uri"].(string)
	if !ok || uri == "" {
		return s.createErrorResponse(req.ID, -32602, "Invalid params", "Missing resource uri"), nil
	}

	handler, params := s.resolveResource(uri)
	if handler == nil {
		return s.createErrorResponse(req.ID, -32602, "Invalid params", fmt.Sprintf("Resource not found: %s", uri)), nil
	}

	text, err := handler(ctx, uri, params)
	if err != nil {
		return s.createErrorResponse(req.ID, -32603, fmt.Sprintf("Resource read failed: %s", err.Error()), err.Error()), nil
	}

	result := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"uri":      uri,
				"mimeType": "application/json",
				"text":     text,
			},
		},
	}
	return s.createResponse(req.ID, result)
}

// resolveResource finds the handler for a URI: exact resources first, then
// URI templates with single {param} segments.
func (s *Server) resolveResource(uri string) (ResourceHandler, map[string]string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.resources {
		if entry.resource.URI == uri {
			return entry.handler, nil
		}
	}

	for _, entry := range s.templates {
		if params, ok := matchURITemplate(entry.template.URITemplate, uri); ok {
			return entry.handler, params
		}
	}

	return nil, nil
}

// matchURITemplate matches uri against a template like "ga4://{property_id}/metadata"
func matchURITemplate(template, uri string) (map[string]string, bool) {
	tParts := strings.Split(template, "/")
	uParts := strings.Split(uri, "/")
	if len(tParts) != len(uParts) {
		return nil, false
	}

	params := make(map[string]string)
	for i, tp := range tParts {
		if strings.HasPrefix(tp, "{") && strings.HasSuffix(tp, "}") {
			name := tp[1 : len(tp)-1]
			if uParts[i] == "" {
				return nil, false
			}
			params[name] = uParts[i]
			continue
		}
		if tp != uParts[i] {
			return nil, false
		}
	}
	return params, true
}

func (s *Server) handlePromptsList(req *Request) (*transport.Message, error) {
	prompts := s.GetPrompts()
	list := make([]interface{}, 0, len(prompts))
	for _, p := range prompts {
		list = append(list, p)
	}
	result := map[string]interface{}{
		"prompts": list,
	}
	return s.createResponse(req.ID, result)
}

func (s *Server) handlePromptsGet(ctx context.Context, req *Request) (*transport.Message, error) {
	name, ok := req.Params["name"].(string)
	if !ok || name == "" {
		return s.createErrorResponse(req.ID, -32602, "Invalid params", "Missing prompt name"), nil
	}

	args := make(map[string]string)
	if raw, ok := req.Params["arguments"].(map[string]interface{}); ok {
		for k, v := range raw {
			args[k] = fmt.Sprintf("%v", v)
		}
	}

	s.mu.RLock()
	var entry *promptEntry
	for _, e := range s.prompts {
		if e.prompt.Name == name {
			entry = e
			break
		}
	}
	s.mu.RUnlock()

	if entry == nil {
		return s.createErrorResponse(req.ID, -32602, "Invalid params", fmt.Sprintf("Prompt not found: %s", name)), nil
	}

	text, err := entry.handler(ctx, args)
	if err != nil {
		return s.createErrorResponse(req.ID, -32603, fmt.Sprintf("Prompt '%s' failed: %s", name, err.Error()), err.Error()), nil
	}

	result := map[string]interface{}{
		"description": entry.prompt.Description,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": map[string]interface{}{
					"type": "text",
					"text": text,
				},
			},
		},
	}
	return s.createResponse(req.ID, result)
}

// SendNotification sends a notification through the transport
func (s *Server) SendNotification(method string, params interface{}) error {
	if s.transport == nil {
		return fmt.Errorf("transport not set")
	}

	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return err
	}

	msg := &transport.Message{
		JSONRPC: "2.0",
		Method:  method,
		Params:  paramsBytes,
	}

	return s.transport.WriteMessage(msg)
}
