package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmcp/ga4-mcp/internal/transport"
)

func newTestServer() *Server {
	s := NewServer("test-server", "0.0.1")
	s.AddTool(&Tool{
		Name:        "echo",
		Description: "Echo the message back",
		InputSchema: map[string]interface{}{"type": "object"},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		msg, _ := args["message"].(string)
		return msg, nil
	})
	return s
}

func handle(t *testing.T, s *Server, id, method string, params interface{}) *transport.Message {
	t.Helper()

	msg := &transport.Message{JSONRPC: "2.0", Method: method}
	if id != "" {
		msg.ID = json.RawMessage(id)
	}
	if params != nil {
		raw, err := json.Marshal(params)
		require.NoError(t, err)
		msg.Params = raw
	}

	resp, err := s.HandleMessage(context.Background(), msg)
	require.NoError(t, err)
	return resp
}

func TestInitialize(t *testing.T) {
	s := newTestServer()
	resp := handle(t, s, "1", "initialize", nil)

	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	var result struct {
		ProtocolVersion string `json:"protocolVersion"`
		ServerInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
		Capabilities map[string]interface{} `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "2024-11-05", result.ProtocolVersion)
	assert.Equal(t, "test-server", result.ServerInfo.Name)
	assert.Contains(t, result.Capabilities, "tools")
	assert.Contains(t, result.Capabilities, "resources")
	assert.Contains(t, result.Capabilities, "prompts")
}

func TestNullIDNormalizedToZero(t *testing.T) {
	s := newTestServer()

	resp := handle(t, s, "null", "ping", nil)
	require.NotNil(t, resp)
	assert.Equal(t, "0", string(resp.ID))

	resp = handle(t, s, "", "ping", nil)
	require.NotNil(t, resp)
	assert.Equal(t, "0", string(resp.ID))

	resp = handle(t, s, "42", "ping", nil)
	require.NotNil(t, resp)
	assert.Equal(t, "42", string(resp.ID))
}

func TestInitializedNotificationHasNoResponse(t *testing.T) {
	s := newTestServer()

	resp := handle(t, s, "", "initialized", nil)
	assert.Nil(t, resp)

	resp = handle(t, s, "", "notifications/initialized", nil)
	assert.Nil(t, resp)
}

func TestUnknownMethod(t *testing.T) {
	s := newTestServer()
	resp := handle(t, s, "3", "bogus/method", nil)

	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
}

func TestInvalidJSONRPCVersion(t *testing.T) {
	s := newTestServer()
	resp, err := s.HandleMessage(context.Background(), &transport.Message{
		JSONRPC: "1.0",
		ID:      json.RawMessage("1"),
		Method:  "ping",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32600, resp.Error.Code)
}

func TestToolsListAndCall(t *testing.T) {
	s := newTestServer()

	resp := handle(t, s, "1", "tools/list", nil)
	var listResult struct {
		Tools []Tool `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &listResult))
	require.Len(t, listResult.Tools, 1)
	assert.Equal(t, "echo", listResult.Tools[0].Name)

	resp = handle(t, s, "2", "tools/call", map[string]interface{}{
		"name":      "echo",
		"arguments": map[string]interface{}{"message": "hello"},
	})
	require.Nil(t, resp.Error)

	var callResult struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &callResult))
	require.Len(t, callResult.Content, 1)
	assert.Equal(t, "text", callResult.Content[0].Type)
	assert.Equal(t, "hello", callResult.Content[0].Text)
}

func TestToolsCallUnknownTool(t *testing.T) {
	s := newTestServer()
	resp := handle(t, s, "2", "tools/call", map[string]interface{}{"name": "missing"})

	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestToolInsertionOrder(t *testing.T) {
	s := NewServer("test", "0")
	noop := func(ctx context.Context, args map[string]interface{}) (interface{}, error) { return "", nil }
	for _, name := range []string{"zulu", "alpha", "mike"} {
		s.AddTool(&Tool{Name: name}, noop)
	}
	// Re-registering must not duplicate or reorder
	s.AddTool(&Tool{Name: "alpha", Description: "updated"}, noop)

	tools := s.GetTools()
	require.Len(t, tools, 3)
	assert.Equal(t, "zulu", tools[0].Name)
	assert.Equal(t, "alpha", tools[1].Name)
	assert.Equal(t, "mike", tools[2].Name)
	assert.Equal(t, "updated", tools[1].Description)
}

func TestResourcesReadExactAndTemplate(t *testing.T) {
	s := newTestServer()
	s.AddResource(&Resource{URI: "ga4://default/metadata", Name: "default"},
		func(ctx context.Context, uri string, params map[string]string) (string, error) {
			return "default-body", nil
		})
	s.AddResourceTemplate(&ResourceTemplate{URITemplate: "ga4://{property_id}/metadata", Name: "by property"},
		func(ctx context.Context, uri string, params map[string]string) (string, error) {
			return "property-" + params["property_id"], nil
		})

	var result struct {
		Contents []struct {
			URI      string `json:"uri"`
			MimeType string `json:"mimeType"`
			Text     string `json:"text"`
		} `json:"contents"`
	}

	// Exact URI wins over the template even though both match
	resp := handle(t, s, "1", "resources/read", map[string]interface{}{"uri": "ga4://default/metadata"})
	require.Nil(t, resp.Error)
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "default-body", result.Contents[0].Text)
	assert.Equal(t, "application/json", result.Contents[0].MimeType)

	resp = handle(t, s, "2", "resources/read", map[string]interface{}{"uri": "ga4://424242/metadata"})
	require.Nil(t, resp.Error)
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "property-424242", result.Contents[0].Text)
	assert.Equal(t, "ga4://424242/metadata", result.Contents[0].URI)
}

func TestResourcesReadNotFound(t *testing.T) {
	s := newTestServer()
	resp := handle(t, s, "1", "resources/read", map[string]interface{}{"uri": "ga4://nope"})

	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestResourceTemplatesList(t *testing.T) {
	s := newTestServer()
	s.AddResourceTemplate(&ResourceTemplate{URITemplate: "ga4://{property_id}/metadata", Name: "by property"},
		func(ctx context.Context, uri string, params map[string]string) (string, error) { return "", nil })

	resp := handle(t, s, "1", "resources/templates/list", nil)
	var result struct {
		ResourceTemplates []ResourceTemplate `json:"resourceTemplates"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.ResourceTemplates, 1)
	assert.Equal(t, "ga4://{property_id}/metadata", result.ResourceTemplates[0].URITemplate)
}

func TestMatchURITemplate(t *testing.T) {
	tests := []struct {
		template string
		uri      string
		want     map[string]string
		ok       bool
	}{
		{"ga4://{property_id}/metadata", "ga4://424242/metadata", map[string]string{"property_id": "424242"}, true},
		{"ga4://{property_id}/metadata", "ga4://424242/other", nil, false},
		{"ga4://{property_id}/metadata", "ga4:///metadata", nil, false},
		{"ga4://{property_id}/metadata", "ga4://a/b/metadata", nil, false},
		{"ga4://properties/list", "ga4://properties/list", map[string]string{}, true},
	}

	for _, tt := range tests {
		params, ok := matchURITemplate(tt.template, tt.uri)
		assert.Equal(t, tt.ok, ok, "template %s uri %s", tt.template, tt.uri)
		if tt.ok {
			assert.Equal(t, tt.want, params)
		}
	}
}

func TestPromptsListAndGet(t *testing.T) {
	s := newTestServer()
	s.AddPrompt(&Prompt{
		Name:        "greet",
		Description: "Say hello",
		Arguments:   []PromptArgument{{Name: "who", Required: true}},
	}, func(ctx context.Context, args map[string]string) (string, error) {
		return "Hello, " + args["who"], nil
	})

	resp := handle(t, s, "1", "prompts/list", nil)
	var listResult struct {
		Prompts []Prompt `json:"prompts"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &listResult))
	require.Len(t, listResult.Prompts, 1)
	assert.Equal(t, "greet", listResult.Prompts[0].Name)

	resp = handle(t, s, "2", "prompts/get", map[string]interface{}{
		"name":      "greet",
		"arguments": map[string]interface{}{"who": "world"},
	})
	require.Nil(t, resp.Error)

	var getResult struct {
		Description string `json:"description"`
		Messages    []struct {
			Role    string `json:"role"`
			Content struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &getResult))
	assert.Equal(t, "Say hello", getResult.Description)
	require.Len(t, getResult.Messages, 1)
	assert.Equal(t, "user", getResult.Messages[0].Role)
	assert.Equal(t, "Hello, world", getResult.Messages[0].Content.Text)
}

func TestPromptsGetUnknown(t *testing.T) {
	s := newTestServer()
	resp := handle(t, s, "1", "prompts/get", map[string]interface{}{"name": "missing"})

	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestPing(t *testing.T) {
	s := newTestServer()
	resp := handle(t, s, "7", "ping", nil)

	require.Nil(t, resp.Error)
	assert.Equal(t, "{}", string(resp.Result))
}
