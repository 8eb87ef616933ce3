package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/ironsheep/color-picker-mcp/internal/imaging"
)

// serveLines runs the given request lines through Serve and decodes every
// response line.
func serveLines(t *testing.T, s *Server, lines ...string) []MCPResponse {
	t.Helper()

	var out bytes.Buffer
	if err := s.Serve(strings.NewReader(strings.Join(lines, "\n")), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var responses []MCPResponse
	scanner := bufio.NewScanner(&out)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var resp MCPResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response line %q: %v", scanner.Text(), err)
		}
		responses = append(responses, resp)
	}
	return responses
}

// toolText extracts the JSON text content of a tools/call response.
func toolText(t *testing.T, resp MCPResponse) string {
	t.Helper()

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	raw, _ := json.Marshal(resp.Result)
	if err := json.Unmarshal(raw, &result); err != nil || len(result.Content) != 1 {
		t.Fatalf("unexpected tools/call result %s: %v", raw, err)
	}
	return result.Content[0].Text
}

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
	if s.logger == nil {
		t.Fatal("New() did not initialize logger")
	}
	if s.limits != imaging.DefaultLimits {
		t.Errorf("limits: got %+v, want DefaultLimits", s.limits)
	}
	if s.session.HasImage() {
		t.Error("New() session should start without an image")
	}
}

func TestNew_Options(t *testing.T) {
	limits := imaging.Limits{MinScale: 0.25, MaxTranslation: 100}
	s := New(WithLimits(limits), WithVersion("1.2.3"), WithLogger(nil))

	if s.limits != limits {
		t.Errorf("limits: got %+v, want %+v", s.limits, limits)
	}
	if s.session.Limits() != limits {
		t.Errorf("session limits: got %+v, want %+v", s.session.Limits(), limits)
	}
	if s.version != "1.2.3" {
		t.Errorf("version: got %s, want 1.2.3", s.version)
	}
	if s.logger == nil {
		t.Error("WithLogger(nil) should keep the default logger")
	}
}

func TestServe_Methods(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantID   interface{}
		wantCode int // 0 for success
	}{
		{"initialize", `{"jsonrpc":"2.0","id":1,"method":"initialize"}`, float64(1), 0},
		{"ping string id", `{"jsonrpc":"2.0","id":"ping-1","method":"ping"}`, "ping-1", 0},
		{"tools/list", `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`, float64(2), 0},
		{"unknown method", `{"jsonrpc":"2.0","id":3,"method":"nonexistent/method"}`, float64(3), -32601},
		{"parse error", `{"jsonrpc":`, nil, -32700},
		{"bad params", `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":[1]}`, float64(4), -32602},
		{"unknown tool", `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"image_crop"}}`, float64(5), -32000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := serveLines(t, New(), tt.line)
			if len(responses) != 1 {
				t.Fatalf("expected 1 response, got %d", len(responses))
			}
			resp := responses[0]

			if resp.JSONRPC != "2.0" {
				t.Errorf("jsonrpc: got %q, want 2.0", resp.JSONRPC)
			}
			if resp.ID != tt.wantID {
				t.Errorf("id: got %v (%T), want %v (%T)", resp.ID, resp.ID, tt.wantID, tt.wantID)
			}
			switch {
			case tt.wantCode == 0 && resp.Error != nil:
				t.Errorf("unexpected error: %+v", resp.Error)
			case tt.wantCode != 0 && (resp.Error == nil || resp.Error.Code != tt.wantCode):
				t.Errorf("error: got %+v, want code %d", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestServe_Initialize(t *testing.T) {
	responses := serveLines(t, New(WithVersion("2.0.1")), `{"jsonrpc":"2.0","id":"init-1","method":"initialize"}`)

	var result struct {
		ProtocolVersion string `json:"protocolVersion"`
		ServerInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	raw, _ := json.Marshal(responses[0].Result)
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("failed to decode initialize result: %v", err)
	}
	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("protocolVersion: got %s", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != "color-picker-mcp" || result.ServerInfo.Version != "2.0.1" {
		t.Errorf("serverInfo: got %+v", result.ServerInfo)
	}
}

func TestServe_ToolsListMatchesDefinitions(t *testing.T) {
	responses := serveLines(t, New(), `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	var result struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	raw, _ := json.Marshal(responses[0].Result)
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("failed to decode tools/list result: %v", err)
	}

	defs := GetToolDefinitions()
	if len(result.Tools) != len(defs) {
		t.Fatalf("tools: got %d, want %d", len(result.Tools), len(defs))
	}
	for i, tool := range result.Tools {
		if tool.Name != defs[i].Name {
			t.Errorf("tool %d: got %s, want %s", i, tool.Name, defs[i].Name)
		}
	}
}

func TestServe_PickSession(t *testing.T) {
	path := createQuadImageFile(t)
	call := func(id int, name, args string) string {
		return fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"method":"tools/call","params":{"name":%q,"arguments":%s}}`, id, name, args)
	}

	responses := serveLines(t, New(),
		`{"jsonrpc":"2.0","id":0,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		call(1, "image_load", fmt.Sprintf(`{"path":%q}`, path)),
		call(2, "color_pick_tap", `{"tap":{"x":60,"y":60},"display":{"width":200,"height":100}}`),
		call(3, "color_pick_tap", `{"tap":{"x":199,"y":99},"display":{"width":200,"height":100}}`),
		call(4, "color_picked", `{"swatch_size":4}`),
	)

	// The notification gets no reply.
	if len(responses) != 5 {
		t.Fatalf("expected 5 responses, got %d", len(responses))
	}
	for _, resp := range responses {
		if resp.Error != nil {
			t.Fatalf("response %v: unexpected error %+v", resp.ID, resp.Error)
		}
	}

	var pick PickResult
	if err := json.Unmarshal([]byte(toolText(t, responses[2])), &pick); err != nil {
		t.Fatalf("failed to decode pick: %v", err)
	}
	if pick.Ignored || pick.Color == nil || pick.Color.Hex != "#0000ff" || pick.X != 0 || pick.Y != 1 {
		t.Errorf("tap on blue: got %+v", pick)
	}

	// Bottom-right corner of the display is letterbox.
	var ignored PickResult
	if err := json.Unmarshal([]byte(toolText(t, responses[3])), &ignored); err != nil {
		t.Fatalf("failed to decode ignored tap: %v", err)
	}
	if !ignored.Ignored {
		t.Errorf("letterbox tap: got %+v, want ignored", ignored)
	}

	var picked struct {
		Picked bool `json:"picked"`
		Swatch struct {
			Color struct {
				Hex     string `json:"hex"`
				Decimal string `json:"decimal"`
			} `json:"color"`
		} `json:"swatch"`
	}
	if err := json.Unmarshal([]byte(toolText(t, responses[4])), &picked); err != nil {
		t.Fatalf("failed to decode picked: %v", err)
	}
	if !picked.Picked || picked.Swatch.Color.Hex != "#0000ff" || picked.Swatch.Color.Decimal != "0;0;255" {
		t.Errorf("picked: got %+v, want blue", picked)
	}
}

func TestServe_LogsParseFailures(t *testing.T) {
	var logs bytes.Buffer
	s := New(WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))))

	responses := serveLines(t, s,
		``,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	)

	// Blank lines are skipped; the bad line still gets a parse error reply.
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}
	if responses[0].Error == nil || responses[0].Error.Code != -32700 {
		t.Errorf("parse error: got %+v", responses[0])
	}
	if !strings.Contains(logs.String(), "failed to parse request") {
		t.Errorf("parse failure was not logged: %s", logs.String())
	}
	if !strings.Contains(logs.String(), "method=ping") {
		t.Errorf("request was not logged at debug: %s", logs.String())
	}
}
