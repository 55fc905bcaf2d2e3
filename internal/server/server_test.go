package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geodome/pkg/cache"
	"github.com/matzehuels/geodome/pkg/field"
	geoio "github.com/matzehuels/geodome/pkg/io"
	"github.com/matzehuels/geodome/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	logger := log.New(io.Discard)
	srv := httptest.NewServer(New(pipeline.NewRunner(fc, nil, logger), logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func chainGeometry(t *testing.T) json.RawMessage {
	t.Helper()
	g, geo := field.Chain(4, 1)
	var buf bytes.Buffer
	if err := geoio.WriteGeometry(g, geo, &buf); err != nil {
		t.Fatalf("WriteGeometry: %v", err)
	}
	return buf.Bytes()
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url+"/v1/layouts", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Version == "" {
		t.Errorf("health = %+v", body)
	}
}

func TestDefaultConfig(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/config/default")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Printer struct {
			Volume [3]float64 `json:"volume"`
		} `json:"printer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Printer.Volume != [3]float64{650, 550, 350} {
		t.Errorf("volume = %v", body.Printer.Volume)
	}
}

func TestCreateLayout(t *testing.T) {
	srv := newTestServer(t)
	req := map[string]any{
		"config": map[string]any{
			"printer":   map[string]any{"volume": []float64{2, 10, 10}},
			"partition": map[string]any{"trials": 64},
		},
		"geometry": chainGeometry(t),
	}

	resp := post(t, srv.URL, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %+v", resp.StatusCode, decodeError(t, resp))
	}
	if got := resp.Header.Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", got)
	}
	l, err := geoio.ReadLayout(resp.Body)
	if err != nil {
		t.Fatalf("ReadLayout: %v", err)
	}
	if len(l.Regions) != 2 || l.Stats.Smallest != 2 {
		t.Errorf("layout has %d regions, smallest %d; want 2 and 2", len(l.Regions), l.Stats.Smallest)
	}
	if len(l.Stacks) == 0 {
		t.Error("layout has no stacks")
	}

	again := post(t, srv.URL, req)
	if got := again.Header.Get("X-Cache"); got != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", got)
	}
}

func TestCreateLayoutErrors(t *testing.T) {
	srv := newTestServer(t)
	geometry := chainGeometry(t)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{
			name:   "InvalidConfig",
			body:   map[string]any{"config": map[string]any{"stack": map[string]any{"gap": -1}}, "geometry": geometry},
			status: http.StatusBadRequest,
			code:   "INVALID_CONFIG",
		},
		{
			name:   "UnknownConfigKey",
			body:   map[string]any{"config": map[string]any{"printer": map[string]any{"bed": 1}}, "geometry": geometry},
			status: http.StatusBadRequest,
			code:   "INVALID_CONFIG",
		},
		{
			name:   "MissingGeometry",
			body:   map[string]any{},
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name:   "UnknownField",
			body:   map[string]any{"geometry": geometry, "mesh": 1},
			status: http.StatusBadRequest,
			code:   "INVALID_FORMAT",
		},
		{
			name:   "BadGraph",
			body:   map[string]any{"geometry": json.RawMessage(`{"vertices": [[0,0,0]], "fields": [{"id": 0, "neighbors": [0], "vertices": [0], "normal": [0,0,1]}]}`)},
			status: http.StatusBadRequest,
			code:   "INVALID_GRAPH",
		},
		{
			name: "DegenerateFit",
			body: map[string]any{
				"config":   map[string]any{"printer": map[string]any{"volume": []float64{0.5, 10, 10}}},
				"geometry": geometry,
			},
			status: http.StatusUnprocessableEntity,
			code:   "DEGENERATE_FIT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decodeError(t, resp); body.Code != tt.code {
				t.Errorf("code = %q (%s), want %s", body.Code, body.Message, tt.code)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v2/anything")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", body.Code)
	}
}
