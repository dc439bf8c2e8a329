package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/stdfkit/pkg/cursor"
	"github.com/ssargent/stdfkit/pkg/index"
	"github.com/ssargent/stdfkit/pkg/metrics"
	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/schema"
	"github.com/ssargent/stdfkit/pkg/stdfile"
)

type testServer struct {
	handler http.Handler
	index   *index.Index
	reg     *prometheus.Registry
}

func setupTestServer(t *testing.T, config ServerConfig) *testServer {
	t.Helper()

	idx, err := index.Open(index.Options{Dir: filepath.Join(t.TempDir(), "index")})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	promReg := prometheus.NewRegistry()
	config.Cursor = cursor.DefaultConfig()
	config.DetectByteOrder = true
	server := NewServer(idx, schema.MustV4(), config, metrics.New(promReg), nil)

	return &testServer{handler: server.Router(promReg), index: idx, reg: promReg}
}

func (ts *testServer) do(t *testing.T, method, path string, body io.Reader, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func stream(t *testing.T, recs ...record.Record) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := stdfile.NewWriter(&buf, schema.MustV4(), stdfile.WriterConfig{Cursor: cursor.DefaultConfig()})
	require.NoError(t, w.WriteAll(recs...))
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func lot() []record.Record {
	return []record.Record{
		&record.FAR{CpuType: 2, StdfVer: 4},
		&record.MIR{LotID: "LOT42"},
		&record.PIR{HeadNum: 1},
		&record.PTR{TestNum: 7, Result: 0.25, TestTxt: "idd"},
		&record.PTR{TestNum: 8, Result: 0.5, TestTxt: "vdd"},
		&record.PRR{HeadNum: 1, HardBin: 1, PartID: "1"},
		&record.MRR{},
	}
}

type decodeBody struct {
	Success bool `json:"success"`
	Data    struct {
		Records []struct {
			Type   string         `json:"type"`
			Offset int64          `json:"offset"`
			Fields map[string]any `json:"fields"`
		} `json:"records"`
		Stats struct {
			Records int `json:"records"`
		} `json:"stats"`
		ByteOrder string `json:"byte_order"`
	} `json:"data"`
	Error string `json:"error"`
}

func TestServer_Health(t *testing.T) {
	ts := setupTestServer(t, ServerConfig{})

	w := ts.do(t, "GET", "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestServer_APIKey(t *testing.T) {
	ts := setupTestServer(t, ServerConfig{APIKey: "secret"})

	w := ts.do(t, "GET", "/api/v1/health", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, "GET", "/api/v1/health", nil, "X-API-Key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, "GET", "/api/v1/health", nil, "X-API-Key", "secret")
	assert.Equal(t, http.StatusOK, w.Code)

	// metrics stay open for scraping
	w = ts.do(t, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `stdf_auth_requests_total{status="error"} 2`)
}

func TestServer_Types(t *testing.T) {
	ts := setupTestServer(t, ServerConfig{})

	w := ts.do(t, "GET", "/api/v1/types", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []TypeInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 25)

	far := resp.Data[0]
	assert.Equal(t, "FAR", far.Name)
	assert.Equal(t, uint8(0), far.Type)
	assert.Equal(t, uint8(10), far.Sub)
	require.Len(t, far.Fields, 2)
	assert.Equal(t, "CPU_TYPE", far.Fields[0].Name)

	gdr := resp.Data[len(resp.Data)-2]
	assert.Equal(t, "GDR", gdr.Name)
	assert.True(t, gdr.Generic)
}

func TestServer_Decode(t *testing.T) {
	ts := setupTestServer(t, ServerConfig{})

	w := ts.do(t, "POST", "/api/v1/decode", bytes.NewReader(stream(t, lot()...)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp decodeBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "little", resp.Data.ByteOrder)
	assert.Equal(t, 7, resp.Data.Stats.Records)

	var types []string
	for _, r := range resp.Data.Records {
		types = append(types, r.Type)
	}
	assert.Equal(t, []string{"FAR", "MIR", "PIR", "PTR", "PTR", "PRR", "MRR"}, types)
	assert.Equal(t, "LOT42", resp.Data.Records[1].Fields["LOT_ID"])
	assert.Equal(t, float64(7), resp.Data.Records[3].Fields["TEST_NUM"])

	// metrics observed the decode
	w = ts.do(t, "GET", "/metrics", nil)
	assert.Contains(t, w.Body.String(), `stdf_records_decoded_total{record="PTR"} 2`)
}

func TestServer_DecodeFilter(t *testing.T) {
	ts := setupTestServer(t, ServerConfig{})

	w := ts.do(t, "POST", "/api/v1/decode?type=ptr,PRR", bytes.NewReader(stream(t, lot()...)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp decodeBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Records, 3)
	assert.Equal(t, "PTR", resp.Data.Records[0].Type)
	assert.Equal(t, "PRR", resp.Data.Records[2].Type)
	assert.Equal(t, 7, resp.Data.Stats.Records)

	w = ts.do(t, "POST", "/api/v1/decode?type=XYZ", bytes.NewReader(nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_DecodeWhere(t *testing.T) {
	ts := setupTestServer(t, ServerConfig{})

	w := ts.do(t, "POST", "/api/v1/decode?where=RESULT%3E0.3", bytes.NewReader(stream(t, lot()...)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp decodeBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Records, 1)
	assert.Equal(t, "PTR", resp.Data.Records[0].Type)
	assert.Equal(t, 7, resp.Data.Stats.Records)

	w = ts.do(t, "POST", "/api/v1/decode?where=RESULT", bytes.NewReader(nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_DecodeErrors(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		ts := setupTestServer(t, ServerConfig{})
		data := stream(t, &record.FAR{CpuType: 2, StdfVer: 4})
		data = append(data, 0x03, 0x00, 50, 10, 0x01, 0x00, 0x09)

		w := ts.do(t, "POST", "/api/v1/decode", bytes.NewReader(data))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "unknown type tag")
	})

	t.Run("too large", func(t *testing.T) {
		ts := setupTestServer(t, ServerConfig{MaxBodySize: 10})

		w := ts.do(t, "POST", "/api/v1/decode", bytes.NewReader(stream(t, lot()...)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestServer_Encode(t *testing.T) {
	ts := setupTestServer(t, ServerConfig{})

	w := ts.do(t, "POST", "/api/v1/encode",
		strings.NewReader(`{"type":"FAR","fields":{"CPU_TYPE":2,"STDF_VER":4}}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x0A, 0x02, 0x04}, w.Body.Bytes())

	w = ts.do(t, "POST", "/api/v1/encode",
		strings.NewReader(`{"type":"HBR","fields":{"HBIN_NUM":1,"HBIN_PF":"P","HBIN_NAM":"PASS"}}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.Bytes()
	assert.Equal(t, byte('P'), body[4+8], "HBIN_PF follows HEAD_NUM, SITE_NUM, HBIN_NUM and HBIN_CNT")

	w = ts.do(t, "POST", "/api/v1/encode",
		strings.NewReader(`{"type":"GDR","fields":{"GEN_DATA":[{"type":2,"value":1},{"type":10,"value":"ok"}]}}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []byte{
		0x0A, 0x00, 0x32, 0x0A,
		0x02, 0x00,
		0x00, 0x02, 0x01, 0x00,
		0x0A, 0x02, 'o', 'k',
	}, w.Body.Bytes())

	testCases := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"unknown type", `{"type":"XYZ"}`, http.StatusBadRequest},
		{"wrong field type", `{"type":"FAR","fields":{"CPU_TYPE":"x"}}`, http.StatusBadRequest},
		{"generic value out of range", `{"type":"GDR","fields":{"GEN_DATA":[{"type":1,"value":300}]}}`, http.StatusBadRequest},
		{"count mismatch", `{"type":"PGR","fields":{"INDX_CNT":3,"PMR_INDX":[1]}}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(t, "POST", "/api/v1/encode", strings.NewReader(tc.body))
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestServer_Files(t *testing.T) {
	ts := setupTestServer(t, ServerConfig{})

	path := filepath.Join(t.TempDir(), "lot.stdf")
	fw, err := stdfile.Create(schema.MustV4(), stdfile.WriterConfig{FilePath: path})
	require.NoError(t, err)
	require.NoError(t, fw.WriteAll(lot()...))
	require.NoError(t, fw.Close())

	body, _ := json.Marshal(AddFileRequest{Path: path})
	w := ts.do(t, "POST", "/api/v1/files", bytes.NewReader(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var added struct {
		Data index.FileMeta `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	id := added.Data.ID
	require.NotEmpty(t, id)
	assert.Equal(t, 7, added.Data.Records)

	w = ts.do(t, "GET", "/api/v1/files", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)

	w = ts.do(t, "GET", "/api/v1/files/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "GET", "/api/v1/files/"+id+"/records/PTR", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries struct {
		Data EntryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries.Data.Entries, 2)

	w = ts.do(t, "GET", "/api/v1/files/"+id+"/records/PTR/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"TEST_TXT":"vdd"`)

	w = ts.do(t, "GET", "/api/v1/files/"+id+"/records/PTR/1?format=text", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "RECORD:PTR\n")
	assert.Contains(t, w.Body.String(), "TEST_TXT:vdd\n")

	w = ts.do(t, "GET", "/api/v1/files/"+id+"/records/PTR/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, "GET", "/api/v1/files/"+id+"/records/XYZ/0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "GET", "/api/v1/files/"+id+"/records/PTR/x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "GET", "/api/v1/files/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, "DELETE", "/api/v1/files/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "GET", "/api/v1/files/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_AddFileErrors(t *testing.T) {
	ts := setupTestServer(t, ServerConfig{})

	w := ts.do(t, "POST", "/api/v1/files", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "POST", "/api/v1/files", strings.NewReader(`{"path":"/no/such/file.stdf"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestServer_NoIndex(t *testing.T) {
	server := NewServer(nil, schema.MustV4(), ServerConfig{}, nil, nil)
	h := server.Router(nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/files", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
