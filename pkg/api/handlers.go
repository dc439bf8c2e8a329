package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ssargent/stdfkit/pkg/codec"
	"github.com/ssargent/stdfkit/pkg/index"
	"github.com/ssargent/stdfkit/pkg/metrics"
	"github.com/ssargent/stdfkit/pkg/query"
	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/schema"
	"github.com/ssargent/stdfkit/pkg/stdfile"
)

// Server holds the API server state
type Server struct {
	index   IRecordIndex
	reg     *schema.Registry
	codec   *codec.RecordCodec
	config  ServerConfig
	metrics *metrics.Metrics
	sugar   *zap.SugaredLogger
}

// NewServer creates a new API server. idx may be nil, in which case the
// file endpoints answer 503.
func NewServer(idx IRecordIndex, reg *schema.Registry, config ServerConfig, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		index:   idx,
		reg:     reg,
		codec:   codec.NewRecordCodec(reg, config.Codec),
		config:  config,
		metrics: m,
		sugar:   logger.Sugar(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleTypes lists the record layouts of the registry.
func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	codes := s.reg.Codes()
	types := make([]TypeInfo, 0, len(codes))
	for _, code := range codes {
		sch, _ := s.reg.Schema(code)
		info := TypeInfo{
			Name:        sch.Name,
			Type:        code.Type(),
			Sub:         code.Sub(),
			Description: sch.Description,
			Generic:     sch.Generic,
		}
		for _, f := range sch.Fields() {
			info.Fields = append(info.Fields, FieldInfo{Order: f.Order, Name: f.Name, Type: f.Notation()})
		}
		types = append(types, info)
	}
	sendSuccess(w, types)
}

// handleDecode decodes an uploaded STDF stream. ?type=PTR,PRR and
// ?where=RESULT>1.5 limit the records returned; statistics always cover the
// whole stream.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTypeFilter(r.URL.Query().Get("type"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	where, err := query.ParseFieldQueries(r.URL.Query().Get("where"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	body := io.Reader(r.Body)
	if s.config.MaxBodySize > 0 {
		body = http.MaxBytesReader(w, r.Body, s.config.MaxBodySize)
	}
	rd, err := stdfile.NewReader(body, s.reg, stdfile.ReaderConfig{
		Cursor:          s.config.Cursor,
		DetectByteOrder: s.config.DetectByteOrder,
		Codec:           s.config.Codec,
		SkipMalformed:   s.config.SkipMalformed,
		Logger:          s.sugar.Desugar(),
		Observer:        s.metrics,
	})
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	engine := query.NewSimpleQueryEngine(&query.SchemaFieldExtractor{Registry: s.reg})
	it, err := engine.ExecuteQuery(r.Context(), rd.Iterator(), where...)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer it.Close()

	resp := DecodeResponse{Records: []RecordEnvelope{}, ByteOrder: rd.ByteOrder().String()}
	for it.Next() {
		res := it.Result()
		if filter != nil && !filter[res.Record.TypeCode()] {
			continue
		}
		resp.Records = append(resp.Records, RecordEnvelope{Type: record.Name(res.Record), Offset: res.Offset, Fields: res.Record})
	}
	if err := it.Err(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, "STDF stream exceeds the upload limit", http.StatusRequestEntityTooLarge)
			return
		}
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	resp.Stats = rd.Stats()
	sendSuccess(w, resp)
}

// handleEncode encodes one record given as JSON and returns its bytes.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	code, ok := record.ParseTypeCode(req.Type)
	if !ok {
		sendError(w, "Unknown record type "+strconv.Quote(req.Type), http.StatusBadRequest)
		return
	}
	rec, ok := s.reg.New(code)
	if !ok {
		sendError(w, "Record type "+req.Type+" is not registered", http.StatusBadRequest)
		return
	}

	// Round-trip the field map through JSON to fill the typed record
	fields, err := json.Marshal(req.Fields)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := json.Unmarshal(fields, rec); err != nil {
		sendError(w, "Invalid fields: "+err.Error(), http.StatusBadRequest)
		return
	}

	data, err := s.codec.Marshal(rec, s.config.Cursor)
	if err != nil {
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.metrics.ObserveEncoded(record.Name(rec))

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	if !s.hasIndex(w) {
		return
	}
	files, err := s.index.Files()
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, files)
}

func (s *Server) handleAddFile(w http.ResponseWriter, r *http.Request) {
	if !s.hasIndex(w) {
		return
	}
	var req AddFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		sendError(w, "Request body must be {\"path\": \"...\"}", http.StatusBadRequest)
		return
	}
	meta, err := s.index.Add(req.Path)
	if err != nil {
		s.sugar.Warnw("index failed", "path", req.Path, "err", err)
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sendSuccess(w, meta)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	if !s.hasIndex(w) {
		return
	}
	meta, err := s.index.File(chi.URLParam(r, "id"))
	if err != nil {
		sendIndexError(w, err)
		return
	}
	sendSuccess(w, meta)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	if !s.hasIndex(w) {
		return
	}
	if err := s.index.Remove(chi.URLParam(r, "id")); err != nil {
		sendIndexError(w, err)
		return
	}
	sendSuccess(w, map[string]string{"message": "File removed from index"})
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	if !s.hasIndex(w) {
		return
	}
	id := chi.URLParam(r, "id")
	code, ok := record.ParseTypeCode(chi.URLParam(r, "type"))
	if !ok {
		sendError(w, "Unknown record type", http.StatusBadRequest)
		return
	}
	if _, err := s.index.File(id); err != nil {
		sendIndexError(w, err)
		return
	}
	entries, err := s.index.Entries(id, code)
	if err != nil {
		sendIndexError(w, err)
		return
	}
	sendSuccess(w, EntryResponse{File: id, Type: code.String(), Entries: entries})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	if !s.hasIndex(w) {
		return
	}
	id := chi.URLParam(r, "id")
	code, ok := record.ParseTypeCode(chi.URLParam(r, "type"))
	if !ok {
		sendError(w, "Unknown record type", http.StatusBadRequest)
		return
	}
	seq, err := strconv.ParseUint(chi.URLParam(r, "seq"), 10, 32)
	if err != nil {
		sendError(w, "Invalid sequence number", http.StatusBadRequest)
		return
	}

	entry, err := s.index.Lookup(id, code, uint32(seq))
	if err != nil {
		sendIndexError(w, err)
		return
	}
	rec, err := s.index.ReadRecord(id, code, uint32(seq))
	if err != nil {
		sendIndexError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		sch, _ := s.reg.Schema(code)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_ = schema.Render(w, sch, rec)
		return
	}
	sendSuccess(w, RecordEnvelope{Type: code.String(), Offset: entry.Offset, Fields: rec})
}

func (s *Server) hasIndex(w http.ResponseWriter) bool {
	if s.index == nil {
		sendError(w, "Record index is not configured", http.StatusServiceUnavailable)
		return false
	}
	return true
}

func sendIndexError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, index.ErrFileNotFound), errors.Is(err, index.ErrEntryNotFound):
		sendError(w, err.Error(), http.StatusNotFound)
	default:
		sendError(w, err.Error(), http.StatusInternalServerError)
	}
}

// parseTypeFilter parses a comma separated list of record names. An empty
// list selects every type.
func parseTypeFilter(v string) (map[record.TypeCode]bool, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	filter := make(map[record.TypeCode]bool)
	for _, name := range strings.Split(v, ",") {
		code, ok := record.ParseTypeCode(strings.TrimSpace(name))
		if !ok {
			return nil, errors.Newf("unknown record type %q", name)
		}
		filter[code] = true
	}
	return filter, nil
}
