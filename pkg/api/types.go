package api

import (
	"github.com/ssargent/stdfkit/pkg/codec"
	"github.com/ssargent/stdfkit/pkg/cursor"
	"github.com/ssargent/stdfkit/pkg/index"
	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/stdfile"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind            string
	Port            int
	APIKey          string   // Empty disables authentication
	MaxBodySize     int64    // Upper bound for uploaded STDF streams
	CORSOrigins     []string // Defaults to "*"
	Cursor          cursor.Config
	Codec           codec.Options
	DetectByteOrder bool
	SkipMalformed   bool
}

// RecordEnvelope is the JSON form of one record.
type RecordEnvelope struct {
	Type   string        `json:"type"`
	Offset int64         `json:"offset"`
	Fields record.Record `json:"fields"`
}

// DecodeResponse is returned by the decode endpoint.
type DecodeResponse struct {
	Records   []RecordEnvelope `json:"records"`
	Stats     stdfile.Stats    `json:"stats"`
	ByteOrder string           `json:"byte_order"`
}

// EncodeRequest asks for one record to be encoded. Fields uses the STDF
// field names as keys.
type EncodeRequest struct {
	Type   string         `json:"type"`
	Fields map[string]any `json:"fields"`
}

// AddFileRequest asks the server to index a file it can read.
type AddFileRequest struct {
	Path string `json:"path"`
}

// TypeInfo describes one registered record type.
type TypeInfo struct {
	Name        string      `json:"name"`
	Type        uint8       `json:"rec_typ"`
	Sub         uint8       `json:"rec_sub"`
	Description string      `json:"description"`
	Generic     bool        `json:"generic,omitempty"`
	Fields      []FieldInfo `json:"fields,omitempty"`
}

// FieldInfo describes one field of a record layout.
type FieldInfo struct {
	Order int    `json:"order"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

// EntryResponse lists the positions of one record type in an indexed file.
type EntryResponse struct {
	File    string        `json:"file"`
	Type    string        `json:"type"`
	Entries []index.Entry `json:"entries"`
}
