package stdfile

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ssargent/stdfkit/pkg/codec"
	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/schema"
)

const defaultBufferSize = 64 * 1024

// Writer appends encoded records to an STDF stream. It is safe for concurrent
// use; each record is written whole.
type Writer struct {
	file       *os.File // nil when writing to a caller's io.Writer
	writer     *bufio.Writer
	codec      *codec.RecordCodec
	fsyncTimer *time.Timer
	config     WriterConfig
	observer   Observer
	sugar      *zap.SugaredLogger
	mutex      sync.Mutex
	offset     int64 // Current write offset
}

// Create creates (or truncates) config.FilePath and returns a writer for it.
func Create(reg *schema.Registry, config WriterConfig) (*Writer, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0750); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, err
	}

	w := newWriter(file, reg, config)
	w.file = file

	// Set up fsync timer if interval is configured
	if config.FsyncInterval > 0 {
		w.fsyncTimer = time.AfterFunc(config.FsyncInterval, func() {
			w.mutex.Lock()
			defer w.mutex.Unlock()
			if err := w.sync(); err != nil {
				w.sugar.Warnw("background fsync failed", "path", config.FilePath, "err", err)
			}
		})
	}
	return w, nil
}

// NewWriter returns a writer that encodes into dst. Close flushes but does not
// close dst.
func NewWriter(dst io.Writer, reg *schema.Registry, config WriterConfig) *Writer {
	return newWriter(dst, reg, config)
}

func newWriter(dst io.Writer, reg *schema.Registry, config WriterConfig) *Writer {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	observer := config.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	size := config.BufferSize
	if size <= 0 {
		size = defaultBufferSize
	}
	return &Writer{
		writer:   bufio.NewWriterSize(dst, size),
		codec:    codec.NewRecordCodec(reg, codec.Options{}),
		config:   config,
		observer: observer,
		sugar:    logger.Sugar(),
	}
}

// Write encodes rec and appends it, returning the offset of its header.
// Nothing is written when encoding fails.
func (w *Writer) Write(rec record.Record) (int64, error) {
	// Encode outside the lock; Marshal is pure
	data, err := w.codec.Marshal(rec, w.config.Cursor)
	if err != nil {
		return 0, err
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	n, err := w.writer.Write(data)
	if err != nil {
		return 0, err
	}

	// Calculate the offset where this record starts
	recordOffset := w.offset
	w.offset += int64(n)
	w.observer.ObserveEncoded(record.Name(rec))

	// Without an interval durability waits for Sync or Close
	if w.fsyncTimer != nil {
		w.fsyncTimer.Reset(w.config.FsyncInterval)
	}

	return recordOffset, nil
}

// WriteAll writes records in order and stops at the first failure.
func (w *Writer) WriteAll(recs ...record.Record) error {
	for _, rec := range recs {
		if _, err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered records to the destination.
func (w *Writer) Flush() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.writer.Flush()
}

// Sync flushes and, for files, forces an fsync to disk
func (w *Writer) Sync() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.sync()
}

// sync performs the actual fsync operation (internal method)
func (w *Writer) sync() error {
	// Flush buffered writes
	if err := w.writer.Flush(); err != nil {
		return err
	}
	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}

// Close syncs pending records and closes the file Create opened.
func (w *Writer) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	// Cancel fsync timer
	if w.fsyncTimer != nil {
		w.fsyncTimer.Stop()
	}

	if err := w.sync(); err != nil {
		if w.file != nil {
			if closeErr := w.file.Close(); closeErr != nil {
				w.sugar.Warnw("close after failed sync", "path", w.config.FilePath, "err", closeErr)
			}
		}
		return err
	}

	if w.file == nil {
		return nil
	}
	w.sugar.Debugw("closed stdf file", "path", w.config.FilePath, "bytes", w.offset)
	return w.file.Close()
}

// Size returns the number of bytes written so far
func (w *Writer) Size() int64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.offset
}

// Path returns the file path
func (w *Writer) Path() string {
	return w.config.FilePath
}
