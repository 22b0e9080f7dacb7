package report

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/toolpin/internal/output"
)

// Sink receives labeled toolchain reports.
type Sink interface {
	Record(label, value string) error
}

// Flusher is a Sink that buffers and must be flushed at the end of a build.
type Flusher interface {
	Flush() error
}

type discardSink struct{}

func (discardSink) Record(string, string) error { return nil }

// Discard drops every report.
var Discard Sink = discardSink{}

// WriterSink prints reports as summary items.
type WriterSink struct {
	mu sync.Mutex
	w  *output.Writer
}

// NewWriterSink creates a sink printing to w.
func NewWriterSink(w *output.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Record implements Sink.
func (s *WriterSink) Record(label, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.SummaryItem(label, value)
	return nil
}

// LogSink logs reports at info level.
type LogSink struct {
	Logger *slog.Logger
}

// Record implements Sink.
func (s LogSink) Record(label, value string) error {
	if s.Logger == nil {
		return nil
	}
	s.Logger.Info("toolchain resolved", "label", label, "value", value)
	return nil
}

// Entry is a label and value pair.
type Entry struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// MemorySink keeps reports in memory.
type MemorySink struct {
	mu      sync.Mutex
	entries []Entry
}

// Record implements Sink.
func (s *MemorySink) Record(label, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{Label: label, Value: value})
	return nil
}

// Entries returns the recorded entries in order.
func (s *MemorySink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]Entry, len(s.entries))
	copy(result, s.entries)
	return result
}

// DefaultFile is the report file used when the configuration enables the file
// sink without a path.
const DefaultFile = "build/toolpin/toolchains.yaml"

// fileDocument is the report file layout.
type fileDocument struct {
	Toolchains []Entry `json:"toolchains" yaml:"toolchains"`
}

// FileSink collects reports and writes them on Flush. The format follows the file
// extension: ".json" writes JSON, anything else YAML.
type FileSink struct {
	Path string

	mu      sync.Mutex
	entries []Entry
}

// NewFileSink creates a sink writing to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

// Record implements Sink.
func (s *FileSink) Record(label, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{Label: label, Value: value})
	return nil
}

// Flush writes the collected reports. A build without reports writes an empty list.
func (s *FileSink) Flush() error {
	s.mu.Lock()
	doc := fileDocument{Toolchains: append([]Entry{}, s.entries...)}
	s.mu.Unlock()

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(s.Path), ".json") {
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// ReadFile reads a report file written by FileSink.
func ReadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc fileDocument
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return doc.Toolchains, nil
}

// MultiSink fans reports out to several sinks. Every sink is called even when an
// earlier one fails or panics; the errors are joined.
type MultiSink []Sink

// Record implements Sink.
func (m MultiSink) Record(label, value string) error {
	var errs []error
	for _, s := range m {
		if err := safeRecord(s, label, value); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// safeRecord calls s, converting a panic into an error.
func safeRecord(s Sink, label, value string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("sink panicked: %v", p)
		}
	}()
	return s.Record(label, value)
}

// Flush flushes every sink that buffers.
func (m MultiSink) Flush() error {
	var errs []error
	for _, s := range m {
		if f, ok := s.(Flusher); ok {
			if err := f.Flush(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return stderrors.Join(errs...)
}
