package report

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/files"
	"github.com/fleetwatch/fleetwatch/internal/perms"
)

var _ Store = (*FileStore)(nil)

const fileExt = ".json"

//go:embed schema/report.schema.json
var reportSchema []byte

// Schema returns the JSON schema every archived report document conforms to.
func Schema() []byte {
	return bytes.Clone(reportSchema)
}

// FileStore keeps one JSON document per report, each readable only by the current user.
// The directory is created on the first write, so reading from or building a store never
// touches the disk. NewFileStore should be used to create instances of FileStore.
type FileStore struct {
	logger hclog.Logger
	dir    string
	schema *gojsonschema.Schema

	mu       sync.Mutex
	prepared bool
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(logger hclog.Logger, dir string) (*FileStore, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("report directory cannot be empty")
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(reportSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile report schema: %w", err)
	}

	return &FileStore{
		logger: logger.Named("files"),
		dir:    dir,
		schema: schema,
	}, nil
}

// prepare creates the report directory, or checks that only its owner can write to it.
// A failure is retried on the next write.
func (s *FileStore) prepare() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prepared {
		return nil
	}

	if err := files.EnsureOwnerWritableDir(s.dir); err != nil {
		return fmt.Errorf("failed to prepare report directory: %w", err)
	}

	s.prepared = true
	return nil
}

func (s *FileStore) Put(ctx context.Context, r domain.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.path(r.ID)
	if err != nil {
		return err
	}

	if err := s.prepare(); err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", errExists, r.ID)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report %s: %w", r.ID, err)
	}

	if err := s.validate(data); err != nil {
		return fmt.Errorf("report %s: %w", r.ID, err)
	}

	if err := files.WriteFileAtomic(path, data, perms.SecureFile); err != nil {
		return err
	}

	s.logger.Debug("Wrote report", "id", r.ID, "path", path, "bytes", len(data))
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return domain.Report{}, err
	}

	path, err := s.path(id)
	if err != nil {
		return domain.Report{}, fmt.Errorf("%w: %w", errNotFound, err)
	}

	return s.read(path)
}

func (s *FileStore) Summaries(ctx context.Context) ([]domain.ReportSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.ReportSummary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report directory: %w", err)
	}

	out := make([]domain.ReportSummary, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}

		r, err := s.read(filepath.Join(s.dir, e.Name()))
		if err != nil {
			s.logger.Warn("Skipping unreadable report", "file", e.Name(), "error", err)
			continue
		}
		out = append(out, r.Summary())
	}

	return out, nil
}

func (s *FileStore) read(path string) (domain.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Report{}, fmt.Errorf("%w: %s", errNotFound, filepath.Base(path))
		}
		return domain.Report{}, fmt.Errorf("failed to read report: %w", err)
	}

	if err := s.validate(data); err != nil {
		return domain.Report{}, fmt.Errorf("report %s: %w", filepath.Base(path), err)
	}

	var r domain.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return domain.Report{}, fmt.Errorf("failed to decode report %s: %w", filepath.Base(path), err)
	}

	return r, nil
}

// validate checks a report document against the report schema.
func (s *FileStore) validate(data []byte) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("invalid report document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}

	return fmt.Errorf("invalid report document: %s", strings.Join(problems, "; "))
}

// path maps an id to its document, rejecting ids that could escape the directory.
func (s *FileStore) path(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || id != filepath.Base(id) || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid report id '%s'", id)
	}
	return filepath.Join(s.dir, id+fileExt), nil
}
