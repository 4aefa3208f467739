package dir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bnema/coverscreen/internal/domain"
	"github.com/bnema/coverscreen/internal/ports"
	"github.com/tidwall/jsonc"
)

const (
	DefaultDir       = "/tmp/cover_screen"
	descriptorSuffix = ".json"
	maxRecordBytes   = 1 << 20
)

// Source scans a directory of per-screen info files once per List call. Comments
// and trailing commas in the files are tolerated.
type Source struct {
	dir    string
	logger *slog.Logger
}

var _ ports.DescriptorSource = (*Source)(nil)

func New(dir string, logger *slog.Logger) *Source {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{dir: dir, logger: logger}
}

func (s *Source) Name() string {
	return "dir:" + s.dir
}

func (s *Source) List(ctx context.Context) ([]domain.DescriptorRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("screen info directory missing", "dir", s.dir)
			return nil, nil
		}
		return nil, fmt.Errorf("read screen info directory %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), descriptorSuffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	records := make([]domain.DescriptorRecord, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.dir, name)
		fields, err := readRecord(path)
		if err == nil {
			defaultID(fields, strings.TrimSuffix(name, descriptorSuffix))
		}
		records = append(records, domain.DescriptorRecord{Origin: path, Fields: fields, Err: err})
	}

	return records, nil
}

func readRecord(path string) (map[string]any, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat screen info: %w", err)
	}
	if info.Size() > maxRecordBytes {
		return nil, fmt.Errorf("screen info is %d bytes, limit is %d", info.Size(), maxRecordBytes)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read screen info: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(raw), &fields); err != nil {
		return nil, fmt.Errorf("decode screen info: %w", err)
	}
	if fields == nil {
		return nil, errors.New("screen info is not a JSON object")
	}

	return fields, nil
}

// defaultID names screens after their info file when the record carries no id.
func defaultID(fields map[string]any, stem string) {
	for _, key := range []string{"id", "name"} {
		if value, ok := fields[key].(string); ok && strings.TrimSpace(value) != "" {
			return
		}
	}
	fields["id"] = stem
}
