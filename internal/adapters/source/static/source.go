package static

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/coverscreen/internal/domain"
	"github.com/bnema/coverscreen/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

type schema struct {
	Screens []map[string]any `toml:"screens"`
}

// Source reads a fixed screen list from a TOML file of [[screens]] tables.
type Source struct {
	path string
}

var _ ports.DescriptorSource = (*Source)(nil)

func New(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Name() string {
	return "static:" + s.path
}

func (s *Source) List(ctx context.Context) ([]domain.DescriptorRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.path) == "" {
		return nil, errors.New("static screen file is not configured")
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read static screen file: %w", err)
	}

	var doc schema
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode static screen file: %w", err)
	}

	records := make([]domain.DescriptorRecord, 0, len(doc.Screens))
	for i, fields := range doc.Screens {
		records = append(records, domain.DescriptorRecord{
			Origin: fmt.Sprintf("%s#screens[%d]", s.path, i),
			Fields: fields,
		})
	}

	return records, nil
}
