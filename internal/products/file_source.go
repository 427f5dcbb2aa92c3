package products

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/catalogd/catalogd/internal/catalog"
)

// FileSource re-reads and re-parses the catalog file on every Load.
type FileSource struct {
	path   string
	format catalog.Format
	parser *catalog.Parser
}

func NewFileSource(path string) (*FileSource, error) {
	format, err := catalog.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{
		path:   path,
		format: format,
		parser: catalog.NewParser(),
	}, nil
}

func (s *FileSource) Path() string {
	return s.path
}

func (s *FileSource) Load(ctx context.Context) ([]catalog.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrDataNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	products, err := s.parser.Parse(content, s.format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	return products, nil
}
