package detection

import (
	"context"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/roarscore/roarscore-api/schema"
)

type fileSource struct {
	root string
}

// NewFileSource reads detection files from disk. Schedule urls are paths
// relative to root, optionally prefixed with file://.
func NewFileSource(root string) Source {
	return &fileSource{root: root}
}

func (s fileSource) Fetch(ctx context.Context, url string) ([]schema.DetectionRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := strings.TrimPrefix(url, "file://")
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}

	d, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	return decode(path, d)
}
