package storagesvc

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/event"
)

// LocalFileStorage stores uploaded files under conf.MediaRoot and returns a
// path relative to it as the stable reference.
type LocalFileStorage struct {
	root string
}

var _ event.FileStorage = (*LocalFileStorage)(nil)

func NewLocalFileStorage(conf *core.Config) (*LocalFileStorage, error) {
	root := conf.MediaRoot
	if !filepath.IsAbs(root) {
		root = filepath.Join(conf.WorkDir, root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating media root")
	}
	return &LocalFileStorage{root: root}, nil
}

func (s *LocalFileStorage) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	// uploads keep their extension but never their name
	ref := uuid.New().String() + strings.ToLower(filepath.Ext(name))

	f, err := os.Create(filepath.Join(s.root, ref))
	if err != nil {
		return "", errors.Wrap(err, "creating media file")
	}
	defer f.Close()

	if _, err = io.Copy(f, r); err != nil {
		return "", errors.Wrap(err, "writing media file")
	}
	return ref, nil
}

func (s *LocalFileStorage) Remove(ctx context.Context, ref string) error {
	// refs are generated server-side; reject anything that escapes the root
	path := filepath.Join(s.root, filepath.Base(ref))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing media file")
	}
	return nil
}
