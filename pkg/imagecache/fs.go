package imagecache

import (
	"context"
	"io/ioutil"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileStore keeps images in a local directory which is served over HTTP
// at BaseURL (e.g., http://localhost:3000/images).
type FileStore struct {
	dir     string
	baseURL string
}

func NewFileStore(dir, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating image directory %s", dir)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.Wrapf(err, "parsing image base URL %s", baseURL)
	}
	return &FileStore{dir: dir, baseURL: baseURL}, nil
}

// Dir is the directory images are kept in.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.dir, key))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, errors.Wrapf(err, "checking for %s", key)
	}
}

// Put writes to a temporary file and renames it into place, so readers
// never see a partial image.
func (s *FileStore) Put(_ context.Context, key, _ string, data []byte) error {
	tmp, err := ioutil.TempFile(s.dir, ".incoming-")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", key)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", key)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", key)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		return errors.Wrapf(err, "moving %s into place", key)
	}
	return nil
}

func (s *FileStore) URL(_ context.Context, key string) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", err
	}
	u.Path = path.Join(u.Path, key)
	return u.String(), nil
}
