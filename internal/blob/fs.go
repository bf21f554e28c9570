package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// filesystemStore keeps each object as a file under root with a JSON sidecar
// (key + ".meta") for content type and user metadata. Put replaces any
// existing object; artifact keys carry a job id so collisions only happen on
// deliberate re-renders.
type filesystemStore struct {
	root string
}

// NewFilesystem returns a filesystem-backed store rooted at path, creating it
// if needed.
func NewFilesystem(root string) (Store, error) {
	if root == "" {
		root = "./blobdata"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &filesystemStore{root: root}, nil
}

func (s *filesystemStore) Driver() Driver { return DriverFilesystem }

// cleanKey rejects empty, absolute, and traversing keys.
func cleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key %s", key)
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid key %s escapes root", key)
	}
	return clean, nil
}

func (s *filesystemStore) paths(key string) (dataPath, metaPath string, err error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", "", err
	}
	dataPath = filepath.Join(s.root, k)
	metaPath = dataPath + ".meta"
	return
}

type sidecar struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ETag        string            `json:"etag"`
	Size        int64             `json:"size"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (s *filesystemStore) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Object, error) {
	dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return Object{}, err
	}
	// stream through a temp file so a failed write never clobbers the old object
	tmp, err := os.CreateTemp(filepath.Dir(dataPath), ".put-*")
	if err != nil {
		return Object{}, err
	}
	defer os.Remove(tmp.Name())
	digest := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, digest), r)
	if err != nil {
		tmp.Close()
		return Object{}, err
	}
	if err := tmp.Close(); err != nil {
		return Object{}, err
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return Object{}, err
	}
	now := time.Now().UTC()
	sc := sidecar{
		ContentType: opts.ContentType,
		Metadata:    cloneMetadata(opts.Metadata),
		ETag:        hex.EncodeToString(digest.Sum(nil)),
		Size:        size,
		UpdatedAt:   now,
	}
	raw, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return Object{}, err
	}
	if err := os.WriteFile(metaPath, raw, 0o644); err != nil {
		return Object{}, err
	}
	return s.object(key, sc), nil
}

func (s *filesystemStore) Get(ctx context.Context, key string) (Object, io.ReadCloser, error) {
	dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return Object{}, nil, err
	}
	file, err := os.Open(dataPath)
	if err != nil {
		return Object{}, nil, err
	}
	sc, err := readSidecar(metaPath)
	if err != nil {
		file.Close()
		return Object{}, nil, err
	}
	return s.object(key, sc), file, nil
}

func (s *filesystemStore) Head(ctx context.Context, key string) (Object, error) {
	_, metaPath, err := s.paths(key)
	if err != nil {
		return Object{}, err
	}
	sc, err := readSidecar(metaPath)
	if err != nil {
		return Object{}, err
	}
	return s.object(key, sc), nil
}

func (s *filesystemStore) Delete(ctx context.Context, key string) (bool, error) {
	dataPath, metaPath, err := s.paths(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(dataPath); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err := os.Remove(dataPath); err != nil {
		return false, err
	}
	os.Remove(metaPath)
	return true, nil
}

func (s *filesystemStore) List(ctx context.Context, prefix string) ([]Object, error) {
	var objects []Object
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".meta") {
			return nil
		}
		sc, err := readSidecar(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, strings.TrimSuffix(path, ".meta"))
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix == "" || strings.HasPrefix(key, prefix) {
			objects = append(objects, s.object(key, sc))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// SignedURL returns a pseudo URL for local development; there is no auth.
func (s *filesystemStore) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return s.localURL(key), nil
}

func (s *filesystemStore) object(key string, sc sidecar) Object {
	return Object{
		Key:          key,
		Size:         sc.Size,
		ContentType:  sc.ContentType,
		ETag:         sc.ETag,
		Metadata:     cloneMetadata(sc.Metadata),
		LastModified: sc.UpdatedAt,
		URL:          s.localURL(key),
	}
}

func (s *filesystemStore) localURL(key string) string {
	return (&url.URL{Scheme: "http", Host: "local.blob", Path: "/" + key}).String()
}

func readSidecar(path string) (sidecar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return sidecar{}, err
	}
	var sc sidecar
	if err := json.Unmarshal(raw, &sc); err != nil {
		return sidecar{}, err
	}
	return sc, nil
}

func cloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
