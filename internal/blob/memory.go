package blob

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryObject struct {
	obj  Object
	data []byte
}

// memoryStore keeps objects in process memory. Intended for tests.
type memoryStore struct {
	mu   sync.RWMutex
	objs map[string]memoryObject
}

// NewMemory returns an in-memory blob store.
func NewMemory() Store { return &memoryStore{objs: make(map[string]memoryObject)} }

func (s *memoryStore) Driver() Driver { return DriverMemory }

func (s *memoryStore) Put(_ context.Context, key string, r io.Reader, opts PutOptions) (Object, error) {
	if _, err := cleanKey(key); err != nil {
		return Object{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Object{}, err
	}
	digest := sha256.Sum256(data)
	obj := Object{
		Key:          key,
		Size:         int64(len(data)),
		ContentType:  opts.ContentType,
		ETag:         hex.EncodeToString(digest[:]),
		Metadata:     cloneMetadata(opts.Metadata),
		LastModified: time.Now().UTC(),
	}
	s.mu.Lock()
	s.objs[key] = memoryObject{obj: obj, data: data}
	s.mu.Unlock()
	return obj, nil
}

func (s *memoryStore) Get(_ context.Context, key string) (Object, io.ReadCloser, error) {
	s.mu.RLock()
	entry, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return Object{}, nil, fmt.Errorf("blob %s not found", key)
	}
	data := make([]byte, len(entry.data))
	copy(data, entry.data)
	obj := entry.obj
	obj.Metadata = cloneMetadata(obj.Metadata)
	return obj, io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memoryStore) Head(_ context.Context, key string) (Object, error) {
	s.mu.RLock()
	entry, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return Object{}, fmt.Errorf("blob %s not found", key)
	}
	obj := entry.obj
	obj.Metadata = cloneMetadata(obj.Metadata)
	return obj, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objs[key]
	delete(s.objs, key)
	return ok, nil
}

func (s *memoryStore) List(_ context.Context, prefix string) ([]Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Object, 0, len(s.objs))
	for key, entry := range s.objs {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			obj := entry.obj
			obj.Metadata = cloneMetadata(obj.Metadata)
			out = append(out, obj)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *memoryStore) SignedURL(_ context.Context, _ string, _ time.Duration) (string, error) {
	return "", ErrUnsupported
}
