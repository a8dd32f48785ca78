// Package media stores and resizes avatar and post images.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/disintegration/imaging"
)

var (
	ErrNotFound     = errors.New("object not found")
	ErrInvalidImage = errors.New("invalid image")
)

const (
	avatarSize     = 250
	postImageWidth = 600

	ContentTypePNG = "image/png"
)

// Store persists image bytes by key.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

func AvatarKey(userID string) string    { return fmt.Sprintf("avatars/%s.png", userID) }
func PostImageKey(postID string) string { return fmt.Sprintf("posts/%s.png", postID) }

// ResizeAvatar crops to a 250x250 square and re-encodes as PNG.
func ResizeAvatar(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return encodePNG(imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos))
}

// ResizePostImage scales to 600px wide keeping the aspect ratio, PNG encoded.
func ResizePostImage(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return encodePNG(imaging.Resize(img, postImageWidth, 0, imaging.Lanczos))
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// MemoryStore keeps objects in process; used when no object storage is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{objects: make(map[string][]byte)} }

func (s *MemoryStore) Put(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(data), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
