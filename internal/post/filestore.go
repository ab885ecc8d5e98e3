package post

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"horse.fit/quill/internal/postschema"
)

// HTMLRenderer turns comment Markdown into HTML.
type HTMLRenderer interface {
	Render(src string) (string, error)
}

type document struct {
	PayloadVersion string `json:"payload_version"`
	*Post
}

// FileStore reads a post from one JSON file and writes it back, optionally to
// a different path.
type FileStore struct {
	path     string
	outPath  string
	renderer HTMLRenderer
	now      func() time.Time
}

// NewFileStore reads from path and saves to outPath (path when blank).
// A nil renderer leaves comment HTML untouched.
func NewFileStore(path, outPath string, renderer HTMLRenderer) *FileStore {
	out := strings.TrimSpace(outPath)
	if out == "" {
		out = path
	}
	return &FileStore{
		path:     path,
		outPath:  out,
		renderer: renderer,
		now:      time.Now,
	}
}

func (s *FileStore) Path() string {
	return s.path
}

// OutPath is where SavePost writes.
func (s *FileStore) OutPath() string {
	return s.outPath
}

// Load reads and validates the post document.
func (s *FileStore) Load(_ context.Context) (*Post, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read post file: %w", err)
	}
	if err := postschema.Validate(raw); err != nil {
		return nil, fmt.Errorf("validate %s: %w", s.path, err)
	}

	doc := document{Post: &Post{}}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode post file: %w", err)
	}
	return doc.Post, nil
}

// SavePost re-renders comment HTML and writes the post atomically.
func (s *FileStore) SavePost(_ context.Context, p *Post) error {
	if p == nil {
		return fmt.Errorf("post is nil")
	}

	if s.renderer != nil {
		for i := range p.Comments {
			html, err := s.renderer.Render(p.Comments[i].Content)
			if err != nil {
				return fmt.Errorf("render comment %d: %w", p.Comments[i].ID, err)
			}
			p.Comments[i].ContentHTML = html
		}
	}
	updated := s.now().UTC()
	p.UpdatedAt = &updated

	raw, err := json.MarshalIndent(document{PayloadVersion: postschema.PayloadVersion, Post: p}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode post: %w", err)
	}
	raw = append(raw, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.outPath), ".post-*.json")
	if err != nil {
		return fmt.Errorf("create temp post file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp post file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp post file: %w", err)
	}
	if err := os.Rename(tmpName, s.outPath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace post file: %w", err)
	}
	return nil
}
