package localmedia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/speaking-practice-backend/internal/platform/ctxutil"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

const refScheme = "file://"

// Store keeps uploaded audio under a root directory on local disk.
// References have the form file://<key>, relative to the root.
type Store struct {
	root string
	log  *logger.Logger
}

func New(log *logger.Logger, root string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("localmedia: root dir required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("localmedia: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir root: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{root: abs, log: log.With("service", "LocalAudioStore")}, nil
}

func (s *Store) Root() string { return s.root }

func (s *Store) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	ctx = ctxutil.Default(ctx)
	path, err := s.pathFor(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	n, copyErr := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write audio: %w", errors.Join(copyErr, closeErr))
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("rename audio: %w", err)
	}
	s.log.Debug("Stored audio", "key", key, "bytes", n, "content_type", contentType)
	return refScheme + filepath.ToSlash(strings.TrimPrefix(path, s.root+string(filepath.Separator))), nil
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, refScheme) {
		return fmt.Errorf("localmedia: not a local ref: %q", ref)
	}
	path, err := s.pathFor(strings.TrimPrefix(ref, refScheme))
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove audio: %w", err)
	}
	return nil
}

// Open returns the stored bytes for a ref produced by Put.
func (s *Store) Open(ref string) (io.ReadCloser, error) {
	if !strings.HasPrefix(ref, refScheme) {
		return nil, fmt.Errorf("localmedia: not a local ref: %q", ref)
	}
	path, err := s.pathFor(strings.TrimPrefix(ref, refScheme))
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

func (s *Store) Close() error { return nil }

func (s *Store) pathFor(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(filepath.ToSlash(key)), "/")
	if key == "" {
		return "", fmt.Errorf("localmedia: empty key")
	}
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("localmedia: key escapes root: %q", key)
	}
	return path, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
