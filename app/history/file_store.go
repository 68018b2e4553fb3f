package history

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/lysyi3m/post-redactor/app/posts"
)

// FileStore keeps processed post URLs in a plain text file, one per line.
// Lines are only ever appended. When the file cannot be read the store starts
// empty and reports LoadFailed; when an append fails it keeps working in
// memory and reports itself as degraded.
type FileStore struct {
	path       string
	memory     *MemoryStore
	loadFailed bool
	degraded   bool
	mu         sync.Mutex
}

func OpenFileStore(path string) *FileStore {
	s := &FileStore{
		path:   path,
		memory: NewMemoryStore(),
	}

	if err := s.load(); err != nil {
		slog.Warn("Could not read processed posts log, continuing without it", "path", path, "error", err)
		s.loadFailed = true
	}

	return s
}

func (s *FileStore) load() error {
	file, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", posts.ErrStateIO, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.memory.insert(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %w", posts.ErrStateIO, err)
	}

	return nil
}

func (s *FileStore) Contains(url string) bool {
	return s.memory.Contains(url)
}

// Add records url in memory and appends it to the file. Known URLs are not
// written twice.
func (s *FileStore) Add(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.memory.insert(url) {
		return nil
	}

	if err := s.appendLine(url); err != nil {
		s.degraded = true
		return fmt.Errorf("%w: %w", posts.ErrStateIO, err)
	}
	return nil
}

func (s *FileStore) appendLine(url string) error {
	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}

	line := url + "\n"
	if info, err := file.Stat(); err == nil && info.Size() > 0 {
		last := make([]byte, 1)
		if _, err := file.ReadAt(last, info.Size()-1); err == nil && last[0] != '\n' {
			line = "\n" + line
		}
	}

	if _, err := file.WriteString(line); err != nil {
		file.Close()
		return fmt.Errorf("failed to append to %s: %w", s.path, err)
	}

	return file.Close()
}

func (s *FileStore) Len() int {
	return s.memory.Len()
}

// LoadFailed reports whether the existing file could not be read at open.
func (s *FileStore) LoadFailed() bool {
	return s.loadFailed
}

// Degraded reports whether an append failed, so some processed posts were
// not saved.
func (s *FileStore) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *FileStore) Path() string {
	return s.path
}
