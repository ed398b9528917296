// Package documents stores uploaded course material on the local filesystem.
package documents

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/set-night/eduassist/internal/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const timestampLayout = "20060102150405"

type Store struct {
	dir      string
	maxBytes int64
	allowed  []string
	now      func() time.Time
}

// NewStore creates dir if needed.
func NewStore(dir string, maxBytes int64, allowed []string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes, allowed: allowed, now: time.Now}, nil
}

func (s *Store) MaxBytes() int64 { return s.maxBytes }

func (s *Store) AllowedTypes() []string { return slices.Clone(s.allowed) }

// Allowed reports whether name carries an allowed extension.
func (s *Store) Allowed(name string) bool {
	ext := extension(name)
	return ext != "" && slices.Contains(s.allowed, ext)
}

// Save writes r under a sanitized, timestamp-prefixed name.
func (s *Store) Save(name string, r io.Reader) (domain.Document, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Document{}, domain.ErrEmptyFileName
	}
	if !s.Allowed(name) {
		return domain.Document{}, domain.ErrFileTypeNotAllowed
	}

	clean := SanitizeFilename(name)
	if clean == "" || !s.Allowed(clean) {
		return domain.Document{}, domain.ErrFileTypeNotAllowed
	}

	stamp := s.now().Format(timestampLayout)
	f, path, err := s.create(stamp + "_" + clean)
	if errors.Is(err, os.ErrExist) {
		f, path, err = s.create(stamp + "_" + uuid.NewString()[:8] + "_" + clean)
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("create document: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil && n > s.maxBytes {
		err = domain.ErrFileTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		if errors.Is(err, domain.ErrFileTooLarge) {
			return domain.Document{}, err
		}
		return domain.Document{}, fmt.Errorf("write document: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("stat document: %w", err)
	}
	return toDocument(path, info), nil
}

func (s *Store) create(name string) (*os.File, string, error) {
	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	return f, path, err
}

// List returns the allowed files in the upload directory, oldest name first.
func (s *Store) List() ([]domain.Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	docs := make([]domain.Document, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || !s.Allowed(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		docs = append(docs, toDocument(filepath.Join(s.dir, e.Name()), info))
	}
	return docs, nil
}

func toDocument(path string, info os.FileInfo) domain.Document {
	return domain.Document{
		Filename: info.Name(),
		Filepath: path,
		Size:     info.Size(),
		Type:     extension(info.Name()),
		Modified: info.ModTime(),
	}
}

func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// SanitizeFilename reduces name to ASCII letters, digits, '.', '-' and '_'.
// Path separators become spaces and whitespace runs become a single '_'.
// Leading dots and underscores are dropped so the result never hides or escapes.
func SanitizeFilename(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), name)
	if err != nil {
		folded = name
	}
	folded = strings.NewReplacer("/", " ", "\\", " ").Replace(folded)

	var b strings.Builder
	for _, field := range strings.Fields(folded) {
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		for _, r := range field {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_') {
				b.WriteRune(r)
			}
		}
	}
	return strings.TrimLeft(b.String(), "._")
}
