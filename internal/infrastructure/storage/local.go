// Package storage keeps uploaded decree files on the local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

const maxNameLength = 120

// Folders lists the sub-directories every upload root must contain.
var Folders = []string{ports.FolderExcel, ports.FolderPDF, ports.FolderImages}

// LocalStore stores files below root. Stored paths are relative to root and
// use forward slashes.
type LocalStore struct {
	root    string
	baseURL string
	now     func() time.Time
}

func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// Root returns the upload directory.
func (s *LocalStore) Root() string { return s.root }

// EnsureFolders creates the root and its sub-folders when missing.
func (s *LocalStore) EnsureFolders() error {
	for _, f := range Folders {
		if err := os.MkdirAll(filepath.Join(s.root, f), 0o755); err != nil {
			return fmt.Errorf("create upload folder %s: %w", f, err)
		}
	}
	return nil
}

// Save writes r to folder/<unix-ms>_<sanitized name>. A numeric suffix is
// added when that name is already taken.
func (s *LocalStore) Save(ctx context.Context, folder, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}

	base := strconv.FormatInt(s.now().UnixMilli(), 10) + "_" + SanitizeName(name)
	f, stored, err := createUnique(dir, base)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(filepath.Join(dir, stored))
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(filepath.Join(dir, stored))
		return "", fmt.Errorf("close upload: %w", err)
	}

	return path.Join(folder, stored), nil
}

func createUnique(dir, base string) (*os.File, string, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	name := base
	for i := 1; ; i++ {
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, fs.ErrExist) || i > 100 {
			return nil, "", fmt.Errorf("create upload: %w", err)
		}
		name = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
}

// Open returns the stored file. Missing files and paths escaping the root
// yield domain.ErrFileNotFound.
func (s *LocalStore) Open(p string) (io.ReadCloser, error) {
	full, ok := s.resolve(p)
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes a stored file; a file that is already gone is not an error.
func (s *LocalStore) Remove(p string) error {
	full, ok := s.resolve(p)
	if !ok {
		return domain.ErrFileNotFound
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Walk calls fn for every regular file below the root.
func (s *LocalStore) Walk(fn func(ports.StoredFile) error) error {
	return filepath.WalkDir(s.root, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && full == s.root {
				return nil
			}
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, full)
		if err != nil {
			return err
		}
		return fn(ports.StoredFile{
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	})
}

// URL returns the public address of a stored file.
func (s *LocalStore) URL(p string) string {
	if p == "" {
		return ""
	}
	return s.baseURL + "/" + strings.TrimLeft(p, "/")
}

func (s *LocalStore) resolve(p string) (string, bool) {
	clean := path.Clean("/" + filepath.ToSlash(p))
	if clean == "/" {
		return "", false
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), true
}

// Check verifies the root exists, is writable and holds every sub-folder.
// It returns one problem per failed check.
func (s *LocalStore) Check() []error {
	var problems []error

	info, err := os.Stat(s.root)
	if err != nil {
		return []error{fmt.Errorf("upload directory %s: %w", s.root, err)}
	}
	if !info.IsDir() {
		return []error{fmt.Errorf("upload directory %s is not a directory", s.root)}
	}

	tmp, err := os.CreateTemp(s.root, ".write-check-*")
	if err != nil {
		problems = append(problems, fmt.Errorf("upload directory %s is not writable: %w", s.root, err))
	} else {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	for _, f := range Folders {
		fi, err := os.Stat(filepath.Join(s.root, f))
		switch {
		case err != nil:
			problems = append(problems, fmt.Errorf("folder %s: %w", f, err))
		case !fi.IsDir():
			problems = append(problems, fmt.Errorf("folder %s is not a directory", f))
		}
	}
	return problems
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeName reduces an uploaded file name to ASCII letters, digits, dots,
// dashes and underscores.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if folded, _, err := transform.String(stripMarks, name); err == nil {
		name = folded
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		out = "file"
	}
	if len(out) > maxNameLength {
		ext := filepath.Ext(out)
		if len(ext) > 10 {
			ext = ""
		}
		out = out[:maxNameLength-len(ext)] + ext
	}
	return out
}
