package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

type LoaderConfig struct {
	// DefaultLocale is used when the path has no locale directory.
	DefaultLocale string
	// Locales are the directory names recognised as locales, e.g. ["fr", "en"].
	Locales []string
	// Pattern limits discovered files, "*.md" by default.
	Pattern   string
	Recursive bool
}

// Loader reads article files from a filesystem.
type Loader struct {
	fs            fs.FS
	defaultLocale string
	locales       []string
	pattern       string
	recursive     bool
}

func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}
	return &Loader{
		fs:            filesystem,
		defaultLocale: cfg.DefaultLocale,
		locales:       append([]string(nil), cfg.Locales...),
		pattern:       pattern,
		recursive:     cfg.Recursive,
	}
}

// LoadFile reads and parses one file. name is slash separated and relative
// to the loader filesystem.
func (l *Loader) LoadFile(ctx context.Context, name string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = path.Clean(strings.TrimPrefix(name, "./"))

	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", name, err)
	}
	info, err := fs.Stat(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", name, err)
	}

	doc, err := BuildDocument(name, l.detectLocale(name), data, info.ModTime())
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]
	return doc, nil
}

// Translation returns the file for locale next to name, e.g. en/post.md for
// post.md, if it exists.
func (l *Loader) Translation(ctx context.Context, name, locale string) (*Document, bool, error) {
	name = path.Clean(strings.TrimPrefix(name, "./"))
	candidate := path.Join(path.Dir(name), locale, path.Base(name))
	if _, err := fs.Stat(l.fs, candidate); err != nil {
		return nil, false, nil
	}
	doc, err := l.LoadFile(ctx, candidate)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

// LoadDirectory parses every matching file under dir, sorted by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*Document, error) {
	root := path.Clean(strings.TrimPrefix(dir, "./"))
	if root == "" {
		root = "."
	}

	var docs []*Document
	walkErr := fs.WalkDir(l.fs, root, func(name string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if name != root && !l.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if match, _ := path.Match(l.pattern, path.Base(name)); !match {
			return nil
		}
		doc, err := l.LoadFile(ctx, name)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].FilePath < docs[j].FilePath
	})
	return docs, nil
}

func (l *Loader) detectLocale(name string) string {
	segments := strings.Split(path.Dir(name), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		for _, locale := range l.locales {
			if segments[i] == locale {
				return locale
			}
		}
	}
	return l.defaultLocale
}
