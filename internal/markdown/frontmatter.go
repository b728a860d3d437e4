package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block of an article file.
type FrontMatter struct {
	Title           string
	TitleEN         string
	Slug            string
	MetaTitle       string
	MetaDescription string
	Image           string
	Tags            []string
	UserID          int
	Date            time.Time
	Draft           bool
	Custom          map[string]any
}

// ParseFrontMatter splits source into its metadata and Markdown body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// Document is one parsed article file. Locale is inferred from the path.
type Document struct {
	FilePath     string
	Locale       string
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
	Checksum     []byte
}

// BuildDocument parses source into a Document. Bodies stay Markdown; callers
// render on demand.
func BuildDocument(path string, locale string, source []byte, modified time.Time) (*Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &Document{
		FilePath:     path,
		Locale:       locale,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title           string         `yaml:"title"`
	TitleEN         string         `yaml:"title_en"`
	Slug            string         `yaml:"slug"`
	MetaTitle       string         `yaml:"meta_title"`
	MetaDescription string         `yaml:"meta_description"`
	Summary         string         `yaml:"summary"`
	Image           string         `yaml:"image"`
	Tags            []string       `yaml:"tags"`
	UserID          int            `yaml:"user_id"`
	Date            time.Time      `yaml:"date"`
	Draft           bool           `yaml:"draft"`
	Custom          map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) FrontMatter {
	description := env.MetaDescription
	if description == "" {
		description = env.Summary
	}
	custom := map[string]any{}
	if env.Custom != nil {
		custom = maps.Clone(env.Custom)
	}

	return FrontMatter{
		Title:           env.Title,
		TitleEN:         env.TitleEN,
		Slug:            env.Slug,
		MetaTitle:       env.MetaTitle,
		MetaDescription: description,
		Image:           env.Image,
		Tags:            append([]string(nil), env.Tags...),
		UserID:          env.UserID,
		Date:            env.Date,
		Draft:           env.Draft,
		Custom:          custom,
	}
}
