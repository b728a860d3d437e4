package markdown

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
)

const articleFixture = `---
title: Audit de sécurité
title_en: Security audit
slug: audit-securite
meta_title: "Cybersécurité | Audit"
summary: Pourquoi auditer
user_id: 3
tags: [audit, cyber]
reading_level: avance
---
# Audit de sécurité

Un audit **régulier** protège vos données.
`

func TestParseFrontMatter(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte(articleFixture))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Title != "Audit de sécurité" || fm.TitleEN != "Security audit" {
		t.Fatalf("unexpected titles %q %q", fm.Title, fm.TitleEN)
	}
	if fm.Slug != "audit-securite" || fm.UserID != 3 {
		t.Fatalf("unexpected slug or user %q %d", fm.Slug, fm.UserID)
	}
	if fm.MetaDescription != "Pourquoi auditer" {
		t.Fatalf("expected summary as meta description, got %q", fm.MetaDescription)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "audit" {
		t.Fatalf("unexpected tags %#v", fm.Tags)
	}
	if fm.Custom["reading_level"] != "avance" {
		t.Fatalf("expected custom key, got %#v", fm.Custom)
	}
	if !strings.Contains(string(body), "# Audit de sécurité") {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser(ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected heading, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected strong, got %q", got)
	}
}

func TestGoldmarkParser_SafeModeDropsRawHTML(t *testing.T) {
	parser := NewGoldmarkParser(ParseOptions{SafeMode: true})

	html, err := parser.Parse([]byte("<script>alert(1)</script>\n\ntext"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Fatalf("expected raw html omitted, got %q", html)
	}
}

func TestGoldmarkParser_HardWraps(t *testing.T) {
	parser := NewGoldmarkParser(ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("line one\nline two"), ParseOptions{HardWraps: true})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wraps, got %q", html)
	}
}

func TestGoldmarkParser_RenderHTML(t *testing.T) {
	parser := NewGoldmarkParser(ParseOptions{})

	out, err := parser.RenderHTML("Un **article** publié")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(string(out), "<strong>article</strong>") {
		t.Fatalf("unexpected html %q", out)
	}
	if blank, err := parser.RenderHTML("  \n "); err != nil || blank != "" {
		t.Fatalf("expected empty fragment, got %q (%v)", blank, err)
	}
}

func TestLoaderReadsFilesAndTranslations(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/audit.md":    {Data: []byte(articleFixture)},
		"posts/en/audit.md": {Data: []byte("---\ntitle: Security audit\n---\nRegular audits.\n")},
		"posts/notes.txt":   {Data: []byte("ignored")},
	}
	loader := NewLoader(fsys, LoaderConfig{DefaultLocale: "fr", Locales: []string{"fr", "en"}})

	doc, err := loader.LoadFile(context.Background(), "posts/audit.md")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if doc.Locale != "fr" || len(doc.Checksum) == 0 {
		t.Fatalf("unexpected document %+v", doc)
	}

	en, ok, err := loader.Translation(context.Background(), "posts/audit.md", "en")
	if err != nil || !ok {
		t.Fatalf("expected english translation, ok=%v err=%v", ok, err)
	}
	if en.Locale != "en" || en.FrontMatter.Title != "Security audit" {
		t.Fatalf("unexpected translation %+v", en.FrontMatter)
	}

	docs, err := loader.LoadDirectory(context.Background(), "posts")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 1 || docs[0].FilePath != "posts/audit.md" {
		t.Fatalf("expected only the top-level markdown file, got %d", len(docs))
	}
}
