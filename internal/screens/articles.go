package screens

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-cms-admin/internal/domain"
	"github.com/goliatone/go-cms-admin/internal/markdown"
	"github.com/goliatone/go-cms-admin/internal/reconcile"
	"github.com/goliatone/go-cms-admin/internal/remote"
)

const (
	articleLocale     = "fr"
	articleLocaleEN   = "en"
	publicationLayout = "2006-01-02"
)

// Articles is the blog administration screen.
type Articles struct {
	*Screen[domain.Article, domain.ArticleInput]
}

func NewArticles(deps Deps) *Articles {
	return &Articles{Screen: newScreen(deps, domain.ResourceArticles, screenConfig[domain.Article, domain.ArticleInput]{
		fields:     domain.ArticleFields,
		label:      func(a domain.Article) string { return a.Titre },
		loadFailed: "Erreur lors du chargement des articles",
		reconcile: []reconcile.Option[domain.Article, domain.ArticleInput]{
			reconcile.WithMessages[domain.Article, domain.ArticleInput](reconcile.Messages{
				Created: "Article créé avec succès",
				Updated: "Article mis à jour avec succès",
				Deleted: "Article supprimé avec succès",
			}),
		},
	})}
}

// ImportMarkdown creates an article from a Markdown file with front matter.
// An en/{name} file next to it fills the English title and body. userID is
// the author when the front matter names none.
func (a *Articles) ImportMarkdown(ctx context.Context, fsys fs.FS, name string, userID int) (domain.Article, error) {
	in, closeImage, err := ArticleFromMarkdown(ctx, fsys, name)
	if err != nil {
		a.logger.Error("articles.import.failed", "file", name, "error", err)
		a.fail("Impossible de lire le fichier " + path.Base(name))
		return domain.Article{}, err
	}
	defer closeImage()
	if in.UserID == 0 {
		in.UserID = userID
	}
	return a.Create(ctx, in)
}

// ArticleFromMarkdown builds the create form of an article file. The returned
// func closes the attached image, if any.
func ArticleFromMarkdown(ctx context.Context, fsys fs.FS, name string) (domain.ArticleInput, func(), error) {
	noop := func() {}
	loader := markdown.NewLoader(fsys, markdown.LoaderConfig{
		DefaultLocale: articleLocale,
		Locales:       []string{articleLocale, articleLocaleEN},
	})
	doc, err := loader.LoadFile(ctx, name)
	if err != nil {
		return domain.ArticleInput{}, noop, err
	}
	fm := doc.FrontMatter
	in := domain.ArticleInput{
		UserID:          fm.UserID,
		Titre:           fm.Title,
		TitreEN:         fm.TitleEN,
		Contenu:         strings.TrimSpace(string(doc.Body)),
		MetaTitre:       fm.MetaTitle,
		MetaDescription: fm.MetaDescription,
		Slug:            fm.Slug,
	}
	if !fm.Date.IsZero() {
		in.DatePublication = fm.Date.Format(publicationLayout)
	}

	en, ok, err := loader.Translation(ctx, name, articleLocaleEN)
	if err != nil {
		return domain.ArticleInput{}, noop, err
	}
	if ok {
		if in.TitreEN == "" {
			in.TitreEN = en.FrontMatter.Title
		}
		in.ContenuEN = strings.TrimSpace(string(en.Body))
	}

	if fm.Image == "" {
		return in, noop, nil
	}
	imagePath := path.Join(path.Dir(doc.FilePath), fm.Image)
	file, err := fsys.Open(imagePath)
	if err != nil {
		return domain.ArticleInput{}, noop, fmt.Errorf("open article image %s: %w", imagePath, err)
	}
	in.Image = &remote.File{Field: "image", Name: path.Base(imagePath), Contents: file}
	return in, func() { _ = file.Close() }, nil
}
