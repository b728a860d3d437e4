package site

import (
	"context"
	"html/template"

	"github.com/goliatone/go-cms-admin/internal/domain"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/markdown"
	"github.com/goliatone/go-cms-admin/internal/remote"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// Post is one article ready for display.
type Post struct {
	Article     domain.Article
	Category    string
	ReadingTime string
	Date        string
	Summary     string
	HTML        template.HTML
	Related     []domain.Article
}

// Site reads the public pages from the API.
type Site struct {
	articles *remote.Resource[domain.Article]
	services *remote.Resource[domain.Service]
	partners *remote.Resource[domain.Partner]
	parser   *markdown.GoldmarkParser
	logger   interfaces.Logger
}

type Option func(*Site)

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Site) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithParser(parser *markdown.GoldmarkParser) Option {
	return func(s *Site) {
		if parser != nil {
			s.parser = parser
		}
	}
}

func New(client *remote.Client, opts ...Option) *Site {
	s := &Site{
		articles: remote.NewResource[domain.Article](client, domain.ResourceArticles),
		services: remote.NewResource[domain.Service](client, domain.ResourceServices),
		partners: remote.NewResource[domain.Partner](client, domain.ResourcePartners),
		parser:   markdown.NewGoldmarkParser(markdown.ParseOptions{}),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Blog lists the articles of category with the first one featured.
func (s *Site) Blog(ctx context.Context, category string) (BlogIndex, error) {
	articles, err := s.articles.List(ctx)
	if err != nil {
		s.logger.WithContext(ctx).Error("site.blog.load_failed", "error", err)
		return BlogIndex{}, err
	}
	return SplitFeatured(FilterByCategory(articles, category)), nil
}

// Post loads one article, renders its body and picks related articles.
func (s *Site) Post(ctx context.Context, id int) (Post, error) {
	article, err := s.articles.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	body, err := s.parser.RenderHTML(article.Contenu)
	if err != nil {
		return Post{}, err
	}
	post := Post{
		Article:     article,
		Category:    Category(article),
		ReadingTime: ReadingTimeLabel(article.Contenu),
		Date:        FormatDate(article.DatePublication),
		Summary:     article.MetaDescription,
		HTML:        body,
	}
	if post.Summary == "" {
		post.Summary = Excerpt(article.Contenu, DetailExcerptLen)
	}
	all, err := s.articles.List(ctx)
	if err != nil {
		s.logger.WithContext(ctx).Warn("site.post.related_failed", "id", id, "error", err)
		post.Related = []domain.Article{}
		return post, nil
	}
	post.Related = Related(all, id)
	return post, nil
}

func (s *Site) Services(ctx context.Context, showAll bool) ([]domain.Service, bool, error) {
	services, err := s.services.List(ctx)
	if err != nil {
		return nil, false, err
	}
	shown, more := ServicesPreview(services, showAll)
	return shown, more, nil
}

func (s *Site) Partners(ctx context.Context) ([]CarouselEntry, error) {
	partners, err := s.partners.List(ctx)
	if err != nil {
		return nil, err
	}
	return Carousel(partners), nil
}
