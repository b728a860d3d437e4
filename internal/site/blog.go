package site

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/goliatone/go-cms-admin/internal/domain"
)

// Blog categories, in display order.
const (
	CategoryAll      = "Tous"
	CategoryAudit    = "Audit Interne"
	CategoryTraining = "Formation"
	CategoryRisk     = "Gestion des Risques"
	CategoryNews     = "Actualités"
	CategoryControl  = "Contrôle Interne"
)

var Categories = []string{CategoryAll, CategoryAudit, CategoryTraining, CategoryRisk, CategoryNews, CategoryControl}

const (
	wordsPerMinute   = 200
	ListExcerptLen   = 150
	DetailExcerptLen = 200
	maxRelated       = 3
	emptyContent     = "Aucun contenu disponible"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

var frenchMonths = [...]string{"janv.", "févr.", "mars", "avr.", "mai", "juin", "juil.", "août", "sept.", "oct.", "nov.", "déc."}

// Category derives the blog category from the meta title keywords.
func Category(article domain.Article) string {
	if strings.TrimSpace(article.MetaTitre) == "" {
		return CategoryNews
	}
	meta := cases.Lower(language.French).String(norm.NFC.String(article.MetaTitre))
	switch {
	case strings.Contains(meta, "audit"):
		return CategoryAudit
	case strings.Contains(meta, "formation"), strings.Contains(meta, "certification"):
		return CategoryTraining
	case strings.Contains(meta, "risque"):
		return CategoryRisk
	case strings.Contains(meta, "contrôle"):
		return CategoryControl
	}
	return CategoryNews
}

// ReadingTime estimates minutes at 200 words per minute, at least one.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 1
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

func ReadingTimeLabel(content string) string {
	return fmt.Sprintf("%d min", ReadingTime(content))
}

// Excerpt strips tags and cuts content to limit runes followed by "...".
func Excerpt(content string, limit int) string {
	if strings.TrimSpace(content) == "" {
		return emptyContent
	}
	clean := tagPattern.ReplaceAllString(content, "")
	if utf8.RuneCountInString(clean) <= limit {
		return clean
	}
	return string([]rune(clean)[:limit]) + "..."
}

// FormatDate renders a publication date as "10 mars 2025". Unparseable
// values are returned unchanged.
func FormatDate(value string) string {
	t, ok := domain.ParseDate(value)
	if !ok {
		return strings.TrimSpace(value)
	}
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}

// BlogIndex is the public blog listing: the first article is featured.
type BlogIndex struct {
	Featured *domain.Article
	Others   []domain.Article
}

func SplitFeatured(articles []domain.Article) BlogIndex {
	if len(articles) == 0 {
		return BlogIndex{Others: []domain.Article{}}
	}
	featured := articles[0]
	return BlogIndex{Featured: &featured, Others: append([]domain.Article{}, articles[1:]...)}
}

// FilterByCategory keeps articles of category. CategoryAll keeps all.
func FilterByCategory(articles []domain.Article, category string) []domain.Article {
	if category == "" || category == CategoryAll {
		return articles
	}
	out := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		if Category(article) == category {
			out = append(out, article)
		}
	}
	return out
}

// Related returns up to three other articles, in list order.
func Related(articles []domain.Article, currentID int) []domain.Article {
	out := make([]domain.Article, 0, maxRelated)
	for _, article := range articles {
		if article.ID == currentID {
			continue
		}
		out = append(out, article)
		if len(out) == maxRelated {
			break
		}
	}
	return out
}
