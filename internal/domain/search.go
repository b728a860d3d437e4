package domain

import "github.com/goliatone/go-cms-admin/internal/listing"

func ContactFields(c Contact) []string {
	return []string{c.Nom, c.Email, c.Sujet, c.Message}
}

func ServiceFields(s Service) []string {
	return []string{s.Nom, s.Description, s.Categorie, s.Slug}
}

func FormationFields(f Formation) []string {
	return []string{f.Nom, f.Slug, f.Description}
}

func PartnerFields(p Partner) []string {
	return []string{p.Nom, p.Description}
}

// HeroSectionFields matches on the section id and its slide titles.
func HeroSectionFields(h HeroSection) []string {
	out := []string{listing.IntField(h.ID)}
	for _, slide := range h.Slides {
		out = append(out, slide.Title, slide.Subtitle)
	}
	return out
}

func HeroSlideFields(s HeroSlide) []string {
	return []string{listing.IntField(s.ID), s.Title, s.Subtitle, s.Description}
}

func ArticleFields(a Article) []string {
	return []string{a.Titre, a.TitreEN, a.MetaTitre, a.MetaDescription, a.Slug}
}
