package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-cms-admin/internal/remote"
)

func TestTextDecodesStringsAndNumbers(t *testing.T) {
	var svc Service
	if err := json.Unmarshal([]byte(`{"id":1,"tarif":150.5,"duree":"3 jours"}`), &svc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if svc.Tarif != "150.5" || svc.Duree != "3 jours" {
		t.Fatalf("unexpected text values: %q %q", svc.Tarif, svc.Duree)
	}
}

func TestFlagDecodesLooseBooleans(t *testing.T) {
	cases := map[string]bool{`true`: true, `1`: true, `"1"`: true, `false`: false, `0`: false, `"0"`: false, `null`: false}
	for raw, want := range cases {
		var slide HeroSlide
		if err := json.Unmarshal([]byte(`{"id":2,"is_active":`+raw+`}`), &slide); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if bool(slide.IsActive) != want {
			t.Fatalf("is_active %s: expected %v", raw, want)
		}
	}
}

func TestHeroSectionCountPrefersServerValue(t *testing.T) {
	n := 7
	section := HeroSection{ID: 1, Slides: []HeroSlide{{ID: 1}}}
	if section.Count() != 1 {
		t.Fatalf("expected embedded count 1, got %d", section.Count())
	}
	section.SlidesCount = &n
	if section.Count() != 7 {
		t.Fatalf("expected server count 7, got %d", section.Count())
	}
}

func TestUserFullName(t *testing.T) {
	if got := (User{Prenom: "Awa", Nom: "Diop"}).FullName(); got != "Awa Diop" {
		t.Fatalf("unexpected full name %q", got)
	}
	if got := (User{Nom: "Diop"}).FullName(); got != "Diop" {
		t.Fatalf("unexpected full name %q", got)
	}
}

func TestServiceInputRequiresName(t *testing.T) {
	in := ServiceInput{Description: "Audit", Categorie: "conseil", Slug: "audit"}.Normalize()
	err := in.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation.Errors, got %T", err)
	}
	if _, ok := errs["nom"]; !ok {
		t.Fatalf("expected nom error, got %v", errs)
	}
}

func TestServiceInputDerivesSlug(t *testing.T) {
	in := ServiceInput{Nom: "Audit Sécurité", Description: "d", Categorie: "c"}.Normalize()
	if in.Slug == "" || strings.ContainsAny(in.Slug, " É") {
		t.Fatalf("expected derived slug, got %q", in.Slug)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestServicePayloadFields(t *testing.T) {
	p := ServiceInput{Nom: "Audit", Slug: "audit", Description: "d", Categorie: "c", Tarif: " 100 "}.Payload()
	if v, _ := p.Value("tarif"); v != "100" {
		t.Fatalf("expected trimmed tarif, got %q", v)
	}
	if v, _ := p.Value("nom"); v != "Audit" {
		t.Fatalf("expected nom, got %q", v)
	}
}

func TestHeroSlideInputRules(t *testing.T) {
	in := HeroSlideInput{Title: "Titre", Subtitle: "Sous", Description: "court"}.Normalize()
	var errs validation.Errors
	if !errors.As(in.Validate(), &errs) {
		t.Fatalf("expected validation errors")
	}
	for _, key := range []string{"hero_section_id", "description", "slide_order"} {
		if _, ok := errs[key]; !ok {
			t.Fatalf("expected %s error, got %v", key, errs)
		}
	}
	if in.SlideDuration != DefaultSlideDuration {
		t.Fatalf("expected default duration, got %d", in.SlideDuration)
	}

	valid := HeroSlideInput{HeroSectionID: 1, SlideOrder: 1, Title: "T", Subtitle: "S", Description: "une description"}.Normalize()
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHeroSlidePayloadEncodesFlagsAndFile(t *testing.T) {
	in := HeroSlideInput{
		HeroSectionID:   3,
		SlideOrder:      2,
		IsActive:        true,
		SlideDuration:   4000,
		BackgroundImage: &remote.File{Name: "bg.png", Contents: strings.NewReader("png")},
	}
	p := in.Payload()
	if v, _ := p.Value("is_active"); v != "1" {
		t.Fatalf("expected is_active=1, got %q", v)
	}
	if v, _ := p.Value("hero_section_id"); v != "3" {
		t.Fatalf("expected hero_section_id=3, got %q", v)
	}
	if v, _ := p.Value("slide_duration"); v != "4000" {
		t.Fatalf("expected slide_duration=4000, got %q", v)
	}
	if in.BackgroundImage.Field != "" {
		t.Fatalf("attach must not mutate the caller's file")
	}
}

func TestSlideInputFromCopiesState(t *testing.T) {
	in := SlideInputFrom(HeroSlide{ID: 9, HeroSectionID: 2, SlideOrder: 3, Title: "t", IsActive: true})
	if in.HeroSectionID != 2 || in.SlideOrder != 3 || !in.IsActive {
		t.Fatalf("unexpected input %+v", in)
	}
}

func TestContactReplyRequiresAnswer(t *testing.T) {
	err := ContactReply{Reponse: "   "}.Normalize().Validate()
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if errs["reponse"].Error() != "Veuillez saisir une réponse." {
		t.Fatalf("unexpected message %q", errs["reponse"].Error())
	}
}

func TestSearchFields(t *testing.T) {
	c := Contact{ID: 1, Nom: "Awa", Email: "awa@example.com", Sujet: "Devis", Message: "Bonjour"}
	if got := ContactFields(c); len(got) != 4 || got[1] != "awa@example.com" {
		t.Fatalf("unexpected contact fields %v", got)
	}
	section := HeroSection{ID: 4, Slides: []HeroSlide{{Title: "Cloud"}}}
	fields := HeroSectionFields(section)
	if fields[0] != "4" || fields[1] != "Cloud" {
		t.Fatalf("unexpected section fields %v", fields)
	}
}

func TestSlugForKeepsValidExplicitSlug(t *testing.T) {
	if got := SlugFor("mon-article", "Autre titre"); got != "mon-article" {
		t.Fatalf("expected explicit slug, got %q", got)
	}
	if got := SlugFor("", ""); got != "" {
		t.Fatalf("expected empty slug, got %q", got)
	}
}

func TestArticlePublicationState(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := map[string]PublicationState{
		"":                     PublicationDraft,
		"bientôt":              PublicationDraft,
		"2025-03-01":           PublicationPublished,
		"2025-03-10 08:00:00":  PublicationPublished,
		"2025-04-01T09:00:00Z": PublicationScheduled,
	}
	for date, want := range cases {
		if got := (Article{DatePublication: date}).PublicationState(now); got != want {
			t.Fatalf("date %q: got %s, want %s", date, got, want)
		}
	}
}

func TestNormalizePublicationState(t *testing.T) {
	if got, ok := NormalizePublicationState(" Published "); !ok || got != PublicationPublished {
		t.Fatalf("unexpected state %q %v", got, ok)
	}
	if _, ok := NormalizePublicationState("archived"); ok {
		t.Fatal("expected unknown state to be rejected")
	}
}
