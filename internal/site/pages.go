package site

import "github.com/goliatone/go-cms-admin/internal/domain"

const servicesPreviewCount = 2

// ServicesPreview returns the first two services unless showAll is set, and
// whether more are hidden.
func ServicesPreview(services []domain.Service, showAll bool) ([]domain.Service, bool) {
	if showAll || len(services) <= servicesPreviewCount {
		return services, false
	}
	return services[:servicesPreviewCount], true
}

// Palette is the accent cycle of the partner carousel.
var Palette = []string{"cyan", "fuchsia", "emerald", "orange", "sky", "violet"}

type CarouselEntry struct {
	Partner   domain.Partner
	Color     string
	FromClass string
	GlowClass string
}

func Carousel(partners []domain.Partner) []CarouselEntry {
	out := make([]CarouselEntry, 0, len(partners))
	for i, partner := range partners {
		color := Palette[i%len(Palette)]
		out = append(out, CarouselEntry{
			Partner:   partner,
			Color:     color,
			FromClass: "from-" + color + "-400/80",
			GlowClass: "bg-" + color + "-500",
		})
	}
	return out
}
