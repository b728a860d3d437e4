package analytics

import (
	"fmt"
	"time"

	"github.com/goliatone/go-cms-admin/internal/domain"
)

var (
	demoPages     = []string{"/", "/services", "/formations", "/blog", "/contact"}
	demoCountries = []string{"France", "Canada", "Belgique", "Suisse", "Luxembourg"}
	demoIPs       = []string{
		"192.168.1.1", "10.0.0.1", "172.16.0.1", "203.0.113.1", "198.51.100.1",
		"192.168.1.2", "10.0.0.2", "172.16.0.2", "203.0.113.2", "198.51.100.2",
	}
)

const demoUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// between returns a value in [lo, lo+span).
func (c *Client) between(lo, span int) int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return lo + c.rng.IntN(span)
}

func periodMultiplier(period string) int {
	switch period {
	case "today":
		return 1
	case "week":
		return 7
	case "year":
		return 365
	default:
		return 30
	}
}

func (c *Client) demoStats(period string) domain.AnalyticsData {
	m := periodMultiplier(period)
	now := c.now()
	data := domain.AnalyticsData{
		TotalVisitors:     c.between(100, 1000*m),
		UniqueVisitors:    c.between(50, 500*m),
		PageViews:         c.between(200, 2000*m),
		VisitorsToday:     c.between(10, 50),
		VisitorsThisWeek:  c.between(50, 300),
		VisitorsThisMonth: c.between(200, 1200),
	}
	pageBases := []struct{ min, span int }{{100, 500}, {80, 300}, {60, 250}, {40, 200}, {30, 150}}
	for i, page := range demoPages {
		data.TopPages = append(data.TopPages, domain.PageViews{Page: page, Views: c.between(pageBases[i].min, pageBases[i].span)})
	}
	countryBases := []struct{ min, span int }{{50, 200}, {20, 100}, {15, 80}, {10, 60}, {5, 40}}
	for i, country := range demoCountries {
		data.VisitorsByCountry = append(data.VisitorsByCountry, domain.CountryCount{Country: country, Count: c.between(countryBases[i].min, countryBases[i].span)})
	}
	for i := 29; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(time.DateOnly)
		data.DailyVisitorCounts = append(data.DailyVisitorCounts, domain.DailyVisitors{Date: day, Visitors: c.between(10, 50)})
	}
	return data
}

func (c *Client) demoRealtime() domain.RealtimeStats {
	return domain.RealtimeStats{
		ActiveVisitors:   c.between(5, 20),
		VisitorsLastHour: c.between(10, 50),
		TopCurrentPages: []domain.PageViews{
			{Page: "/", Views: c.between(10, 30)},
			{Page: "/services", Views: c.between(5, 20)},
			{Page: "/formations", Views: c.between(3, 15)},
		},
	}
}

func (c *Client) demoVisitors() []domain.Visitor {
	now := c.now()
	out := make([]domain.Visitor, 0, len(demoIPs))
	for i, ip := range demoIPs {
		seen := now.Add(-time.Duration(c.between(0, 7*24*60)) * time.Minute)
		out = append(out, domain.Visitor{
			ID:          i + 1,
			IPAddress:   ip,
			UserAgent:   demoUserAgent,
			PageVisited: demoPages[c.between(0, len(demoPages))],
			Country:     demoCountries[c.between(0, len(demoCountries))],
			City:        fmt.Sprintf("Ville %d", i+1),
			Timestamps: domain.Timestamps{
				CreatedAt: seen.UTC().Format(time.RFC3339),
				UpdatedAt: now.UTC().Format(time.RFC3339),
			},
		})
	}
	return out
}

func (c *Client) demoVisit(visit VisitInput) domain.Visitor {
	now := c.now().UTC()
	stamp := now.Format(time.RFC3339)
	return domain.Visitor{
		ID:          int(now.UnixMilli()),
		IPAddress:   visit.IPAddress,
		UserAgent:   visit.UserAgent,
		PageVisited: visit.PageVisited,
		Country:     visit.Country,
		City:        visit.City,
		Timestamps:  domain.Timestamps{CreatedAt: stamp, UpdatedAt: stamp},
	}
}
