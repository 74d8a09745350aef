// Package scrape reconstructs a campaign record from the rendered markup of
// a listing card. It exists for selections that carry no stable campaign id:
// the card's text and inline styles are the only data available at click
// time. Cards rendered with a data-campaign-id attribute bypass the
// reconstruction entirely.
package scrape

import (
	"io"
	"math"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"impactseed/internal/domain"
)

// Card holds the raw fields recovered from a campaign card fragment. Every
// field is best-effort; absent ones keep their zero value and are defaulted
// when the card is turned into a campaign.
type Card struct {
	CampaignID  string
	Title       string
	Category    string
	Image       string
	Description string
	Backers     int
	DaysLeft    int
	Percent     int
}

// ParseCard walks an HTML fragment and recovers the campaign fields the card
// renders. Parsing is lenient: malformed or empty markup yields a zero Card,
// the only error surfaced is a failing reader.
func ParseCard(r io.Reader) (Card, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Card{}, err
	}
	var w cardWalker
	w.walk(doc)
	card := w.card
	if card.DaysLeft == 0 {
		card.DaysLeft = domain.DefaultDaysLeft
	}
	// The background image of the placeholder wins over a plain img tag,
	// matching how the cards layer the two.
	if w.backgroundImage != "" {
		card.Image = w.backgroundImage
	} else if w.imgSrc != "" {
		card.Image = w.imgSrc
	}
	return card, nil
}

// Campaign converts the scraped card into a best-effort campaign record.
// Cards render no goal, so it is estimated and the raised amount derived
// from the progress width. The record has no id yet; the caller assigns one
// when persisting the selection.
func (c Card) Campaign() domain.Campaign {
	goal := float64(domain.DefaultGoalEstimate)
	percent := c.Percent
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return domain.Campaign{
		Title:       orDefault(c.Title, domain.DefaultTitle),
		Category:    orDefault(c.Category, domain.DefaultCategory),
		Image:       orDefault(c.Image, domain.StockCampaignImage),
		Goal:        goal,
		Raised:      math.Round(goal * float64(percent) / 100),
		Backers:     c.Backers,
		DaysLeft:    c.DaysLeft,
		Status:      domain.CampaignStatusPublished,
		Description: strings.TrimSpace(c.Description),
	}
}

type cardWalker struct {
	card            Card
	backgroundImage string
	imgSrc          string
}

func (w *cardWalker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		w.element(n)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		w.walk(child)
	}
}

func (w *cardWalker) element(n *html.Node) {
	if id := attr(n, "data-campaign-id"); id != "" && w.card.CampaignID == "" {
		w.card.CampaignID = id
	}
	switch n.Data {
	case "h4":
		if w.card.Title == "" {
			w.card.Title = text(n)
		}
	case "img":
		if w.imgSrc == "" {
			w.imgSrc = attr(n, "src")
		}
	case "p":
		if w.card.Description == "" {
			w.card.Description = text(n)
		}
	case "span":
		w.span(n)
	case "div":
		w.div(n)
	}
}

func (w *cardWalker) span(n *html.Node) {
	t := text(n)
	switch {
	case hasClass(n, "tag"):
		if w.card.Category == "" {
			w.card.Category = t
		}
	case strings.Contains(t, "backers"):
		w.card.Backers = domain.ParseCount(t, 0)
	case strings.Contains(t, "days left"):
		w.card.DaysLeft = domain.ParseCount(t, domain.DefaultDaysLeft)
	}
}

var (
	backgroundURLPattern = regexp.MustCompile(`url\(["']?([^"')]+)["']?\)`)
	widthPattern         = regexp.MustCompile(`width:\s*([0-9.]+)%`)
)

func (w *cardWalker) div(n *html.Node) {
	style := attr(n, "style")
	if hasClass(n, "image-placeholder") && w.backgroundImage == "" {
		if m := backgroundURLPattern.FindStringSubmatch(style); m != nil {
			w.backgroundImage = m[1]
		}
	}
	if hasClass(n, "progress-fill") || hasClass(n, "progress-bar") {
		if m := widthPattern.FindStringSubmatch(style); m != nil {
			w.card.Percent = domain.ParseCount(m[1], 0)
		}
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func text(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return strings.TrimSpace(b.String())
}

func orDefault(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}
