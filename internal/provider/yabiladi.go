package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/smokyabdulrahman/salah-times/internal/cities"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

// YabiladiBaseURL serves the monthly schedule pages of the Moroccan ministry
// times, one page per city id.
const YabiladiBaseURL = "https://www.yabiladi.com/horaires-priere"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Yabiladi scrapes the schedule table of yabiladi.com.
type Yabiladi struct {
	BaseURL string
	Client  *http.Client
	// Strict disables the first-row fallback when no row matches the date.
	Strict bool
}

// NewYabiladi returns a scraper with a 10 second timeout.
func NewYabiladi() *Yabiladi {
	return &Yabiladi{
		BaseURL: YabiladiBaseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name implements Provider.
func (y *Yabiladi) Name() string { return "yabiladi" }

// Fetch implements Provider.
func (y *Yabiladi) Fetch(ctx context.Context, city cities.City, date time.Time) (*prayer.Times, error) {
	url := fmt.Sprintf("%s/%d-1.html", y.BaseURL, city.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := y.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	rows, err := scheduleRows(doc)
	if err != nil {
		return nil, err
	}

	row, ok := pickRow(rows, date)
	if !ok {
		if y.Strict {
			return nil, fmt.Errorf("%s: %w", date.Format("02/01"), ErrDateNotFound)
		}
		row = rows[0]
	}
	return build(date, [6]string{row[1], row[2], row[3], row[4], row[5], row[6]})
}

// scheduleRows returns the text of every data row with at least seven
// cells in the first table of class "horaire".
func scheduleRows(doc *html.Node) ([][]string, error) {
	table := find(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "table" && hasClass(n, "horaire")
	})
	if table == nil {
		return nil, fmt.Errorf("prayer times table not found")
	}

	var rows [][]string
	walk(table, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "tr" {
			return
		}
		var cells []string
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "td" {
				cells = append(cells, strings.TrimSpace(text(c)))
			}
		}
		if len(cells) >= 7 {
			rows = append(rows, cells)
		}
	})
	if len(rows) == 0 {
		return nil, fmt.Errorf("no prayer times data found")
	}
	return rows, nil
}

// pickRow finds the row whose date cell carries date as dd/mm.
func pickRow(rows [][]string, date time.Time) ([]string, bool) {
	want := date.Format("02/01")
	for _, r := range rows {
		if strings.Contains(r[0], want) {
			return r, true
		}
	}
	return nil, false
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, f := range strings.Fields(a.Val) {
				if f == class {
					return true
				}
			}
		}
	}
	return false
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := find(c, match); f != nil {
			return f
		}
	}
	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func text(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}
