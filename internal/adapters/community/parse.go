package community

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
)

// Regex-based extraction mirrors the structure of the badge listing markup.
// The parsing strategy is an implementation detail behind the Scraper; rows
// that do not match the contract are skipped, never errors.
var (
	// Row boundary. The trailing [" ] keeps badge_row_inner from matching.
	rowStartRe = regexp.MustCompile(`class="badge_row[" ]`)

	gameIDRe = regexp.MustCompile(`/gamecards/(\d+)`)
	dropsRe  = regexp.MustCompile(`(\d+) card drops? remaining`)
	hoursRe  = regexp.MustCompile(`(\d+\.\d+) hrs on record`)

	titleRe       = regexp.MustCompile(`(?s)<div class="badge_title">(.*?)</div>`)
	viewDetailsRe = regexp.MustCompile(`(?s)<div class="badge_view_details">.*`)
	htmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe  = regexp.MustCompile(`\s+`)

	loginFormRe = regexp.MustCompile(`<form[^>]+(?:id="loginForm"|action="[^"]*/login[^"]*")`)

	pageLinksRe = regexp.MustCompile(`(?s)<div class="pageLinks[^"]*">(.*?)</div>`)
	pageBtnRe   = regexp.MustCompile(`(?s)<(?:a|span)[^>]*class="([^"]*pagebtn[^"]*)"[^>]*>\s*(?:&gt;|>)\s*<`)
)

// badgePage is the parsed form of one listing page
type badgePage struct {
	// Titles in the order they appear on the page; zero-drop rows are
	// already omitted
	Titles []*farm.Title

	// HasNext is true when an enabled next-page control exists
	HasNext bool

	// LoginRequired is true when the document is the login form instead of
	// the badge listing
	LoginRequired bool
}

// parseBadgePage extracts the drop-eligible titles and the pagination state
// from one raw badge listing document.
func parseBadgePage(body string) badgePage {
	if loginFormRe.MatchString(body) {
		return badgePage{LoginRequired: true}
	}

	page := badgePage{}

	starts := rowStartRe.FindAllStringIndex(body, -1)
	for i, start := range starts {
		end := len(body)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		if t := parseBadgeRow(body[start[0]:end]); t != nil {
			page.Titles = append(page.Titles, t)
		}
	}

	page.HasNext = hasEnabledNextButton(body)
	return page
}

// parseBadgeRow extracts one title record from a row chunk. Returns nil
// when the row lacks a parseable id or a positive drop count.
func parseBadgeRow(row string) *farm.Title {
	idMatch := gameIDRe.FindStringSubmatch(row)
	if idMatch == nil {
		return nil
	}
	id, err := strconv.Atoi(idMatch[1])
	if err != nil || id == farm.NoTitle {
		return nil
	}

	dropsMatch := dropsRe.FindStringSubmatch(row)
	if dropsMatch == nil {
		return nil
	}
	drops, err := strconv.Atoi(dropsMatch[1])
	if err != nil || drops == 0 {
		return nil
	}

	hours := 0.0
	if hoursMatch := hoursRe.FindStringSubmatch(row); hoursMatch != nil {
		if parsed, err := strconv.ParseFloat(hoursMatch[1], 64); err == nil {
			hours = parsed
		}
	}

	return &farm.Title{
		ID:             id,
		Name:           parseBadgeTitle(row),
		DropsRemaining: drops,
		HoursPlayed:    hours,
	}
}

// parseBadgeTitle extracts the display name: the "view details" sub-label
// is stripped, remaining markup removed, and whitespace collapsed.
func parseBadgeTitle(row string) string {
	m := titleRe.FindStringSubmatch(row)
	if m == nil {
		return ""
	}
	name := viewDetailsRe.ReplaceAllString(m[1], "")
	name = htmlTagRe.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, "&nbsp;", " ")
	name = whitespaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// hasEnabledNextButton reports whether the page links block contains a ">"
// button that is not marked disabled. No block or no button means the
// traversal stops.
func hasEnabledNextButton(body string) bool {
	links := pageLinksRe.FindStringSubmatch(body)
	if links == nil {
		return false
	}
	btn := pageBtnRe.FindStringSubmatch(links[1])
	if btn == nil {
		return false
	}
	return !strings.Contains(btn[1], "disabled")
}
