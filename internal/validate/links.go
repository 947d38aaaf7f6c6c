package validate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"patternforge/internal/catalog"
	"patternforge/internal/config"
	"patternforge/internal/logging"
)

var markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// LinkKind classifies a markdown link target.
type LinkKind string

const (
	LinkInternal LinkKind = "internal" // #anchor
	LinkExternal LinkKind = "external" // http(s)://
	LinkRelative LinkKind = "relative" // file path
	LinkMailto   LinkKind = "mailto"
)

// Link is one markdown link occurrence.
type Link struct {
	Text string
	URL  string
	Line int
	Kind LinkKind
}

// ExtractLinks finds all markdown links outside fenced code blocks and
// mermaid diagrams.
func ExtractLinks(lines []string) []Link {
	var links []Link
	inCode, inMermaid := false, false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			switch {
			case strings.Contains(trimmed, "mermaid"):
				inMermaid = true
			case inMermaid:
				inMermaid = false
			default:
				inCode = !inCode
			}
			continue
		}
		if inCode || inMermaid {
			continue
		}

		for _, m := range markdownLinkRe.FindAllStringSubmatch(line, -1) {
			url := strings.TrimSpace(m[2])
			link := Link{Text: m[1], URL: url, Line: i + 1}
			switch {
			case strings.HasPrefix(url, "#"):
				link.Kind = LinkInternal
			case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
				link.Kind = LinkExternal
			case strings.HasPrefix(url, "mailto:"):
				link.Kind = LinkMailto
			default:
				link.Kind = LinkRelative
			}
			links = append(links, link)
		}
	}
	return links
}

// CheckInternalLinks validates #anchor links against the document's
// headings.
func CheckInternalLinks(cat *catalog.Catalog, file string) []Finding {
	anchors := cat.Anchors()
	var findings []Finding

	for _, link := range ExtractLinks(cat.Lines()) {
		if link.Kind != LinkInternal {
			continue
		}
		if !anchors[link.URL] {
			findings = append(findings, Finding{
				Check:    "links",
				Severity: SeverityError,
				File:     file,
				Line:     link.Line,
				Message:  fmt.Sprintf("anchor not found: %s", link.URL),
			})
		}
	}
	return findings
}

// CheckRelativeLinks validates file-path links against the repository
// root. A fragment after the path is allowed and ignored.
func CheckRelativeLinks(lines []string, repoRoot, file string) []Finding {
	var findings []Finding

	for _, link := range ExtractLinks(lines) {
		if link.Kind != LinkRelative {
			continue
		}
		path := link.URL
		if idx := strings.Index(path, "#"); idx >= 0 {
			path = path[:idx]
		}
		path = strings.TrimPrefix(path, "./")
		if path == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(repoRoot, path)); err != nil {
			findings = append(findings, Finding{
				Check:    "links",
				Severity: SeverityError,
				File:     file,
				Line:     link.Line,
				Message:  fmt.Sprintf("file not found: %s", link.URL),
			})
		}
	}
	return findings
}

// ExternalChecker validates external links over HTTP with a shared cache
// so repeated URLs are fetched once.
type ExternalChecker struct {
	client  *http.Client
	timeout time.Duration
	limit   int
	skip    []string

	mu    sync.Mutex
	cache map[string]error
}

// NewExternalChecker builds a checker from the validation config.
func NewExternalChecker(cfg config.ValidationConfig) *ExternalChecker {
	timeout, err := time.ParseDuration(cfg.ExternalTimeout)
	if err != nil || timeout <= 0 {
		timeout = 10 * time.Second
	}
	// errgroup.SetLimit(0) would block the first Go call forever.
	limit := cfg.MaxConcurrency
	if limit <= 0 {
		limit = 8
	}
	return &ExternalChecker{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		limit:   limit,
		skip:    cfg.SkipURLPrefixes,
		cache:   make(map[string]error),
	}
}

// Check validates all external links in the document concurrently.
func (ec *ExternalChecker) Check(ctx context.Context, lines []string, file string) []Finding {
	type result struct {
		link Link
		err  error
	}

	var external []Link
	for _, link := range ExtractLinks(lines) {
		if link.Kind == LinkExternal && !ec.skipped(link.URL) {
			external = append(external, link)
		}
	}

	results := make([]result, len(external))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ec.limit)

	for i, link := range external {
		g.Go(func() error {
			results[i] = result{link: link, err: ec.checkURL(ctx, link.URL)}
			return nil
		})
	}
	// Workers never return errors; findings carry the failures.
	_ = g.Wait()

	var findings []Finding
	for _, r := range results {
		if r.err != nil {
			findings = append(findings, Finding{
				Check:    "links",
				Severity: SeverityError,
				File:     file,
				Line:     r.link.Line,
				Message:  fmt.Sprintf("external link %s: %v", r.link.URL, r.err),
			})
		}
	}
	return findings
}

func (ec *ExternalChecker) skipped(url string) bool {
	for _, prefix := range ec.skip {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

// checkURL fetches a URL once per run. HEAD first, GET on 405. URLs with a
// fragment are fetched with GET so the fragment can be verified against
// the page's anchors.
func (ec *ExternalChecker) checkURL(ctx context.Context, rawURL string) error {
	ec.mu.Lock()
	if err, ok := ec.cache[rawURL]; ok {
		ec.mu.Unlock()
		return err
	}
	ec.mu.Unlock()

	err := ec.fetch(ctx, rawURL)

	ec.mu.Lock()
	ec.cache[rawURL] = err
	ec.mu.Unlock()
	return err
}

func (ec *ExternalChecker) fetch(ctx context.Context, rawURL string) error {
	base, fragment := rawURL, ""
	if idx := strings.Index(rawURL, "#"); idx >= 0 {
		base, fragment = rawURL[:idx], rawURL[idx+1:]
	}

	if fragment == "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, base, nil)
		if err != nil {
			return err
		}
		resp, err := ec.client.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed && resp.StatusCode < 400 {
			return nil
		}
		if resp.StatusCode >= 400 && resp.StatusCode != http.StatusMethodNotAllowed {
			return fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		// 405: retry with GET below.
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		return err
	}
	resp, err := ec.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if fragment != "" {
		ids, err := collectHTMLAnchors(resp.Body)
		if err != nil {
			logging.L(logging.CategoryValidate).Debugw("anchor scan failed", "url", base, "error", err)
			return nil // page loads; fragment unverifiable
		}
		if !ids[fragment] {
			return fmt.Errorf("fragment #%s not found on page", fragment)
		}
	}
	return nil
}

// collectHTMLAnchors parses HTML and returns the set of id attributes and
// legacy <a name> values.
func collectHTMLAnchors(r io.Reader) (map[string]bool, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key == "id" || (attr.Key == "name" && n.Data == "a") {
					ids[attr.Val] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return ids, nil
}
