package capability

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	exif "github.com/dsoprea/go-exif/v3"

	"github.com/orgscan/orgscan/internal/fetch"
	"github.com/orgscan/orgscan/internal/model"
)

// exifImagePattern matches URL paths of formats that can carry EXIF data.
var exifImagePattern = regexp.MustCompile(`(?i)\.(jpe?g|tiff?|heic)(?:\?[^"'\s]*)?$`)

// maxImagesPerPage caps how many images one run will download. Team pages
// can carry hundreds of thumbnails and most of them are stripped.
const maxImagesPerPage = 12

// ImageMetadata downloads the images on a page and extracts EXIF metadata.
// Author and copyright tags name the people behind a site's photography,
// which makes this a team-evidence tool; GPS tags locate offices. It only
// runs during targeted collection, when a team-info gap justifies the
// extra downloads.
type ImageMetadata struct {
	fetcher      fetch.Fetcher
	client       *http.Client
	maxImageSize int64
}

// NewImageMetadata creates an image metadata extractor. The fetcher loads
// the page; the client downloads the images themselves.
func NewImageMetadata(f fetch.Fetcher, client *http.Client) *ImageMetadata {
	if client == nil {
		client = http.DefaultClient
	}
	return &ImageMetadata{
		fetcher:      f,
		client:       client,
		maxImageSize: 5 * 1024 * 1024,
	}
}

// Name returns the dispatch name.
func (m *ImageMetadata) Name() string {
	return model.ToolImageMetadata
}

// Collect fetches the page, downloads its EXIF-capable images from the
// same host, and extracts identity and location tags.
func (m *ImageMetadata) Collect(ctx context.Context, pageURL string, _ *model.PageContext) (*Result, error) {
	page, err := m.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if !page.IsHTML() {
		return &Result{}, nil
	}

	base, err := url.Parse(page.FinalURL)
	if err != nil {
		base, err = url.Parse(pageURL)
		if err != nil {
			return nil, &ExtractionError{Source: pageURL, Err: err}
		}
	}

	result := &Result{Characteristics: map[string]string{}}
	for _, imgURL := range m.imageURLs(string(page.Body), base) {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		result.Evidence = append(result.Evidence, m.analyzeImage(ctx, imgURL, pageURL)...)
	}

	return result, nil
}

// imageURLs extracts the same-host EXIF-capable image URLs from the page.
func (m *ImageMetadata) imageURLs(body string, base *url.URL) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var urls []string
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if len(urls) >= maxImagesPerPage {
			return
		}
		src, _ := s.Attr("src")
		ref, err := url.Parse(strings.TrimSpace(src))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		// Stay on the target host: third-party CDNs carry stock images,
		// not the organization's photography.
		if abs.Hostname() != base.Hostname() {
			return
		}
		if !exifImagePattern.MatchString(abs.Path + querySuffix(abs)) {
			return
		}
		u := abs.String()
		if seen[u] {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	})

	return urls
}

func querySuffix(u *url.URL) string {
	if u.RawQuery == "" {
		return ""
	}
	return "?" + u.RawQuery
}

// analyzeImage downloads one image and converts its EXIF tags to evidence.
// Download and parse failures are silent: a stripped or missing image is
// the normal case, not an error.
func (m *ImageMetadata) analyzeImage(ctx context.Context, imgURL, pageURL string) []model.EvidenceItem {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imgURL, nil)
	if err != nil {
		return nil
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK || resp.ContentLength > m.maxImageSize {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, m.maxImageSize))
	if err != nil {
		return nil
	}

	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	var items []model.EvidenceItem
	source := pageURL + " -> " + imgURL
	for _, entry := range entries {
		value := strings.TrimSpace(entry.Formatted)
		if value == "" {
			continue
		}
		switch entry.TagName {
		case "Artist", "Author", "Copyright", "XPAuthor":
			items = append(items, model.NewEvidenceItem(model.CategoryTeamInfo,
				"image credit ("+entry.TagName+"): "+value, source, 0.65))
		case "GPSLatitude", "GPSLongitude":
			items = append(items, model.NewEvidenceItem(model.CategoryCompanyInfo,
				"image location ("+entry.TagName+"): "+value, source, 0.6))
		case "Software", "ProcessingSoftware":
			items = append(items, model.NewEvidenceItem(model.CategoryTechStack,
				"image software: "+value, source, 0.5))
		}
	}

	return items
}
