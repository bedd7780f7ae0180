package images

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"product-intel/pkg/cache"
	"product-intel/pkg/config"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

var vqdPattern = regexp.MustCompile(`vqd=([\d-]+)`)

// Fetcher assembles product images from sources in trust order: the brand's
// official storefront, Nigerian retailer listings, then DuckDuckGo and Bing
// image search. Later sources only run while the quota is unmet, and every
// candidate passes the strict relevance filter before it counts.
type Fetcher struct {
	client    *http.Client
	cache     *cache.Cache
	cfg       config.ImageConfig
	userAgent string
	retailers []config.Retailer
	log       logger.Logger
	dedup     *logger.Deduper

	ddgBase  string
	bingBase string
}

func NewFetcher(c *cache.Cache, cfg config.ImageConfig, web config.WebConfig, log logger.Logger) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: web.RequestTimeout},
		cache:     c,
		cfg:       cfg,
		userAgent: web.UserAgent,
		retailers: config.Retailers(),
		log:       log,
		dedup:     logger.NewDeduper(log),
		ddgBase:   "https://duckduckgo.com",
		bingBase:  "https://www.bing.com",
	}
}

// FetchImages returns up to cfg.MaxImages ranked images for the product.
// Failures in any source just shrink the candidate pool.
func (f *Fetcher) FetchImages(productName string) []models.ImageCandidate {
	cacheKey := "images_" + productName
	var cached []models.ImageCandidate
	if f.cache.Get(cacheKey, &cached) {
		f.dedup.Printf("using cached images for %s", productName)
		return cached
	}

	maxImages := f.cfg.MaxImages
	var candidates []models.ImageCandidate

	f.log.Info("fetching brand images", logger.String("product", productName))
	candidates = append(candidates, f.fetchBrandImages(productName, 3)...)

	if len(candidates) < maxImages {
		f.log.Info("fetching retailer images", logger.String("product", productName))
		candidates = append(candidates, f.fetchRetailerImages(productName, 3)...)
	}
	if len(candidates) < maxImages {
		f.log.Info("fetching duckduckgo images", logger.String("product", productName))
		candidates = append(candidates, f.fetchDuckDuckGoImages(productName, maxImages*3)...)
	}
	if len(candidates) < maxImages {
		f.log.Info("fetching bing images", logger.String("product", productName))
		candidates = append(candidates, f.fetchBingImages(productName, maxImages*3)...)
	}

	candidates = dedup(candidates)
	candidates = Rank(candidates, productName, f.cfg)

	if len(candidates) == 0 {
		f.log.Warn("no matching images after strict filtering",
			logger.String("product", productName))
		return nil
	}
	if len(candidates) > maxImages {
		candidates = candidates[:maxImages]
	}
	f.cache.Set(cacheKey, candidates, 0)
	return candidates
}

func dedup(in []models.ImageCandidate) []models.ImageCandidate {
	seen := map[[2]string]struct{}{}
	var out []models.ImageCandidate
	for _, c := range in {
		if c.URL == "" {
			continue
		}
		key := [2]string{c.URL, c.ThumbnailURL}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// enhanceQuery quotes the product name to bias search engines toward exact
// matches.
func enhanceQuery(productName string) string {
	clean := strings.Join(strings.Fields(productName), " ")
	return fmt.Sprintf("%q official product image", clean)
}

func (f *Fetcher) fetchBrandImages(productName string, maxImages int) []models.ImageCandidate {
	brand, ok := config.DetectBrand(productName)
	if !ok {
		return nil
	}

	searchURL := fmt.Sprintf("https://%s%s%s", brand.Domain, brand.SearchPath, url.QueryEscape(productName))
	doc, err := f.getDocument(searchURL)
	if err != nil {
		return nil
	}

	var out []models.ImageCandidate

	if content, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		if IsValidImageURL(content) && IsProductImage(content, productName, productName) {
			out = append(out, models.ImageCandidate{
				URL:          content,
				ThumbnailURL: content,
				Source:       brand.Name + " Official",
				AltText:      productName,
			})
		}
	}

	selectors := []string{
		"picture img", "img[class*=product]", "img[class*=hero]",
		"div.product-image img", "div.product-gallery img",
	}
	for _, sel := range selectors {
		if len(out) >= maxImages {
			break
		}
		doc.Find(sel).EachWithBreak(func(i int, img *goquery.Selection) bool {
			if i >= maxImages || len(out) >= maxImages {
				return false
			}
			imgURL := firstAttr(img, "src", "data-src", "data-lazy-src")
			if imgURL == "" {
				return true
			}
			imgURL = absolutize(imgURL, brand.Domain)
			alt := img.AttrOr("alt", productName)
			if IsValidImageURL(imgURL) && IsProductImage(imgURL, alt, productName) {
				out = append(out, models.ImageCandidate{
					URL:          imgURL,
					ThumbnailURL: imgURL,
					Source:       brand.Name + " Official",
					AltText:      alt,
				})
			}
			return true
		})
	}
	if len(out) > maxImages {
		out = out[:maxImages]
	}
	return out
}

func (f *Fetcher) fetchRetailerImages(productName string, maxImages int) []models.ImageCandidate {
	var out []models.ImageCandidate
	for _, retailer := range f.retailers {
		if len(out) >= maxImages {
			break
		}
		doc, err := f.getDocument(retailer.SearchURL + url.QueryEscape(productName))
		if err != nil {
			continue
		}

		selectors := []string{
			"img.img-fluid", "img[data-src]", "img.product-image",
			"div.image-wrapper img", "div.product img",
		}
		for _, sel := range selectors {
			if len(out) >= maxImages {
				break
			}
			doc.Find(sel).EachWithBreak(func(i int, img *goquery.Selection) bool {
				if i >= 2 || len(out) >= maxImages {
					return false
				}
				imgURL := firstAttr(img, "src", "data-src")
				if imgURL == "" {
					return true
				}
				if strings.HasPrefix(imgURL, "//") {
					imgURL = "https:" + imgURL
				} else if strings.HasPrefix(imgURL, "/") {
					imgURL = retailer.BaseURL + imgURL
				}
				alt := img.AttrOr("alt", productName)
				if IsValidImageURL(imgURL) && IsProductImage(imgURL, alt, productName) {
					out = append(out, models.ImageCandidate{
						URL:          imgURL,
						ThumbnailURL: imgURL,
						Source:       retailer.Name,
						AltText:      alt,
					})
				}
				return true
			})
		}
	}
	return out
}

// fetchDuckDuckGoImages uses the two-step token dance: the HTML search page
// yields a vqd token, then i.js returns the actual result JSON.
func (f *Fetcher) fetchDuckDuckGoImages(productName string, maxImages int) []models.ImageCandidate {
	query := enhanceQuery(productName)

	tokenURL := f.ddgBase + "/?" + url.Values{
		"q": {query}, "iax": {"images"}, "ia": {"images"},
	}.Encode()
	body, err := f.getBody(tokenURL)
	if err != nil {
		f.log.Warn("duckduckgo image fetch failed", logger.Err(err))
		return nil
	}
	m := vqdPattern.FindStringSubmatch(body)
	if m == nil {
		return nil
	}

	resultsURL := f.ddgBase + "/i.js?" + url.Values{
		"q": {query}, "vqd": {m[1]}, "l": {"us-en"}, "p": {"1"}, "v7exp": {"a"},
	}.Encode()
	raw, err := f.getBody(resultsURL)
	if err != nil {
		f.log.Warn("duckduckgo image fetch failed", logger.Err(err))
		return nil
	}

	var parsed struct {
		Results []struct {
			Image     string `json:"image"`
			Thumbnail string `json:"thumbnail"`
			Title     string `json:"title"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}

	var out []models.ImageCandidate
	for _, res := range parsed.Results {
		if len(out) >= maxImages {
			break
		}
		alt := res.Title
		if alt == "" {
			alt = productName
		}
		if res.Image != "" && IsValidImageURL(res.Image) && IsProductImage(res.Image, alt, productName) {
			out = append(out, models.ImageCandidate{
				URL:          res.Image,
				ThumbnailURL: res.Thumbnail,
				Source:       "DuckDuckGo",
				Width:        res.Width,
				Height:       res.Height,
				AltText:      alt,
			})
		}
	}
	return out
}

// fetchBingImages parses the result grid; each a.iusc anchor carries its
// image metadata as JSON in the m attribute.
func (f *Fetcher) fetchBingImages(productName string, maxImages int) []models.ImageCandidate {
	query := enhanceQuery(productName)
	doc, err := f.getDocument(f.bingBase + "/images/search?q=" + url.QueryEscape(query))
	if err != nil {
		f.log.Warn("bing image fetch failed", logger.Err(err))
		return nil
	}

	var out []models.ImageCandidate
	doc.Find("a.iusc").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= maxImages*3 || len(out) >= maxImages {
			return false
		}
		m, ok := sel.Attr("m")
		if !ok {
			return true
		}
		var meta struct {
			MURL string `json:"murl"`
			TURL string `json:"turl"`
			T    string `json:"t"`
		}
		if err := json.Unmarshal([]byte(m), &meta); err != nil {
			return true
		}
		alt := meta.T
		if alt == "" {
			alt = productName
		}
		if meta.MURL != "" && IsValidImageURL(meta.MURL) && IsProductImage(meta.MURL, alt, productName) {
			out = append(out, models.ImageCandidate{
				URL:          meta.MURL,
				ThumbnailURL: meta.TURL,
				Source:       "Bing",
				AltText:      alt,
			})
		}
		return true
	})
	return out
}

func (f *Fetcher) getDocument(rawURL string) (*goquery.Document, error) {
	resp, err := f.get(rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return goquery.NewDocumentFromReader(resp.Body)
}

func (f *Fetcher) getBody(rawURL string) (string, error) {
	resp, err := f.get(rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (f *Fetcher) get(rawURL string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s returned %d", rawURL, resp.StatusCode)
	}
	return resp, nil
}

func firstAttr(sel *goquery.Selection, names ...string) string {
	for _, n := range names {
		if v, ok := sel.Attr(n); ok && v != "" {
			return v
		}
	}
	return ""
}

func absolutize(imgURL, domain string) string {
	if strings.HasPrefix(imgURL, "//") {
		return "https:" + imgURL
	}
	if strings.HasPrefix(imgURL, "/") {
		return "https://" + domain + imgURL
	}
	return imgURL
}
