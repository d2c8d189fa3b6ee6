package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"deal-alert-be/internal/config"
	"deal-alert-be/internal/entity"
	"deal-alert-be/internal/pkg/logger"
)

// superDiscountThreshold marks the badge variant of a super deal at collect
// time; the classifier applies the same cutoff independently.
const superDiscountThreshold = 49

var (
	reProductBlock = regexp.MustCompile(`small_product_div`)
	reHref         = regexp.MustCompile(`href="([^"]+)"`)
	reNewStyleId   = regexp.MustCompile(`/product/([A-Za-z0-9_-]+)/?`)
	reOldStyleId   = regexp.MustCompile(`product_id=(\d+)&item_id=(\d+)`)
	reItemName     = regexp.MustCompile(`class="[^"]*another_item_name[^"]*"[^>]*>([^<]+)<`)
	reImgTag       = regexp.MustCompile(`<img[^>]+>`)
	reImgSrc       = regexp.MustCompile(`src="([^"]+)"`)
	reImgAlt       = regexp.MustCompile(`alt="([^"]*)"`)
	reAltTitle     = regexp.MustCompile(`(.+?)(?:이라는 상품의 현재 가격은)`)
	reDiscountTag  = regexp.MustCompile(`(\d+)%`)
	rePriceWon     = regexp.MustCompile(`([\d,]+)\s*원`)
	rePriceBare    = regexp.MustCompile(`([\d,]+)`)
	reDiscountNote = regexp.MustCompile(`(?i)\d+%\s*(할인|OFF|DC)`)
	reSectionId    = regexp.MustCompile(`id="([^"]*(?:가전|디지털)[^"]*)"`)
	reSectionAny   = regexp.MustCompile(`id="[^"]+"`)
)

// HttpCollector scrapes the deal listing page with a plain HTTP GET and
// regexp extraction. The page is server-rendered, so no script evaluation is
// needed.
type HttpCollector struct {
	baseURL string
	client  *http.Client
	state   ProductContext
	logger  logger.ILogger
}

func NewHttpCollector(cfg config.CollectorConfig, state ProductContext, log logger.ILogger) *HttpCollector {
	return &HttpCollector{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		state:  state,
		logger: log,
	}
}

func (c *HttpCollector) Collect(ctx context.Context) ([]entity.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build listing request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing body: %w", err)
	}

	products := c.Parse(string(body))
	c.logger.Info("Collector", "Listing collected", map[string]interface{}{
		"products": len(products),
	})
	return products, nil
}

// Parse extracts products from a listing document. Split out from Collect so
// fixtures can exercise the extraction without a server.
func (c *HttpCollector) Parse(html string) []entity.Product {
	electronicIds := electronicSectionIds(html)
	settings := c.state.Settings()
	now := time.Now()

	blocks := splitBlocks(html)
	processed := make(map[string]struct{}, len(blocks))
	products := make([]entity.Product, 0, len(blocks))

	for _, block := range blocks {
		product, ok := c.parseBlock(block, electronicIds, settings, now)
		if !ok {
			continue
		}
		if _, dup := processed[product.Id]; dup {
			continue
		}
		processed[product.Id] = struct{}{}
		if c.state.IsProductBanned(product.Id) {
			continue
		}
		products = append(products, product)
	}
	return products
}

func (c *HttpCollector) parseBlock(block string, electronicIds map[string]struct{}, settings entity.Settings, now time.Time) (entity.Product, bool) {
	href := extractHref(block)
	id := extractProductId(href)
	if id == "" {
		return entity.Product{}, false
	}

	price := extractPrice(block)
	if price == 0 {
		return entity.Product{}, false
	}

	title := extractTitle(block)
	if title == "" {
		return entity.Product{}, false
	}

	discount := extractDiscountRate(block)
	_, isElectronic := electronicIds[id]
	keywordInfo := matchKeyword(title, settings)

	return entity.Product{
		Id:             id,
		Title:          title,
		Price:          price,
		DiscountRate:   discount,
		ImageUrl:       extractImageUrl(block),
		ProductUrl:     c.absoluteUrl(href),
		IsElectronic:   isElectronic,
		IsSuperDeal:    discount >= superDiscountThreshold,
		IsRocket:       hasRocketBadge(block),
		IsLowest:       hasLowestBadge(block),
		IsKeywordMatch: keywordInfo != nil,
		KeywordInfo:    keywordInfo,
		Seen:           c.state.IsProductSeen(id),
		PriceChanged:   c.state.TrackPrice(id, price),
		Timestamp:      now,
	}, true
}

func (c *HttpCollector) absoluteUrl(href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http"):
		return href
	case strings.HasPrefix(href, "/"):
		return c.baseURL + href
	default:
		return c.baseURL + "/" + href
	}
}

// splitBlocks cuts the document into one chunk per product marker. The text
// before the first marker carries no products and is dropped.
func splitBlocks(html string) []string {
	locs := reProductBlock.FindAllStringIndex(html, -1)
	if len(locs) == 0 {
		return nil
	}
	blocks := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(html)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, html[loc[0]:end])
	}
	return blocks
}

// electronicSectionIds collects the product ids listed under the appliances
// and electronics category heading. Only category placement marks a product
// electronic; title heuristics proved too noisy.
func electronicSectionIds(html string) map[string]struct{} {
	ids := make(map[string]struct{})

	section := reSectionId.FindStringIndex(html)
	if section == nil {
		return ids
	}

	// The section runs until the next id anchor or end of document.
	rest := html[section[1]:]
	end := len(rest)
	if next := reSectionAny.FindStringIndex(rest); next != nil {
		end = next[0]
	}

	for _, block := range splitBlocks(rest[:end]) {
		if id := extractProductId(extractHref(block)); id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids
}

func extractHref(block string) string {
	m := reHref.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], "&amp;", "&")
}

func extractProductId(href string) string {
	if href == "" {
		return ""
	}
	if m := reNewStyleId.FindStringSubmatch(href); m != nil {
		return m[1]
	}
	if m := reOldStyleId.FindStringSubmatch(href); m != nil {
		return m[1] + "_" + m[2]
	}
	return ""
}

func extractPrice(block string) int {
	clean := reDiscountNote.ReplaceAllString(block, "")

	if m := rePriceWon.FindStringSubmatch(clean); m != nil {
		price, _ := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if price >= 100 && price <= 50_000_000 {
			return price
		}
	}

	// Some layouts drop the currency suffix; accept bare numbers only in a
	// range that cannot be a discount percentage or a count.
	if m := rePriceBare.FindStringSubmatch(clean); m != nil {
		price, _ := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if price >= 1000 && price <= 50_000_000 {
			return price
		}
	}
	return 0
}

func extractTitle(block string) string {
	if m := reItemName.FindStringSubmatch(block); m != nil {
		title := strings.ReplaceAll(m[1], "[쿠팡]", "")
		return strings.Join(strings.Fields(title), " ")
	}

	if img := reImgTag.FindString(block); img != "" {
		if m := reImgAlt.FindStringSubmatch(img); m != nil {
			alt := m[1]
			if t := reAltTitle.FindStringSubmatch(alt); t != nil {
				return strings.TrimSpace(t[1])
			}
			return strings.TrimSpace(alt)
		}
	}
	return ""
}

func extractDiscountRate(block string) int {
	if m := reDiscountTag.FindStringSubmatch(block); m != nil {
		discount, _ := strconv.Atoi(m[1])
		if discount >= 1 && discount <= 99 {
			return discount
		}
	}
	return 0
}

func extractImageUrl(block string) string {
	if img := reImgTag.FindString(block); img != "" {
		if m := reImgSrc.FindStringSubmatch(img); m != nil {
			return m[1]
		}
	}
	return ""
}

func hasRocketBadge(block string) bool {
	lower := strings.ToLower(block)
	return strings.Contains(block, "로켓") ||
		strings.Contains(block, "당일배송") ||
		strings.Contains(lower, "rocket") ||
		strings.Contains(lower, "web_rocket_icon")
}

func hasLowestBadge(block string) bool {
	lower := strings.ToLower(block)
	return strings.Contains(block, "최저가") ||
		strings.Contains(lower, "lowest")
}

func matchKeyword(title string, settings entity.Settings) *entity.KeywordInfo {
	lowerTitle := strings.ToLower(title)
	for _, category := range settings.Keywords.Categories {
		if !category.Enabled {
			continue
		}
		for _, keyword := range category.Keywords {
			if strings.Contains(lowerTitle, strings.ToLower(keyword)) {
				priority := category.Priority
				if priority == "" {
					priority = "medium"
				}
				return &entity.KeywordInfo{
					Keyword:  keyword,
					Category: category.Name,
					Priority: priority,
				}
			}
		}
	}
	return nil
}
