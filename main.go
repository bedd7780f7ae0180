package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"product-intel/pkg/analyzers"
	"product-intel/pkg/api"
	"product-intel/pkg/cache"
	"product-intel/pkg/config"
	"product-intel/pkg/currency"
	"product-intel/pkg/history"
	"product-intel/pkg/images"
	"product-intel/pkg/llm"
	"product-intel/pkg/logger"
	"product-intel/pkg/models"
	"product-intel/pkg/pricing"
	"product-intel/pkg/review"
	"product-intel/pkg/scrapers"
	"product-intel/pkg/search"

	scalargo "github.com/bdpiprava/scalar-go"
)

// reportBuilder is the surface the HTTP layer needs from the review service.
type reportBuilder interface {
	BuildReport(ctx context.Context, productName string, opts review.Options) (*models.IntelligenceReport, error)
}

type app struct {
	builder   reportBuilder
	history   *history.Store
	cache     *cache.Cache
	log       logger.Logger
	semaphore chan struct{}
}

func main() {
	cfg := config.MustLoad()

	log, err := logger.New(cfg.Server.Debug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	productCache := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.MaxEntries, log)
	converter := currency.NewConverter(cfg.Pricing.USDNairaFallback, log)

	sources := scrapers.Build(config.Retailers(), cfg.Web.RequestTimeout, log)
	rapidapi := pricing.NewRapidAPIClient(cfg.Pricing.RapidAPIKey, productCache, converter, log)
	priceService := pricing.NewService(sources, rapidapi, productCache, cfg.Pricing, cfg.Web.RequestDelay, log)

	imageFetcher := images.NewFetcher(productCache, cfg.Images, cfg.Web, log)
	searchClient := search.NewClient(productCache, cfg.Web, log)
	contentScraper := search.NewScraper(productCache, cfg.Web, log)

	chat := llm.NewClient(cfg.LLM)
	generator := review.NewGenerator(chat, log)

	an := review.Analyzers{
		RedFlags: &analyzers.RedFlagDetector{},
		Timing:   analyzers.NewTimingAdvisor(),
	}
	if chat.Enabled() {
		an.Resale = analyzers.NewResaleAnalyzer(chat, log)
		an.FakeAlert = analyzers.NewFakeSpotter(chat, log)
		an.VoxPopuli = analyzers.NewVoxPopuli(chat, log)
		an.SmartSwap = analyzers.NewSmartSwap(chat, log)
		an.NetPrice = analyzers.NewNetPrice(chat, log)
		an.Disaster = analyzers.NewDisasterAnalyzer(chat, log)
	} else {
		log.Warn("GROQ_API_KEY not set, generation-backed analyzers disabled")
	}

	service := review.NewService(searchClient, contentScraper, generator,
		imageFetcher, priceService, converter, an, log)

	store, err := history.New(cfg.History.DBPath, log)
	if err != nil {
		log.Error("failed to open history store", logger.Err(err))
		panic(err)
	}
	defer store.Close()

	a := &app{
		builder:   service,
		history:   store,
		cache:     productCache,
		log:       log,
		semaphore: make(chan struct{}, cfg.Server.MaxConcurrent),
	}

	http.HandleFunc("/", a.rootHandler)

	ip := GetOutboundIP()
	if ip != nil {
		fmt.Printf("Local Network URL: http://%s:%s\n", ip.String(), cfg.Server.Port)
	} else {
		fmt.Println("Could not determine local IP address.")
	}
	fmt.Printf("Access URL: http://localhost:%s\n", cfg.Server.Port)
	fmt.Printf("API Docs: http://localhost:%s/\n", cfg.Server.Port)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           nil,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	log.Error("server stopped", logger.Err(server.ListenAndServe()))
}

func (a *app) rootHandler(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/reports/") {
		a.reportHandler(w, r)
		return
	}
	if r.URL.Path == "/history" || strings.HasPrefix(r.URL.Path, "/history/") {
		a.historyHandler(w, r)
		return
	}

	// Serve Scalar docs on root path
	html, err := scalargo.NewV2(
		scalargo.WithSpecDir("./"),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle("Product Intelligence API"),
		),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

func GetOutboundIP() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		addrs, _ := net.InterfaceAddrs()
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					return ipnet.IP
				}
			}
		}
		return nil
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)

	return localAddr.IP
}

func (a *app) reportHandler(w http.ResponseWriter, r *http.Request) {
	// Path expected: /reports/{product-name} or /reports/{product-name}/refresh
	parts := strings.Split(r.URL.Path, "/")
	// parts[0] = ""
	// parts[1] = "reports"
	// parts[2] = {product-name}
	// parts[3] = "refresh" (optional)

	if len(parts) < 3 || parts[2] == "" {
		api.WriteBadRequest(w, "Invalid path. Expected /reports/{product-name} or /reports/{product-name}/refresh", r.URL.Path)
		return
	}

	productName, err := url.PathUnescape(parts[2])
	if err != nil {
		api.WriteBadRequest(w, "Invalid product name encoding: "+parts[2], r.URL.Path)
		return
	}

	refresh := len(parts) > 3 && parts[3] == "refresh"
	if refresh {
		if r.Method != http.MethodPost {
			api.WriteBadRequest(w, "Method not allowed for refresh endpoint. Use POST.", r.URL.Path)
			return
		}
	} else if r.Method != http.MethodGet {
		api.WriteBadRequest(w, "Method not allowed. Use GET for reports.", r.URL.Path)
		return
	}

	opts := review.Options{
		IncludeGlobal: r.URL.Query().Get("global") == "true",
		Mode:          r.URL.Query().Get("mode"),
	}

	if refresh {
		a.invalidateProduct(productName)
	}

	// Bound concurrent builds to prevent system overload
	a.semaphore <- struct{}{}
	defer func() { <-a.semaphore }()

	report, err := a.builder.BuildReport(r.Context(), productName, opts)
	if err != nil {
		a.log.Error("report build failed",
			logger.String("product", productName), logger.Err(err))

		switch {
		case errors.Is(err, review.ErrInvalidProduct):
			api.WriteUnprocessableEntity(w, err.Error(), r.URL.Path)
		case strings.Contains(err.Error(), "context deadline exceeded"),
			strings.Contains(err.Error(), "Client.Timeout"),
			strings.Contains(err.Error(), "timeout"):
			api.WriteError(w, http.StatusGatewayTimeout, "Gateway Timeout", "Upstream service timed out: "+err.Error(), r.URL.Path)
		case errors.Is(err, review.ErrGeneration):
			api.WriteBadGateway(w, err.Error(), r.URL.Path)
		default:
			api.WriteInternalServerError(w, err, r.URL.Path)
		}
		return
	}

	if userID := r.URL.Query().Get("user"); userID != "" {
		a.history.Save(userID, productName, report)
	}

	a.writeJSON(w, r, report)
}

// invalidateProduct drops every cache entry derived from one product so a
// refresh rebuilds from live sources. Scraped page text is keyed per URL, so
// the cached search results are read first to find which pages to drop.
func (a *app) invalidateProduct(productName string) {
	var results []models.SearchResult
	if a.cache.Get("search_"+productName, &results) {
		for _, res := range results {
			a.cache.Invalidate("content_" + res.URL)
		}
	}
	for _, key := range []string{
		"search_" + productName,
		"images_" + productName,
		"all_prices_" + productName + "_true",
		"all_prices_" + productName + "_false",
		"amazon_" + productName,
		"multiplatform_" + productName,
	} {
		a.cache.Invalidate(key)
	}
}

func (a *app) historyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteBadRequest(w, "Method not allowed. Use GET for history.", r.URL.Path)
		return
	}

	userID := r.URL.Query().Get("user")
	if userID == "" {
		api.WriteBadRequest(w, "Missing required query parameter: user", r.URL.Path)
		return
	}

	// Path expected: /history or /history/{product-name}
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) > 2 && parts[2] != "" {
		productName, err := url.PathUnescape(parts[2])
		if err != nil {
			api.WriteBadRequest(w, "Invalid product name encoding: "+parts[2], r.URL.Path)
			return
		}
		entry, ok := a.history.Get(userID, productName)
		if !ok {
			api.WriteNotFound(w, "No saved report for this user and product", r.URL.Path)
			return
		}
		a.writeJSON(w, r, entry)
		return
	}

	entries, err := a.history.ForUser(userID, 0)
	if err != nil {
		api.WriteInternalServerError(w, err, r.URL.Path)
		return
	}
	a.writeJSON(w, r, entries)
}

func (a *app) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error("failed to encode response", logger.Err(err))
		api.WriteInternalServerError(w, fmt.Errorf("failed to encode response"), r.URL.Path)
	}
}
