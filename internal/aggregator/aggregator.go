// file: internal/aggregator/aggregator.go
// version: 1.0.0
// guid: 5d1c8e73-2f4a-49b6-8e07-a3b9c6d2f418

// Package aggregator fans one logical asset query out to every enabled
// provider and merges the results into a single response.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jdfalk/asset-store/internal/localassets"
	"github.com/jdfalk/asset-store/internal/logger"
	"github.com/jdfalk/asset-store/internal/metrics"
	"github.com/jdfalk/asset-store/internal/models"
	"github.com/jdfalk/asset-store/internal/provider"
)

// DisabledMessage is reported when the store is off or no provider is enabled.
const DisabledMessage = "Asset store is disabled"

// NoVideoProviderMessage is reported for video requests when providers are
// enabled but none of them can list videos.
const NoVideoProviderMessage = "No enabled provider supports video assets"

// ConfigStore persists the asset store settings document.
type ConfigStore interface {
	// Load returns the stored config. found is false when nothing was saved yet.
	Load(ctx context.Context) (cfg models.AssetStoreConfig, found bool, err error)
	Save(ctx context.Context, cfg models.AssetStoreConfig) error
}

// CredentialResolver supplies an API key for a provider, or "" to keep the
// configured one. Non-empty results take precedence over stored keys.
type CredentialResolver func(name models.ProviderName) string

// Factory builds an adapter for one provider.
type Factory func(name models.ProviderName, cfg models.AssetProviderConfig) provider.AssetProvider

// LocalCatalog serves non-network asset types.
type LocalCatalog interface {
	Search(params models.AssetSearchParams, t models.AssetType) *models.AssetAPIResponse
	Featured(params models.AssetSearchParams, t models.AssetType) *models.AssetAPIResponse
	Categories(t models.AssetType) []string
}

// Options configures New. Config wins over Store when both are set.
type Options struct {
	Config      *models.AssetStoreConfig
	Store       ConfigStore
	Credentials CredentialResolver
	Factory     Factory

	// Used by the default factory only.
	BaseURLs   map[models.ProviderName]string
	HTTPClient *http.Client
	Sleeper    provider.Sleeper

	Logger zerolog.Logger
	Local  LocalCatalog
}

// state is swapped atomically; nothing in it is mutated after publication.
type state struct {
	config    models.AssetStoreConfig
	providers []provider.AssetProvider
}

// Aggregator is safe for concurrent use.
type Aggregator struct {
	store       ConfigStore
	credentials CredentialResolver
	factory     Factory
	local       LocalCatalog
	log         zerolog.Logger
	derived     bool // request-scoped copy from WithCredentials

	mu    sync.Mutex // serializes UpdateConfig
	state atomic.Pointer[state]
}

// New loads the configuration and builds one adapter per known provider.
func New(ctx context.Context, opts Options) (*Aggregator, error) {
	a := &Aggregator{
		store:       opts.Store,
		credentials: opts.Credentials,
		factory:     opts.Factory,
		local:       opts.Local,
		log:         opts.Logger.With().Str("component", "aggregator").Logger(),
	}
	if a.factory == nil {
		a.factory = DefaultFactory(opts.Logger, opts.HTTPClient, opts.Sleeper, opts.BaseURLs)
	}
	if a.local == nil {
		a.local = localassets.Default()
	}

	cfg := models.DefaultAssetStoreConfig()
	switch {
	case opts.Config != nil:
		cfg = opts.Config.Clone()
	case opts.Store != nil:
		stored, found, err := opts.Store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load asset store config: %w", err)
		}
		if found {
			cfg = stored
		}
	}
	a.publish(cfg.WithDefaults())
	return a, nil
}

// DefaultFactory wires the real adapters with shared transport options.
func DefaultFactory(log zerolog.Logger, client *http.Client, sleeper provider.Sleeper, baseURLs map[models.ProviderName]string) Factory {
	return func(name models.ProviderName, cfg models.AssetProviderConfig) provider.AssetProvider {
		opts := []provider.Option{provider.WithLogger(log)}
		if client != nil {
			opts = append(opts, provider.WithHTTPClient(client))
		}
		if sleeper != nil {
			opts = append(opts, provider.WithSleeper(sleeper))
		}
		if u := baseURLs[name]; u != "" {
			opts = append(opts, provider.WithBaseURL(u))
		}
		return provider.New(name, cfg, opts...)
	}
}

// EnvCredentials reads keys from UNSPLASH_ACCESS_KEY and PEXELS_API_KEY.
func EnvCredentials() CredentialResolver {
	return func(name models.ProviderName) string {
		switch name {
		case models.ProviderUnsplash:
			return os.Getenv("UNSPLASH_ACCESS_KEY")
		case models.ProviderPexels:
			return os.Getenv("PEXELS_API_KEY")
		default:
			return ""
		}
	}
}

// StaticCredentials resolves keys from a fixed map.
func StaticCredentials(keys map[models.ProviderName]string) CredentialResolver {
	return func(name models.ProviderName) string {
		return keys[name]
	}
}

// ChainCredentials returns the first non-empty key from resolvers.
func ChainCredentials(resolvers ...CredentialResolver) CredentialResolver {
	return func(name models.ProviderName) string {
		for _, r := range resolvers {
			if r == nil {
				continue
			}
			if k := strings.TrimSpace(r(name)); k != "" {
				return k
			}
		}
		return ""
	}
}

// publish rebuilds every adapter from cfg and swaps them in.
func (a *Aggregator) publish(cfg models.AssetStoreConfig) {
	effective := cfg.OverlayKeys(a.credentials)
	providers := make([]provider.AssetProvider, 0, len(models.KnownProviders))
	enabled := 0
	for _, name := range models.KnownProviders {
		p := a.factory(name, effective.Provider(name))
		if p == nil {
			continue
		}
		providers = append(providers, p)
		if cfg.Enabled && p.IsEnabled() {
			enabled++
		}
	}
	a.state.Store(&state{config: cfg, providers: providers})
	if !a.derived {
		metrics.SetEnabledProviders(enabled)
	}
}

// WithCredentials derives an Aggregator whose adapters see keys from
// resolver first. The derived instance shares the store but owns its
// adapters; updating it does not affect the parent.
func (a *Aggregator) WithCredentials(resolver CredentialResolver) *Aggregator {
	d := &Aggregator{
		store:       a.store,
		credentials: ChainCredentials(resolver, a.credentials),
		factory:     a.factory,
		local:       a.local,
		log:         a.log,
		derived:     true,
	}
	d.publish(a.state.Load().config)
	return d
}

// GetConfig returns a copy of the current configuration.
func (a *Aggregator) GetConfig() models.AssetStoreConfig {
	return a.state.Load().config.Clone()
}

// UpdateConfig merges update into the current configuration, rebuilds the
// adapters, and persists the result. The in-memory config is replaced even
// if persisting fails; the store error is returned.
func (a *Aggregator) UpdateConfig(ctx context.Context, update models.AssetStoreConfigUpdate) (models.AssetStoreConfig, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.state.Load().config.Merge(update).WithDefaults()
	a.publish(next)
	a.log.Info().
		Bool("enabled", next.Enabled).
		Int("enabled_providers", len(a.enabledProviders())).
		Msg("asset store config updated")

	if a.store != nil {
		if err := a.store.Save(ctx, next); err != nil {
			return next.Clone(), fmt.Errorf("failed to persist asset store config: %w", err)
		}
	}
	return next.Clone(), nil
}

// enabledProviders returns adapters allowed to make network calls, in
// KnownProviders order.
func (a *Aggregator) enabledProviders() []provider.AssetProvider {
	st := a.state.Load()
	if !st.config.Enabled {
		return nil
	}
	out := make([]provider.AssetProvider, 0, len(st.providers))
	for _, p := range st.providers {
		if p.IsEnabled() {
			out = append(out, p)
		}
	}
	return out
}

// EnabledProviders lists the names of providers that will be queried.
func (a *Aggregator) EnabledProviders() []models.ProviderName {
	ps := a.enabledProviders()
	out := make([]models.ProviderName, len(ps))
	for i, p := range ps {
		out[i] = p.Name()
	}
	return out
}

type call func(ctx context.Context, p provider.AssetProvider) (*models.AssetAPIResponse, error)

// SearchAssets runs a free-text search for assetType. It never returns an
// error: failures are folded into the response.
func (a *Aggregator) SearchAssets(ctx context.Context, params models.AssetSearchParams, assetType models.AssetType) *models.AssetAPIResponse {
	params = params.Normalized()
	if !assetType.IsRemote() {
		return a.local.Search(params, assetType)
	}
	return a.fanOut(ctx, "search", params, assetType, func(ctx context.Context, p provider.AssetProvider) (*models.AssetAPIResponse, error) {
		if assetType == models.AssetTypeVideo {
			return p.(provider.VideoProvider).SearchVideos(ctx, params)
		}
		return p.SearchAssets(ctx, params)
	})
}

// GetFeaturedAssets lists curated or popular assets. Any query in params is
// ignored.
func (a *Aggregator) GetFeaturedAssets(ctx context.Context, params models.AssetSearchParams, assetType models.AssetType) *models.AssetAPIResponse {
	params = params.Normalized()
	params.Query = ""
	if !assetType.IsRemote() {
		return a.local.Featured(params, assetType)
	}
	return a.fanOut(ctx, "featured", params, assetType, func(ctx context.Context, p provider.AssetProvider) (*models.AssetAPIResponse, error) {
		if assetType == models.AssetTypeVideo {
			return p.(provider.VideoProvider).GetPopularVideos(ctx, params)
		}
		return p.GetFeaturedAssets(ctx, params)
	})
}

type outcome struct {
	provider models.ProviderName
	resp     *models.AssetAPIResponse
	err      error
}

func (a *Aggregator) fanOut(ctx context.Context, op string, params models.AssetSearchParams, assetType models.AssetType, fn call) *models.AssetAPIResponse {
	ol := logger.NewOperationLogger(a.log, op, logger.RequestIDFrom(ctx))
	ol.AddDetail("asset_type", string(assetType))
	ol.AddDetail("page", params.Page)

	targets := a.enabledProviders()
	if len(targets) == 0 {
		metrics.IncSearch(string(assetType), "disabled")
		ol.LogWarning(DisabledMessage)
		return models.FailedResponse(params, DisabledMessage)
	}
	if assetType == models.AssetTypeVideo {
		targets = videoCapable(targets)
		if len(targets) == 0 {
			metrics.IncSearch(string(assetType), "disabled")
			ol.LogWarning(NoVideoProviderMessage)
			return models.FailedResponse(params, NoVideoProviderMessage)
		}
	}
	ol.LogStart()

	outcomes := make([]outcome, len(targets))
	var g errgroup.Group
	for i, p := range targets {
		g.Go(func() error {
			outcomes[i] = invoke(ctx, p, fn)
			return nil
		})
	}
	_ = g.Wait()

	resp := merge(params, outcomes)
	for _, o := range outcomes {
		if o.err != nil {
			a.log.Warn().Err(o.err).Str("provider", string(o.provider)).Str("operation", op).Msg("provider failed")
		}
	}

	ol.AddDetail("results", len(resp.Data))
	switch {
	case !resp.Success:
		metrics.IncSearch(string(assetType), "failed")
		ol.LogError(errors.New(resp.Error))
	case resp.Error != "":
		metrics.IncSearch(string(assetType), "degraded")
		ol.LogWarning("degraded results")
	default:
		metrics.IncSearch(string(assetType), "ok")
		ol.LogSuccess()
	}
	metrics.ObserveSearchResults(string(assetType), len(resp.Data))
	return resp
}

// invoke runs fn against p, converting a panic into that provider's error.
func invoke(ctx context.Context, p provider.AssetProvider, fn call) (out outcome) {
	out.provider = p.Name()
	defer func() {
		if r := recover(); r != nil {
			out.resp = nil
			out.err = fmt.Errorf("%s provider failed unexpectedly: %v", p.Name(), r)
		}
	}()
	resp, err := fn(ctx, p)
	if err == nil && resp == nil {
		err = fmt.Errorf("%s provider returned no response", p.Name())
	}
	out.resp, out.err = resp, err
	return out
}

// merge concatenates successful outcomes in order. The last failure message
// is reported in Error; success holds when data was produced or nothing failed.
func merge(params models.AssetSearchParams, outcomes []outcome) *models.AssetAPIResponse {
	resp := models.EmptyResponse(params)
	for _, o := range outcomes {
		if o.err != nil {
			resp.Error = o.err.Error()
			continue
		}
		resp.Data = append(resp.Data, o.resp.Data...)
		resp.Total += o.resp.Total
		resp.HasMore = resp.HasMore || o.resp.HasMore
	}
	resp.Success = len(resp.Data) > 0 || resp.Error == ""
	if !resp.Success {
		resp.Total = 0
		resp.HasMore = false
	}
	return resp
}

func videoCapable(ps []provider.AssetProvider) []provider.AssetProvider {
	out := make([]provider.AssetProvider, 0, len(ps))
	for _, p := range ps {
		if _, ok := p.(provider.VideoProvider); ok {
			out = append(out, p)
		}
	}
	return out
}

// GetCategories returns the sorted union of categories for assetType.
func (a *Aggregator) GetCategories(assetType models.AssetType) []string {
	if !assetType.IsRemote() {
		return a.local.Categories(assetType)
	}
	set := make(map[string]struct{})
	for _, p := range a.enabledProviders() {
		if assetType == models.AssetTypeVideo {
			if _, ok := p.(provider.VideoProvider); !ok {
				continue
			}
		}
		for _, c := range p.GetCategories() {
			set[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// ValidateAPIKeys checks every enabled provider's key concurrently.
// Disabled providers are absent from the result.
func (a *Aggregator) ValidateAPIKeys(ctx context.Context) map[models.ProviderName]bool {
	targets := a.enabledProviders()
	results := make([]bool, len(targets))

	var g errgroup.Group
	for i, p := range targets {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					a.log.Error().Str("provider", string(p.Name())).Interface("panic", r).Msg("key validation panicked")
					results[i] = false
				}
			}()
			results[i] = p.ValidateAPIKey(ctx)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[models.ProviderName]bool, len(targets))
	for i, p := range targets {
		out[p.Name()] = results[i]
	}
	return out
}
