package recurrence

// EngineConfig holds tuning options for the recurrence engine.
type EngineConfig struct {
	// Cache configuration
	CacheEnabled bool
	CacheConfig  CacheConfig

	// MaxWalkSteps bounds the occurrence walk in OccursOnDate. It is a
	// non-termination safety valve, not a performance knob: a walk that
	// hits the ceiling returns false instead of looping. Zero or
	// negative falls back to the default ceiling.
	MaxWalkSteps int
}

// DefaultMaxWalkSteps is the step ceiling applied when EngineConfig
// leaves MaxWalkSteps unset.
const DefaultMaxWalkSteps = 10000

// DefaultEngineConfig provides sensible defaults for production use.
var DefaultEngineConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig:  DefaultCacheConfig,
	MaxWalkSteps: DefaultMaxWalkSteps,
}

// DisabledCacheConfig turns off caching entirely; every call recomputes.
// Useful for tests and for callers that construct configs once and
// never repeat a query.
var DisabledCacheConfig = EngineConfig{
	CacheEnabled: false,
	CacheConfig:  CacheConfig{}, // Not used
	MaxWalkSteps: DefaultMaxWalkSteps,
}

// NewEngineWithConfig creates a new recurrence engine with custom
// configuration.
func NewEngineWithConfig(config EngineConfig) *Engine {
	if config.MaxWalkSteps <= 0 {
		config.MaxWalkSteps = DefaultMaxWalkSteps
	}

	var cache *Cache
	if config.CacheEnabled {
		cache = NewCache(config.CacheConfig)
	}

	return &Engine{
		cache:  cache,
		config: config,
	}
}

// Close releases the engine's cache resources, if any. Engines without
// caching have nothing to release.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// CacheStats reports the engine cache's statistics; the zero value when
// caching is disabled.
func (e *Engine) CacheStats() CacheStats {
	if e.cache == nil {
		return CacheStats{}
	}
	return e.cache.Stats()
}
