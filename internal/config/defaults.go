package config

const (
	defaultDataDir                    = "~/.local/share/shelfscan"
	defaultLogDir                     = "~/.local/share/shelfscan/logs"
	defaultAPIBind                    = "127.0.0.1:5000"
	defaultTMDBLanguage               = "en-US"
	defaultTMDBBaseURL                = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL           = "https://image.tmdb.org/t/p/w500"
	defaultCatalogTimeoutSeconds      = 10
	defaultCatalogUserAgent           = "Mozilla/5.0 (compatible; shelfscan/1.0)"
	defaultUPCItemDBBaseURL           = "https://api.upcitemdb.com"
	defaultUPCItemDBRequestsPerMinute = 6
	defaultOpenFoodFactsBaseURL       = "https://world.openfoodfacts.org"
	defaultBarcodeLookupBaseURL       = "https://api.barcodelookup.com"
	defaultMaxBodyMiB                 = 16
	defaultReadTimeoutSeconds         = 15
	defaultWriteTimeoutSeconds        = 75
	defaultCondition                  = "Good"
	defaultLogFormat                  = "console"
	defaultLogLevel                   = "info"
)

// Catalog backend names accepted in catalogs.enabled.
const (
	CatalogUPCItemDB     = "upcitemdb"
	CatalogOpenFoodFacts = "openfoodfacts"
	CatalogBarcodeLookup = "barcodelookup"
)

// DefaultCatalogOrder is the order catalogs are tried when none is configured.
var DefaultCatalogOrder = []string{CatalogUPCItemDB, CatalogOpenFoodFacts, CatalogBarcodeLookup}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		TMDB: TMDB{
			BaseURL:      defaultTMDBBaseURL,
			ImageBaseURL: defaultTMDBImageBaseURL,
			Language:     defaultTMDBLanguage,
		},
		Catalogs: Catalogs{
			Enabled:                    append([]string(nil), DefaultCatalogOrder...),
			TimeoutSeconds:             defaultCatalogTimeoutSeconds,
			UserAgent:                  defaultCatalogUserAgent,
			UPCItemDBBaseURL:           defaultUPCItemDBBaseURL,
			UPCItemDBRequestsPerMinute: defaultUPCItemDBRequestsPerMinute,
			OpenFoodFactsBaseURL:       defaultOpenFoodFactsBaseURL,
			BarcodeLookupBaseURL:       defaultBarcodeLookupBaseURL,
		},
		Server: Server{
			MaxBodyMiB:          defaultMaxBodyMiB,
			ReadTimeoutSeconds:  defaultReadTimeoutSeconds,
			WriteTimeoutSeconds: defaultWriteTimeoutSeconds,
		},
		Collection: Collection{
			DefaultCondition: defaultCondition,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
