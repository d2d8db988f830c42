// Package configkeys names the dotted configuration keys read by the config package.
package configkeys

const (
	delimiter = "."

	StorePrefix = "store"
	StoreDriver = StorePrefix + delimiter + "driver"
	StoreDSN    = StorePrefix + delimiter + "dsn"

	CachePrefix      = "cache"
	CacheDriver      = CachePrefix + delimiter + "driver"
	CacheAddr        = CachePrefix + delimiter + "addr"
	CachePassword    = CachePrefix + delimiter + "password"
	CacheDB          = CachePrefix + delimiter + "db"
	CacheShards      = CachePrefix + delimiter + "shards"
	CacheNumCounters = CachePrefix + delimiter + "num_counters"
	CacheMaxCost     = CachePrefix + delimiter + "max_cost"

	LogPrefix      = "log"
	LogLevel       = LogPrefix + delimiter + "level"
	LogDevelopment = LogPrefix + delimiter + "development"

	TransportPrefix    = "transport"
	TransportBaseURL   = TransportPrefix + delimiter + "base_url"
	TransportTimeout   = TransportPrefix + delimiter + "timeout"
	TransportRateLimit = TransportPrefix + delimiter + "rate_limit"
	TransportBurst     = TransportPrefix + delimiter + "burst"
	TransportHeaders   = TransportPrefix + delimiter + "headers"
)
