package consts

const (
	NicheConfigKey    = "cadence:config"
	WeightSnapshotKey = "cadence:weight:snapshot"
	MetricDirtyKey    = "cadence:metric:dirty"
	TrendCacheKey     = "cadence:trend:cache:" // + platform
)

const (
	PublishJobLock = "lock:job:publish"
	MetricJobLock  = "lock:job:metric"
	WeightJobLock  = "lock:job:weight"
)
