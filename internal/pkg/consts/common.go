package consts

const (
	MimeJPEG = "image/jpeg"
)

const (
	// DefaultTrendLimit 每平台默认取榜条数
	DefaultTrendLimit = 20
	// DefaultLookbackDays 反馈权重与周报的默认回看窗口
	DefaultLookbackDays = 7
)
