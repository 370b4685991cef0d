package constants

// 订单状态常量
const (
	OrderStatusPlaced    = "placed"
	OrderStatusConfirmed = "confirmed"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 支付方式常量
const (
	PaymentMethodUPI  = "UPI"
	PaymentMethodCard = "CARD"
	PaymentMethodCOD  = "COD"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskOrderConfirmed = "order:confirmed"
	TaskCheckoutSweep  = "checkout:sweep"
)

// 缓存资源名称常量
const (
	CacheCategories    = "categories"
	CacheProducts      = "products"
	CachePosts         = "posts"
	CacheTrustedBadges = "trusted_badges"
	CacheFeaturedFish  = "featured_fish"
)

// 请求头常量
const (
	HeaderRequestID      = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
)
