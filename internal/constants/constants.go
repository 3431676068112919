package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// 订单类型常量
const (
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeaway = "takeaway"
)

// 促销活动类型常量
const (
	PromotionTypeDailySpecial       = "daily_special"
	PromotionTypeTwoForOne          = "two_for_one"
	PromotionTypePercentageDiscount = "percentage_discount"
	PromotionTypeBundleSpecial      = "bundle_special"
)

// PromotionTypes 促销活动类型集合（展示顺序）
var PromotionTypes = []string{
	PromotionTypeDailySpecial,
	PromotionTypeTwoForOne,
	PromotionTypePercentageDiscount,
	PromotionTypeBundleSpecial,
}

// 促销活动生命周期状态常量（后台列表过滤）
const (
	PromotionStateValid     = "valid"
	PromotionStateAvailable = "available"
	PromotionStateExpired   = "expired"
	PromotionStateUpcoming  = "upcoming"
)

// ISO 星期常量（1=周一 .. 7=周日）
const (
	WeekdayMonday = 1
	WeekdaySunday = 7
	WeekdayMin    = WeekdayMonday
	WeekdayMax    = WeekdaySunday
)

// 促销目录缓存键常量
const (
	CacheKeyPromotionCatalog = "promotions:catalog"
)

// 工单状态常量
const (
	TicketStatusOpen     = "open"
	TicketStatusAnswered = "answered"
	TicketStatusClosed   = "closed"
)

// 工单留言身份常量
const (
	TicketAuthorCustomer = "customer"
	TicketAuthorAdmin    = "admin"
)

// 顾客状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 队列常量
const (
	QueueDefault          = "default"
	TaskOrderStatusNotify = "order:status_notify"
	TaskTicketReplyNotify = "ticket:reply_notify"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "sb"
)

// 币种常量
const (
	SiteCurrencyDefault = "EUR"
)
