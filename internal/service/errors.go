package service

import "errors"

// 服务层业务错误，由 HTTP 层映射为响应码
var (
	ErrCategoryInvalid      = errors.New("category invalid")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategorySlugExists   = errors.New("category slug exists")
	ErrProductInvalid       = errors.New("product invalid")
	ErrProductNotFound      = errors.New("product not found")
	ErrProductSlugExists    = errors.New("product slug exists")
	ErrProductDisabled      = errors.New("product disabled")
	ErrVariantInvalid       = errors.New("variant invalid")
	ErrVariantNotFound      = errors.New("variant not found")
	ErrPromotionInvalid     = errors.New("promotion invalid")
	ErrPromotionNotFound    = errors.New("promotion not found")
	ErrPromotionNotDeleted  = errors.New("promotion not deleted")
	ErrPromotionNotValidNow = errors.New("promotion not valid now")
	ErrPromotionUnavailable = errors.New("promotion unavailable")
	ErrOrderInvalid         = errors.New("order invalid")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderEmpty           = errors.New("order has no items")
	ErrOrderStatusInvalid   = errors.New("order status transition invalid")
	ErrUserExists           = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserDisabled         = errors.New("user disabled")
	ErrInvalidCredential    = errors.New("invalid credential")
	ErrPasswordPolicy       = errors.New("password does not meet policy")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrAdminExists          = errors.New("admin already exists")
	ErrTicketInvalid        = errors.New("ticket invalid")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrTicketClosed         = errors.New("ticket closed")
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrPermissionDenied     = errors.New("permission denied")
)
