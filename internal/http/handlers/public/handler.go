package public

import (
	"strconv"
	"strings"

	handlershared "github.com/sabor-next/internal/http/handlers/shared"
	"github.com/sabor-next/internal/provider"
)

// Handler 前台/公开接口处理器入口
// 说明：该处理器仅用于堂食顾客、游客侧 API。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

func parseIDParam(raw string) (uint, bool) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}
