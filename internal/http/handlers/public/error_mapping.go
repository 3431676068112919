package public

import (
	"errors"

	"github.com/sabor-next/internal/http/response"
	"github.com/sabor-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrOrderInvalid, code: response.CodeBadRequest, msg: "order invalid"},
	{target: service.ErrOrderEmpty, code: response.CodeBadRequest, msg: "order has no items"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, msg: "dish not found"},
	{target: service.ErrProductDisabled, code: response.CodeBadRequest, msg: "dish is not available"},
	{target: service.ErrVariantNotFound, code: response.CodeBadRequest, msg: "variant not found"},
	{target: service.ErrVariantInvalid, code: response.CodeBadRequest, msg: "variant is not available"},
	{target: service.ErrPromotionNotFound, code: response.CodeBadRequest, msg: "promotion not found"},
	{target: service.ErrPromotionNotValidNow, code: response.CodeBadRequest, msg: "promotion is not valid right now"},
	{target: service.ErrPromotionUnavailable, code: response.CodeBadRequest, msg: "promotion is currently unavailable"},
	{target: service.ErrPromotionInvalid, code: response.CodeBadRequest, msg: "promotion invalid"},
}

func respondOrderCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "order create failed")
}
