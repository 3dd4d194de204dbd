package handler

import (
	"github.com/gin-gonic/gin"

	"talleres/internal/api/middleware"
	pkgerrors "talleres/pkg/errors"
	"talleres/pkg/jwt"
	"talleres/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, middleware.CtxUserID)
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, middleware.CtxRole)
}

// MustGetClaims 提取当前 Access Token 的完整 Claims（登出时需要 jti 与过期时间）
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.CtxClaims)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
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

// pathID 读取路径参数 id，为空时写入 400
func pathID(c *gin.Context, name, msg string) (string, bool) {
	id := c.Param(name)
	if id == "" {
		response.BadRequest(c, 10001, msg)
		return "", false
	}
	return id, true
}

// respondUnexpected 未被模块错误表覆盖的错误：数据库约束冲突给出明确提示，其余按 500 处理
func respondUnexpected(c *gin.Context, err error) {
	switch {
	case pkgerrors.IsUniqueViolation(err):
		response.Conflict(c, 10007, "数据重复")
	case pkgerrors.IsForeignKeyViolation(err):
		response.BadRequest(c, 10008, "关联数据不存在")
	default:
		response.InternalError(c)
	}
}
