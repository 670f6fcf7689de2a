package response

// 业务状态码；HTTP 状态恒为 200，调用方按 status_code 判断结果
const (
	CodeOK              = 0
	CodeBadRequest      = 400 // 参数或状态流转非法
	CodeUnauthorized    = 401 // 未登录、initData 或 Token 无效
	CodeForbidden       = 403 // 账号禁用或无权限
	CodeNotFound        = 404
	CodeConflict        = 409 // 不允许的状态迁移
	CodeTooManyRequests = 429
	CodeInternal        = 500
	CodeBadGateway      = 502 // CDEK、YooKassa 等上游失败
	CodeUnavailable     = 503 // 上游未配置或暂不可用
)
