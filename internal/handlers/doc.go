// Package handlers 暴露 HTTP 层接口，负责路由注册、请求校验与服务编排。
// handlers 内部聚焦输入/输出转换，并委托 services 层完成业务逻辑。
//
// 错误响应统一为 { error, code }；数字错误码按端点独立编号（与既有客户端
// 约定一致），校验顺序对客户端可见，不得调整。
package handlers
