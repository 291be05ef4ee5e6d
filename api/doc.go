// Package api 定义 imagegate HTTP API 的请求与响应结构。
//
// # 端点
//
//	POST /api/generate   生成图片，返回 data URI
//	GET  /health         存活检查
//	GET  /healthz        Kubernetes 存活探针
//	GET  /ready          就绪检查（探测配置存储）
//	GET  /version        版本信息
//
// 所有响应都包在 handlers.Response 信封里：
//
//	{"success": true, "data": {...}, "timestamp": "...", "request_id": "..."}
//
// 本服务不做用户鉴权，应部署在可信网关之后。
package api
