/*
Package main 提供 imagegate 网关的可执行入口。

子命令：serve（启动 HTTP 服务）、migrate（数据库迁移）、version、health。

serve 按配置打开配置存储（memory、redis 或 database），加载 .env 凭证兜底，
构建生成网关并挂载：

  - POST /api/generate  生成图片
  - /health /healthz /ready /version
  - 独立端口上的 /metrics（Prometheus）

中间件链：Recovery、RequestID、OTelTracing、Metrics、RequestLogger、
SecurityHeaders、CORS、RateLimiter（按客户端 IP）。

Version、BuildTime、GitCommit 通过 ldflags 注入。
*/
package main
