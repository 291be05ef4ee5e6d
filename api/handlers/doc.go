/*
Package handlers 实现 imagegate 的 HTTP 处理器。

  - GenerateHandler：POST /api/generate，调用 image.Gateway 并把
    错误码按结果类别映射为 HTTP 状态（400/403/404/502/504/500）。
  - HealthHandler：/health、/healthz、/ready、/version，就绪检查
    通过可注册的 HealthCheck（配置存储、数据库）完成。
  - Response / ErrorInfo：统一 JSON 信封；WriteSuccess、WriteError
    会带上 context 中的 request_id。
  - ResponseWriter：捕获状态码，供日志与指标中间件使用。
*/
package handlers
