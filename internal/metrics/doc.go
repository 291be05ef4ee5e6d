/*
包 metrics 提供基于 Prometheus 的指标采集能力，覆盖
HTTP、图像生成、配置存储与数据库四个维度。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
自动注册机制，避免手动管理 Registry。所有指标按 namespace 隔离。
Collector 同时实现 image.Recorder，由网关直接调用。

# 主要能力

  - HTTP 指标：请求总数、请求耗时、请求/响应体大小，
    按 method/path/status 分组，状态码归类为 2xx/3xx/4xx/5xx。
  - 生成指标：按 provider/code 统计请求数，按 provider 记录耗时，
    异步任务的轮询次数分布。
  - 配置存储指标：按 backend/result（hit、miss、error）统计读取次数。
  - 数据库指标：打开/空闲连接数 Gauge。
*/
package metrics
