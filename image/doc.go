/*
包 image 提供统一的图像生成网关：接收一个“根据 prompt 生成图像”的请求，
分发给若干协议各异的外部服务商，并把结果归一化为同一种自描述编码值。

# 概述

网关对每个请求执行固定的状态机：

	Start → CheckEnabled → ResolveCredential → SelectAdapter → Invoke → Normalize → Done

任一步骤失败即终止，并以 types.Error 返回，错误码保持原样向上传递。

# 核心组件

  - CredentialResolver：每次请求都重新读取全局开关 GENERATION_ENABLED 与
    服务商凭据（配置存储优先，环境变量兜底），不做任何缓存。
  - Adapter：每个服务商一个实现，封闭集合：
    OpenAIAdapter（同步，返回 URL 或 b64_json）、
    ReplicateAdapter（异步提交 + 轮询）、
    GoogleAdapter（同步，内联 base64）、
    HuggingFaceAdapter（原始二进制推理）。
  - PollingExecutor：有界轮询循环，单次轮询的传输错误视为无操作。
  - Normalize：把原始字节或 base64 字符串转换为 CanonicalResult
    （data:<mime>;base64,<data>），调用方无需再访问外部网络。
  - Gateway：编排以上组件，记录指标、日志与链路追踪。

# 并发

Gateway 不持有请求间共享的可变状态，可以被任意多个 goroutine 并发调用。
*/
package image
