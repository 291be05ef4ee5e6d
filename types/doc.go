/*
Package types 提供网关的共享错误类型。

types 不依赖任何内部包。image、api/handlers 与 cmd 通过这里的 ErrorCode
与 Outcome 对齐错误语义：

  - Error / ErrorCode  结构化错误，携带 HTTP 状态、Provider 与 Cause
  - Outcome            错误码的粗粒度类别（bad_input、forbidden、not_found、
    upstream_failure、timeout、internal），由调用层映射为传输状态码
  - AsError / GetErrorCode / IsCode  沿错误链查找

Message 字段会原样返回给调用方，不得包含任何凭证内容。
*/
package types
