// Package telemetry 初始化 OpenTelemetry 的 TracerProvider 与 MeterProvider。
// 禁用时保持全局 noop 实现，网关里的 span 与计数器不产生任何外部连接。
package telemetry
