/*
包 server 管理 imagegate 的 HTTP 监听生命周期。

Manager 封装 net/http.Server：Start 非阻塞启动（配置了证书时走
tlsutil.ServerTLSConfig），Run 阻塞到 context 取消或服务异常退出，
随后在 ShutdownTimeout 内优雅关闭。API 服务与 /metrics 服务各用
一个 Manager，由 cmd/imagegate 通过 errgroup 统一编排。
*/
package server
