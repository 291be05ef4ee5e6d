// Package config 加载 imagegate 的进程配置。
//
// 优先级: 默认值 → YAML 文件 → IMAGEGATE_ 前缀的环境变量。
// 凭证本身不在这里：它们在配置存储或 .env 文件里，每次请求现读。
package config
