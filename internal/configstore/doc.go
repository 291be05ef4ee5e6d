/*
包 configstore 提供图像网关读取的键值配置存储：启用开关 GENERATION_ENABLED
与各服务商凭证（OPENAI_API_KEY、REPLICATE_API_TOKEN 等）。

# 后端

  - MemoryStore：进程内 map，用于本地开发与测试，可由配置文件中的静态条目初始化。
  - RedisStore：基于 go-redis，键带可配置前缀；redis.Nil 视为键不存在。
  - DBStore：基于 gorm 的 app_config 表（config_key 唯一），支持 postgres、mysql 与 sqlite。

网关对存储只读；Set 仅用于启动时写入静态条目（Seed，已存在的键不会被覆盖）。
每次请求都会重新读取，不做缓存，管理员修改在下一次请求立即生效。
*/
package configstore
