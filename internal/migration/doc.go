/*
包 migration 管理 app_config 表的 Schema 迁移，基于 golang-migrate，
支持 PostgreSQL、MySQL 与 SQLite。

SQL 文件按方言内嵌在 migrations/ 下：000001 建表，000002 写入
GENERATION_ENABLED 默认值。迁移器通过 database.Config.MigrationDSN
连接数据库；SQLite 使用纯 Go 的 glebarez 驱动，无需 cgo。

CLI 类型为 imagegate migrate 子命令提供格式化输出。
*/
package migration
