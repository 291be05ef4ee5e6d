/*
包 database 提供基于 GORM 的数据库连接管理，为 app_config 配置表
（configstore.DBStore）与 migrate 命令提供连接。

# 核心类型

  - Config：驱动（postgres、mysql、sqlite）、连接参数与连接池配置。
    Open 根据驱动选择 gorm dialector；sqlite 使用纯 Go 的 glebarez/sqlite。
  - PoolManager：连接池管理器，持有 GORM DB 实例与底层 sql.DB，
    提供 DB()、Ping()、Stats()、Close() 等生命周期方法。
  - PoolConfig：最大空闲连接数、最大打开连接数、连接最大生命周期、
    空闲超时与健康检查间隔。

# 健康检查

后台定时 PingContext 探活，并通过 StatsObserver 上报打开/空闲连接数。
*/
package database
