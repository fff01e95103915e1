package env

const (
	// Prefix is the ENV variable prefix for the service
	Prefix = "CASHRATES"

	// DBURLSuffix is the ENV suffix for the postgres DSN
	DBURLSuffix = "_DB_URL"

	// RedisAddrSuffix is the ENV suffix for the Redis address
	RedisAddrSuffix = "_REDIS_ADDR"

	// RedisPasswordSuffix is the ENV suffix for the Redis password
	RedisPasswordSuffix = "_REDIS_PASSWORD"

	// RedisDBSuffix is the ENV suffix for the Redis DB index
	RedisDBSuffix = "_REDIS_DB"
)
