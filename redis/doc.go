// Package redis stores cache entries in Redis through go-redis.
//
// Client satisfies cache.Adapter:
//
//	client, err := redis.New(redis.Config{Addr: "localhost:6379"}, log)
//	users := cache.New[User](client, cache.WithNamespace("users"))
package redis
