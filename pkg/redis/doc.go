// Package redis connects to Redis and persists validation option sets in it.
//
// Connect retries the initial ping according to Config, Healthcheck adapts
// a client to a readiness probe, and StateStore implements
// validation.StateStore with one JSON document per container id:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	store := redis.NewStateStore(client, cfg)
//	c, err := validation.Attach(ctx, sessionID, ui, store)
//
// Config fields are read from REDIS_* environment variables through
// pkg/config. Errors wrap the go-redis cause with errors.Join.
package redis
