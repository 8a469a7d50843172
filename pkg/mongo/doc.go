// Package mongo persists validation option sets in MongoDB.
//
// New connects with retries and Healthcheck wraps Ping for readiness probes.
// StateStore implements validation.StateStore with one document per
// container, keyed by the container id:
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect(context.Background())
//	store := mongo.NewStateStore(mongo.Collection(client, cfg))
//
// Rule parameters come back from the driver as bson.A and bson.D values;
// Load turns them into []any and map[string]any before handing the set over.
package mongo
