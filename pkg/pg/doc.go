// Package pg stores validation option sets in PostgreSQL through pgx/v5.
//
// Connect opens a pool with retries, Migrate applies the embedded goose
// migrations that create the form_options table, and StateStore implements
// validation.StateStore on top of it:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
//	store := pg.NewStateStore(pool)
//
// Configuration comes from PG_* environment variables, see Config.
package pg
