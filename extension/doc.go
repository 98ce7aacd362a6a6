// Package extension mounts an Announcer into a host application.
//
// The extension:
//   - builds the Announcer from a store and a Config
//   - runs store migrations on Init
//   - serves the admin API under a configurable prefix, either as a plain
//     http.Handler or as Forge routes with OpenAPI metadata
//   - starts and stops the job engine with the host
//   - reports health via store.Ping
//
// Usage:
//
//	ext := extension.New(
//	    extension.WithStore(postgresStore),
//	    extension.WithPrefix("/announce"),
//	)
//	if err := ext.Init(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	mux.Handle("/announce/", ext.Handler())
//	ext.Start(ctx)
//	defer ext.Stop(ctx)
package extension
