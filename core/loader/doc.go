// Package loader provides the plugin-like feature loading system used by the
// serve command.
//
// Each feature implements the Feature interface and registers its routes on
// Load. The Manager keeps the registry and loads enabled features in
// registration order.
//
//	mgr := loader.NewManager()
//	mgr.Register(probe.NewFeature(svc, defaults, logg))
//	loaded, err := mgr.LoadAll(app)
package loader
