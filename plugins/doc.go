// Package plugins implements the plugin model: discovery across source
// variants, the install/enable/disable lifecycle, and the query API the
// host application uses to read the union of all active contributions.
//
// A plugin is a named, versioned unit of contributed configuration,
// template patches, lifecycle hooks, template roots, and CLI commands.
// Installing a plugin makes it known without activating anything;
// enabling registers its contributions into the kernel pipelines,
// tagged with the plugin's scope so that disable can remove them all in
// one call.
//
// Usage:
//
//	k := hooks.New(hooks.WithLogger(logger))
//	reg := plugins.NewRegistry(k, plugins.WithSources(src))
//	_ = reg
//	if err := k.Actions().Do(plugins.ActionConfigLoad, cfg); err != nil {
//		...
//	}
//	patches, err := plugins.PatchesFor(k, "local-docker-compose")
package plugins
