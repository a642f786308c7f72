// Package config defines the runtime configuration of gcectl.
//
// The [Config] struct carries the target project and zone, optional
// credentials and endpoint overrides, the output format, and the wait and
// paging limits consumed by the poller and the lister. [Load] resolves it
// from defaults, an optional YAML file, GCECTL_* environment variables and
// command-line flags, then validates it.
package config
