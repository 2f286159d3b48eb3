// Package feeders picks the config.Loader for a configuration file based on
// its extension. HCL files go through internal/hcl; YAML and TOML files are
// decoded directly into a config.Patch.
package feeders
