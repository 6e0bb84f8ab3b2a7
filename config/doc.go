// Package config handles engine configuration loading and validation.
//
// Configuration is loaded from a YAML file and validated using struct tags.
// Zero values are replaced with engine defaults after load, so a minimal or
// absent file still yields a usable configuration.
package config
