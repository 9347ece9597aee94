// Package config provides configuration management for reportcat.
//
// Configuration comes from three places, in increasing precedence:
// built-in defaults, the optional .reportcat YAML file (with per-directory
// overrides), and CLI flags. The resulting Config is passed through the
// application via dependency injection rather than global state.
package config
