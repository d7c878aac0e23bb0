// Package config manages user-level settings stored at ~/.agentcfg/config.yaml:
// where the configuration repository lives, the default placement mode, the
// .env file used for placeholder expansion, an alternative asset table, and
// per-agent target directory overrides. Every key can also be set through an
// AGENTCFG_ environment variable.
package config
