/*
Package config loads the engine's YAML configuration file into an
Engine struct: data directory, relational index DSN and batch/tick
settings, gap-scan interval, backfill backoff bounds, peer gap-fill
listen/connect addresses and TLS cert directory, and leader
coordination settings. Load applies documented defaults to any
zero-value field, the way the teacher's manager.Config does before
Bootstrap.
*/
package config
