// Package cmd implements the command-line interface of sKV. It provides
// commands for running the server and for talking to it as a client.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value operations (get, put) and a load generator (perf)
//   - serve: Command for starting and configuring the sKV server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set with an environment variable of the form
// SKV_<FLAG> (e.g. SKV_ENDPOINT=0.0.0.0:9000). Variables from .env and
// .env.local in the working directory are loaded first.
//
// See skv -help for a list of all commands.
package cmd
