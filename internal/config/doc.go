// Package config handles configuration loading for libris.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion
// in the ${VAR_NAME} form. The signing secret and database path are required;
// validation fails at startup when either is absent, so the process never
// runs with a blank secret.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from LIBRIS_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/libris/libris.yaml
//  3. ~/.config/libris/libris.yaml
package config
