// Package config loads keyread settings.
//
// Settings are layered, later layers overriding earlier ones:
//
//  1. Built-in defaults (DefaultMap)
//  2. A settings file, TOML or YAML chosen by extension
//  3. Environment variables with the KEYREAD_ prefix
//  4. Explicit overrides, usually command-line flags
//
// Each layer is a map[string]any. The layers are combined with DeepMerge and
// decoded into a typed Config, which is then checked by Validate.
//
// Environment variables map onto dotted paths by splitting the first
// underscore: KEYREAD_INPUT_BATCH_SIZE sets input.batch_size and
// KEYREAD_LOGGING_LEVEL sets logging.level.
package config
