// Package config loads the module's construction-time settings from a YAML
// file, filling in defaults for anything the file leaves out. Settings are
// fixed at construction; nothing here is hot-reloaded.
package config
