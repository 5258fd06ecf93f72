// Package config defines client settings used by the my-verisure binary and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the API endpoint, the session file location and the
// locale sent with login requests. Empty fields are filled with defaults
// during validation, so a missing settings file is not an error.
package config
