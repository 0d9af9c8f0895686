// Package config loads the portal settings file.
package config
