// Package branding holds the product identity (CLI name, env prefix, home
// directory) shared by the config, logging, and cli packages.
package branding
