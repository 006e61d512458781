// Package logging configures the zerolog loggers used by every component.
// Each component gets its own level, taken from the process default or from
// a per-component environment override such as TYPELOCATOR_RESOLVER_LOGLEVEL.
package logging
