// Package confloader loads the host harness settings.
//
// Sources are layered with koanf, later ones overriding earlier ones:
//
//  1. Defaults held by the target struct
//  2. YAML settings file
//  3. Environment variables (XPCONNECT_SECTION_KEY)
//  4. Explicit overrides, usually from command-line flags
//
// Watcher reports writes to the settings file so the host can apply
// changes that are safe at runtime, such as the log level.
package confloader
