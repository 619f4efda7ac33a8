// Package config loads and validates Marquee's TOML configuration, honoring
// environment fallbacks such as TMDB_API_KEY. The Config type centralizes
// every knob the import tools need, and sample_config.toml documents the
// options for `marquee config init`.
package config
