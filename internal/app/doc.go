// Package app is the composition root for tunedeck.
//
// Run loads configuration and credentials, opens the log file, builds one
// shared fetch.Client and the three feature clients on top of it, starts the
// home feed refresher and then hands control to the terminal UI until the
// user quits.
//
//	Run()
//	  ├─> config.Load()        TOML file, .env and environment credentials
//	  ├─> applog.Open()        zerolog file logger
//	  ├─> fetch.NewClient()    shared HTTP client
//	  │     ├─> itunes.NewClient()
//	  │     ├─> assistant.NewClient()
//	  │     └─> github.NewClient()
//	  ├─> StartRefresher()     home feed into state.Store
//	  ├─> logtail.Watch()      Logs view change signals
//	  └─> ui.Run()             blocks until quit
//
// # Refreshing
//
// The refresher loads the popular songs and featured albums lists in
// parallel, immediately and then on the configured interval (15 minutes by
// default). Each list falls back to the static catalog on its own. While
// refreshes keep failing the next attempt comes sooner, starting at 30
// seconds and doubling up to the regular interval.
//
// # Errors
//
// Only configuration, log file and embedded catalog problems are fatal.
// Everything that touches the network degrades inside the feature clients and
// is logged.
package app
