// Package config provides configuration management for the bluegreen server.
//
// Configuration is loaded once from environment variables using the env package
// and is never modified afterwards. Defaults match a local blue deployment
// listening on port 3000.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("serving %s on %s\n", cfg.AppVersion, cfg.GetHTTPAddr())
package config
