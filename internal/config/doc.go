// Package config provides configuration parsing for the treebuilder tools.
//
// The configuration is stored in treebuilder.json in the working directory.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "backend": "stream",
//	  "log": { "level": "info" },
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "maxScriptBytes": 1048576
//	  },
//	  "metrics": { "enabled": true, "namespace": "treebuilder" },
//	  "tracing": { "enabled": false, "tracerName": "treebuilder" },
//	  "storage": {
//	    "bucket": "rendered-pages",
//	    "prefix": "html/",
//	    "region": "eu-north-1"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
