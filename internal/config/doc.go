// Package config provides configuration parsing for fibre.
//
// The configuration is stored in fibre.json in the working directory.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "scheduler": {
//	    "threshold": "1ms",
//	    "sliceBudget": "5ms",
//	    "policy": "supersede",
//	    "strictProperties": true
//	  },
//	  "server": {
//	    "address": "localhost:3000",
//	    "readBufferSize": 1024,
//	    "writeBufferSize": 1024
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "fibre"
//	  },
//	  "tracing": {
//	    "tracerName": "fibre"
//	  },
//	  "snapshot": {
//	    "dir": "snapshots",
//	    "bucket": "",
//	    "prefix": "",
//	    "region": "us-east-1",
//	    "endpoint": ""
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Threshold:", cfg.Scheduler.ThresholdDuration())
package config
