// Package config provides centralized configuration management for the
// violation pipeline. It handles loading configuration from multiple
// sources, validation, and a type-safe API for the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern PV_* for namespacing:
//
//	PV_INPUT_PATH=data/violations.csv
//	PV_PIPELINE_SPLIT_SEED=42
//	PV_PIPELINE_MODEL_SEED=7
//	PV_PIPELINE_ESTIMATORS=100
//	PV_LOGGING_LEVEL=debug
//
// # Seeds
//
// PipelineConfig carries two independent seeds. SplitSeed fixes train/test
// row membership; ModelSeed fixes the ensemble randomness. Varying one
// while holding the other constant is supported and tested.
//
// # Validation
//
// All configuration is validated at load time with go-playground/validator
// struct tags plus hand checks for cross-field rules. Invalid configuration
// fails the run before any data is read.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load(configPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
