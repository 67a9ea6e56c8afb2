// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package config loads brssl-bridge settings from JSON or YAML files.
//
// Documents are validated against an embedded JSON Schema before decoding,
// defaults are applied for missing values and out-of-range values fall back
// to their defaults. The file path may also come from the BRSSL_BRIDGE_CONFIG
// environment variable.
package config
