// Package validation provides common validation utilities for configuration
// parameters across the gosink library.
//
// This package offers reusable validation functions that help ensure
// consistent error messages and reduce boilerplate code in constructors
// and configuration parsers.
package validation
