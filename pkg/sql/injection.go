// Package sql provides SQL injection screening for free-text input.
// All queries in conforma-engine are parameterized, but injection patterns
// in user input are still rejected outright so attempts surface in the
// security audit log instead of silently matching nothing.
package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult contains the result of an injection check on an input value.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	ParamName   string // Name of the input that failed the check
	ParamValue  string // The value that was checked
}

// CheckInput uses libinjection to detect SQL injection patterns in a
// free-text input value.
//
// Returns nil if no injection is detected, or an InjectionCheckResult with
// details about the detected pattern.
//
// Example:
//
//	// Safe value - no injection
//	result := CheckInput("q", "water quality")
//	// result == nil
//
//	// Injection attempt detected
//	result := CheckInput("q", "'; DROP TABLE complaints--")
//	// result.IsSQLi == true
//	// result.Fingerprint == "s&1c" (or similar)
func CheckInput(name, value string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if isSQLi {
		return &InjectionCheckResult{
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
			ParamName:   name,
			ParamValue:  value,
		}
	}

	return nil
}

// CheckFields screens every value of a free-form field map.
//
// Returns a slice of InjectionCheckResult for each field that failed the
// check, or nil if all fields are clean.
func CheckFields(fields map[string]string) []*InjectionCheckResult {
	var results []*InjectionCheckResult
	for name, value := range fields {
		if result := CheckInput(name, value); result != nil {
			results = append(results, result)
		}
	}
	return results
}
