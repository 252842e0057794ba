// Package sanitizer normalizes free-text input before validation and storage.
// Sanitizers never reject input; they only trim and normalize it. Rejection is
// the validator's job.
package sanitizer
