// Package util provides pointer helpers for optional API fields.
package util
