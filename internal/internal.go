// Package internal has shared runtime helpers used across nbamind.
package internal
