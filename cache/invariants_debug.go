//go:build lrudebug

package cache

const invariantChecks = true
