//go:build !lrudebug

package cache

// invariantChecks is turned on by building with -tags lrudebug.
const invariantChecks = false
