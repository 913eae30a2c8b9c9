//go:build !debug

package app

const debugBuild = false
