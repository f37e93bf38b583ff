//go:build novideo

package source

// Builds with the novideo tag ship no video backend; the probe then
// points users at the suffix hint instead of a generic failure.
const videoSupported = false
