// Package types defines the entities shared by the keepsake tools: photo
// albums and their member references, voice memo recordings and folders,
// the Config structure, and the standard error values.
package types
