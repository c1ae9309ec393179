// Package keeper holds build metadata for the keeper module.
package keeper

// Version is the keeper release version.
const Version = "0.1.0"
