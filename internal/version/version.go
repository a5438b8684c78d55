// ABOUTME: Version information for clipscope
// ABOUTME: Reported in the event feed handshake and the CLI banner
package version

const (
	// Version is the software version
	Version = "0.3.0"

	// Product is the product name advertised to feed listeners
	Product = "clipscope"

	// Manufacturer identifies who built it
	Manufacturer = "Resonate Protocol"
)
