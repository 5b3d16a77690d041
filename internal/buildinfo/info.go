package buildinfo

var (
	// Version will be set via ldflags during build.
	Version = "dev"
	// Commit will be set via ldflags during build.
	Commit = "none"
	// Date will be set via ldflags during build.
	Date = "unknown"
)

// Product is the client name sent in the User-Agent header.
const Product = "fio-client"

// UserAgent returns the product token identifying this client and its version.
func UserAgent() string {
	return Product + "/" + Version
}

// String describes the build for --version output.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
