package cmd

// version is set at build time using -ldflags "-X github.com/fleetwatch/fleetwatch/internal/cmd.version=...".
var version = "dev"

// AppName returns the name of the fleetwatch binary.
func AppName() string {
	return "fleetwatch"
}

// Version returns the version of the fleetwatch binary.
func Version() string {
	return version
}
