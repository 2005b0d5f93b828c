// Package perms provides the file and directory modes used when fleetwatch writes to disk.
package perms

import "os"

const (
	// RegularFile is used for project configuration (.fleetwatch.toml) and log files.
	RegularFile os.FileMode = 0o644

	// SecureFile is used for the secrets file and archived reports, which may reveal infrastructure details.
	SecureFile os.FileMode = 0o600
)

const (
	// RegularDir is used for directories holding non-sensitive files.
	RegularDir os.FileMode = 0o755

	// SecureDir is used for the secrets directory and the report archive.
	SecureDir os.FileMode = 0o700
)
