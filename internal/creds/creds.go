// Package creds resolves RDB API tokens from the user's .netrc file.
//
// The RDB instance authenticates with a per-user token, conventionally stored
// as the password field of the machine entry for the RDB host:
//
//	machine ooi-rdb.whoi.edu login jdoe password <token>
package creds

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bgentry/go-netrc/netrc"
)

// DefaultPath returns the conventional netrc location, ~/.netrc.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".netrc"), nil
}

// Token returns the API token for host from the netrc file at path. A
// missing file or a missing machine entry is a configuration error and is
// reported as such, with the path and host in the message.
func Token(path, host string) (string, error) {
	rc, err := netrc.ParseFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("netrc file %s does not exist; create it with an entry for machine %s", path, host)
		}
		return "", fmt.Errorf("parse %s: %w", path, err)
	}

	machine := rc.FindMachine(host)
	if machine == nil || machine.IsDefault() {
		return "", fmt.Errorf("no entry for machine %s in %s", host, path)
	}
	if machine.Password == "" {
		return "", fmt.Errorf("entry for machine %s in %s has no password (token) field", host, path)
	}
	return machine.Password, nil
}
