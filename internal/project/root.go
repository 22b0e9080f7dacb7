// Package project locates a toolpin project and loads its configuration layers:
// the config file, the properties file, the environment and the installation
// manifest.
package project

import (
	"errors"
	"os"
	"path/filepath"
)

// Layout of the project configuration directory.
const (
	ConfigDirName  = ".toolpin"
	ConfigFileName = "config.json"
)

// ErrNoProjectRoot means no directory between the start and the filesystem root
// holds a config file.
var ErrNoProjectRoot = errors.New(".toolpin/config.json not found: not a toolpin project (or any parent up to the root)")

// FindRoot locates the project that contains the working directory.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(cwd)
}

// FindRootFrom returns the nearest directory at or above start whose
// .toolpin/config.json is a regular file.
func FindRootFrom(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for ; ; dir = filepath.Dir(dir) {
		if hasConfigFile(dir) {
			return dir, nil
		}
		if filepath.Dir(dir) == dir {
			return "", ErrNoProjectRoot
		}
	}
}

func hasConfigFile(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ConfigDirName, ConfigFileName))
	return err == nil && info.Mode().IsRegular()
}
