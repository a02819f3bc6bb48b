package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// StorageDriverFlag selects a storage driver from the command line.
type StorageDriverFlag string

// Set implements pflag.Value.
func (f *StorageDriverFlag) Set(v string) error {
	switch v {
	case StorageDriverFile, StorageDriverMySQL:
		*f = StorageDriverFlag(v)
	default:
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, StorageDriverFile, StorageDriverMySQL)
	}
	return nil
}

// String implements pflag.Value.
func (f *StorageDriverFlag) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// Type implements pflag.Value.
func (f *StorageDriverFlag) Type() string {
	return "StorageDriver"
}

var (
	_ pflag.Value = (*StorageDriverFlag)(nil)
)

// Apply overrides storage.driver on loader when the flag was given.
func (f *StorageDriverFlag) Apply(loader *ConfigLoader) {
	if f == nil || *f == "" {
		return
	}
	loader.Set("storage.driver", string(*f))
}
