package config

import "fmt"

const (
	StorageTypeMongo  = "mongo"
	StorageTypeBadger = "badger"
)

type StorageConfig struct {
	// Type is either mongo or badger
	Type       string `mapstructure:"type"`
	BadgerPath string `mapstructure:"badger-path"`
}

func (cfg *StorageConfig) Validate() error {
	switch cfg.Type {
	case StorageTypeMongo:
		return nil
	case StorageTypeBadger:
		if cfg.BadgerPath == "" {
			return fmt.Errorf("badger-path is required for badger storage")
		}
		return nil
	default:
		return fmt.Errorf("unknown storage type %q, expected %s or %s", cfg.Type, StorageTypeMongo, StorageTypeBadger)
	}
}
