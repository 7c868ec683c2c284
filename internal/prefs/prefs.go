// Package prefs persists the theme and grid-column preferences across runs,
// the console counterpart of the browser's localStorage. Preferences live
// outside the request/response cycle and are not part of the sync core.
package prefs

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/viper"
)

type Preferences struct {
	Theme       string `mapstructure:"theme" json:"theme"`
	GridColumns string `mapstructure:"grid_columns" json:"grid_columns"`
}

func defaults() Preferences {
	return Preferences{Theme: "light", GridColumns: "auto"}
}

type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load() (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")
	v.SetDefault("theme", "light")
	v.SetDefault("grid_columns", "auto")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return defaults(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults(), nil
		}
		return defaults(), fmt.Errorf("failed to read preferences: %w", err)
	}

	var p Preferences
	if err := v.Unmarshal(&p); err != nil {
		return defaults(), fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return p, nil
}

func (s *Store) Save(p Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")
	v.Set("theme", p.Theme)
	v.Set("grid_columns", p.GridColumns)

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
