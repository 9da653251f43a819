package cma

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadFile reads an assumption table from a YAML file and validates it.
func LoadFile(path string) (Assumptions, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return Assumptions{}, fmt.Errorf("failed to read assumptions file %s: %w", path, err)
	}

	var a Assumptions
	if err := v.Unmarshal(&a); err != nil {
		return Assumptions{}, fmt.Errorf("failed to parse assumptions file %s: %w", path, err)
	}
	if a.ReturnConvention == "" {
		a.ReturnConvention = ReturnSimple
	}
	if err := a.Validate(); err != nil {
		return Assumptions{}, err
	}
	return a, nil
}
