package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// stringToFileModeHookFunc decodes octal strings such as "0755" into
// os.FileMode. Integers pass through unchanged.
func stringToFileModeHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(os.FileMode(0)) {
			return data, nil
		}
		s := strings.TrimPrefix(strings.TrimSpace(data.(string)), "0o")
		if s == "" {
			return os.FileMode(0), nil
		}
		mode, err := strconv.ParseUint(s, 8, 32)
		if err != nil {
			return nil, err
		}
		return os.FileMode(mode), nil
	}
}
