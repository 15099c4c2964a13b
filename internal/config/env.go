package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadEnv copies variables from the given .env files (./.env by default)
// into the process environment without overriding ones already set. A
// missing file is not an error.
//
// It has to run before the command parses its flags, ahead of the argument
// count check in Load, so that PDFMOVER_* values from the file reach the
// flag sources. Nothing on disk besides the .env file is touched.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("can't load .env: %w", err)
	}
	return nil
}
