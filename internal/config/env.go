package config

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// LoadEnv loads variables from a .env file in the working directory.
// Variables already set in the environment win. A missing file is reported
// as an error satisfying os.IsNotExist.
func LoadEnv(filenames ...string) error {
	return godotenv.Load(filenames...)
}

// process fills target from lookuper, or from the process environment when
// lookuper is nil.
func process(ctx context.Context, target any, lookuper envconfig.Lookuper) error {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	return envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   target,
		Lookuper: lookuper,
	})
}
