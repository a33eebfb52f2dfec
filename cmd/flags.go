package cmd

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindFlags binds each flag to v and to its POMO_ environment variable,
// e.g. --log-level to POMO_LOG_LEVEL.
func bindFlags(v *viper.Viper, flags ...*pflag.Flag) {
	v.SetEnvPrefix("POMO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, f := range flags {
		_ = v.BindPFlag(f.Name, f)
	}
}
