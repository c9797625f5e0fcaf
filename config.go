package sailship

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _sailconfig{}
)

// _sailconfig is a "hidden" struct, just use `sailConfig`.
type _sailconfig struct {
	VSOP87      bool
	VSOP87Dir   string
	outputDir   string
	soiCooldown time.Duration
	minSunDist  float64 // km, abort bound of the predictor
	maxSunDist  float64 // km
}

// sailConfig returns the package configuration. A conf.toml is read from the
// directory named by SAILSHIP_CONFIG when that variable is set; otherwise the
// defaults below apply, keeping the library usable with zero setup.
func sailConfig() _sailconfig {
	if cfgLoaded {
		return config
	}
	cfg := _sailconfig{
		VSOP87:      false,
		outputDir:   ".",
		soiCooldown: time.Duration(0.1*24*3600) * time.Second,
		minSunDist:  0.01 * AU,
		maxSunDist:  10 * AU,
	}
	if confPath := os.Getenv("SAILSHIP_CONFIG"); confPath != "" {
		viper.SetConfigName("conf")
		viper.AddConfigPath(confPath)
		if err := viper.ReadInConfig(); err != nil {
			panic(fmt.Errorf("%s/conf.toml not found", confPath))
		}
		cfg.VSOP87 = viper.GetBool("VSOP87.enabled")
		cfg.VSOP87Dir = viper.GetString("VSOP87.directory")
		if out := viper.GetString("general.output_path"); out != "" {
			cfg.outputDir = out
		}
		if cd := viper.GetFloat64("propagation.soi_cooldown_days"); cd > 0 {
			cfg.soiCooldown = time.Duration(cd*24*3600) * time.Second
		}
		if d := viper.GetFloat64("propagation.min_sun_dist_au"); d > 0 {
			cfg.minSunDist = d * AU
		}
		if d := viper.GetFloat64("propagation.max_sun_dist_au"); d > 0 {
			cfg.maxSunDist = d * AU
		}
	}
	cfgLoaded = true
	config = cfg
	return config
}
