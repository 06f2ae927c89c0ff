/*
 * Copyright (C) 2024 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/operational"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline"
	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/pipeline/utils"
	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	buildVersion       = "unknown"
	buildDate          = "unknown"
	envPrefix          = "ANOMALY_PIPELINE"
	defaultLogFileName = ".anomaly-pipeline"
	opts               config.Options
)

// rootCmd represents the root command
var rootCmd = &cobra.Command{
	Use:          "anomaly-pipeline",
	Short:        "Flag anomalous transactions per account and month and forecast monthly transaction differences",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
}

// initConfig binds environment variables and the optional viper config file to the flags.
func initConfig() {
	v := viper.New()

	if opts.ConfigFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			opts.ConfigFile = filepath.Join(home, defaultLogFileName+".yaml")
		}
	}

	// Read environment variables that match prefix
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	bindFlags(rootCmd, v)

	// initialize logger
	initLogger(opts.LogLevel)
}

func initLogger(level string) {
	ll, err := log.ParseLevel(level)
	if err != nil {
		ll = log.ErrorLevel
	}
	log.SetLevel(ll)
	log.SetFormatter(&log.TextFormatter{DisableColors: false, FullTimestamp: true, PadLevelText: true, DisableQuote: true})
}

func dumpConfig(cfg *config.ConfigFileStruct) {
	configAsJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(cfg, "", "    ")
	if err != nil {
		log.Errorf("error dumping config: %v", err)
		return
	}
	log.Debugf("Using configuration:\n%s", configAsJSON)
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		envVarSuffix := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(f.Name))
		_ = v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix))

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			switch val.(type) {
			case bool, uint, string, int32, int16, int8, int, uint32, uint64, int64, float64, float32, []string, []int:
				_ = cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
			default:
				var jsonNew = jsoniter.ConfigCompatibleWithStandardLibrary
				b, err := jsonNew.Marshal(&val)
				if err != nil {
					log.Fatalf("can't parse flag %s into json with value %v got error %s", f.Name, val, err)
					return
				}
				_ = cmd.Flags().Set(f.Name, string(b))
			}
		}
	})
}

func initFlags() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", fmt.Sprintf("config file (default is $HOME/%s.yaml)", defaultLogFileName))
	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warning, error (default: the config file log-level, or error)")
	rootCmd.PersistentFlags().StringVar(&opts.MetricsSettings.PushGateway, "metrics.pushGateway", "", "Prometheus push gateway URL, overrides metrics.pushGateway of the config file")
	rootCmd.PersistentFlags().StringVar(&opts.MetricsSettings.JobName, "metrics.jobName", "", "Job label of pushed metrics, overrides metrics.jobName of the config file")
	rootCmd.PersistentFlags().StringVar(&opts.MetricsSettings.Prefix, "metrics.prefix", "", "Prefix of every operational metric, overrides metrics.prefix of the config file")
}

// loadConfig reads the config file and applies the command line overrides.
func loadConfig(o *config.Options) (*config.ConfigFileStruct, error) {
	data, err := os.ReadFile(o.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := config.ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", o.ConfigFile, err)
	}
	if o.MetricsSettings.PushGateway != "" {
		cfg.MetricsSettings.PushGateway = o.MetricsSettings.PushGateway
	}
	if o.MetricsSettings.JobName != "" {
		cfg.MetricsSettings.JobName = o.MetricsSettings.JobName
	}
	if o.MetricsSettings.Prefix != "" {
		cfg.MetricsSettings.Prefix = o.MetricsSettings.Prefix
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	return &cfg, nil
}

func main() {
	// Initialize flags (command line parameters)
	initFlags()

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	log.Infof("Starting %s: build version %s, build date %s", filepath.Base(os.Args[0]), buildVersion, buildDate)

	cfg, err := loadConfig(&opts)
	if err != nil {
		return err
	}
	if opts.LogLevel == "" && cfg.LogLevel != "" {
		initLogger(cfg.LogLevel)
	}
	dumpConfig(cfg)

	ctx, cancel := utils.SetupElegantExit(parent)
	defer cancel()

	opMetrics := operational.NewMetrics(&cfg.MetricsSettings)
	mainPipeline, err := pipeline.NewPipeline(cfg, opMetrics, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}
	_, runErr := mainPipeline.Run(ctx)
	if err := opMetrics.Push(context.Background()); err != nil {
		log.WithError(err).Warn("could not push metrics")
	}
	if runErr != nil {
		return runErr
	}
	log.Debugf("exiting main run")
	return nil
}
