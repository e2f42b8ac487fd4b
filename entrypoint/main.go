package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	"labelforge.com/wsl/api"
	"labelforge.com/wsl/logger"
	"labelforge.com/wsl/pipeline"
	"labelforge.com/wsl/types"
	"labelforge.com/wsl/utils"
	"labelforge.com/wsl/worker"
)

type Config struct {
	ConfigPath    string `envconfig:"WSL_CONFIG_PATH" required:"true"`
	DirPath       string `envconfig:"WSL_DIR_PATH" required:"true"`
	RestAPIActive bool   `envconfig:"WSL_REST_API_ACTIVE" default:"false"`
	RestAPIPort   string `envconfig:"WSL_REST_API_PORT" default:"10000"`
}

const pipelineStartMaxRetries = 5

func main() {
	logger.SetupLogging()
	wslLogger := logger.NewLogger("Main")
	fatalErrLogger := wslLogger.Fatal().Caller()
	checkConfigs := flag.Bool("check-configs", false, "a bool")
	flag.Parse()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read environment")
		os.Exit(1)
	}

	// validate configurations and their resources, then exit
	if *checkConfigs {
		cfgs, err := types.LoadConfigurations(config.ConfigPath)
		if err != nil {
			wslLogger.Err(err).Msg("Failed to load configurations")
			return
		}
		params := pipeline.GetAggregationParams(config.DirPath, cfgs)
		if err = pipeline.LoadTaggers(&params); err != nil {
			fatalErrLogger.Err(err).Msg("Failed to load tagger models")
			os.Exit(1)
		}
		if _, err = pipeline.Aggregation(params); err != nil {
			fatalErrLogger.Err(err).Msg("Failed to build aggregation branches from configurations")
			os.Exit(1)
		}
		wslLogger.Info().Msgf("All %d configurations are valid. Exit...", len(cfgs))
		return
	}

	//Load Pipeline
	pipelineChannel := make(chan pipeline.Pipeline)
	go func() {
		for retry := 0; retry < pipelineStartMaxRetries; retry++ {
			cfgs, err := types.LoadConfigurations(config.ConfigPath)
			if err != nil {
				wslLogger.Err(err).Msg("Failed to load configurations. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			wslLogger.Info().Msgf("Loaded %d configurations", len(cfgs))
			wslLogger.Info().Msg("Starting pipelines loading")

			pipelineParams := pipeline.GetAggregationParams(config.DirPath, cfgs)
			if err = pipeline.LoadTaggers(&pipelineParams); err != nil {
				wslLogger.Err(err).Msg("Failed to load tagger models. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			ppln, err := pipeline.Aggregation(pipelineParams)
			if err != nil {
				wslLogger.Err(err).Msg("Failed to start aggregation pipeline. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			utils.GlobalStringStore().Lock()
			wslLogger.Info().Msg("Pipelines loaded")
			pipelineChannel <- ppln
			return
		}
		fatalErrLogger.Msg("Could not start pipelines after 5 retries, exiting")
		os.Exit(1)
	}()

	// block until pipeline loads
	ppln := <-pipelineChannel

	if config.RestAPIActive {
		go func() {
			wslLogger.Info().Msg("Starting API service")
			apiRequest := &api.Request{
				Pipeline: ppln,
			}
			http.HandleFunc("/", apiRequest.ProcessCorpus)
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			wslLogger.Info().Msgf("REST API on %s", host)
			err := http.ListenAndServe(host, nil)
			fatalErrLogger.Err(err).Msg("REST API stopped with error")
		}()
	}

	wslLogger.Info().Msg("Start WSL Worker")
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			wslLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
			os.Exit(1)
		}
		err = rmqWorker.StartWorker()
		if err != nil {
			wslLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}
