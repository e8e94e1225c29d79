package cmd

import (
	"fmt"

	"github.com/soletta-dev/postpilot/config"
	"github.com/soletta-dev/postpilot/logger"
	ksvc "github.com/kardianos/service"
)

type Program struct {
	runner *Runner
}

func (p *Program) Start(s ksvc.Service) error {
	go p.run()
	return nil
}

func (p *Program) run() {
	if err := p.runner.StartScheduler(); err != nil {
		logger.Logger.Printf("Error starting scheduler: %v", err)
	}
}

func (p *Program) Stop(s ksvc.Service) error {
	p.runner.Shutdown()
	return nil
}

// RunService runs the scheduler under the OS service manager.
func RunService() {
	cfg, err := config.LoadConfig(config.GetConfigPath())
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	if err := logger.InitLogger(cfg); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		return
	}

	creds, err := config.LoadCredentials(cfg.Platform.GeneratorURL != "")
	if err != nil {
		fmt.Printf("Error loading credentials: %v\n", err)
		return
	}

	runner, err := NewRunner(cfg, creds)
	if err != nil {
		logger.Logger.Printf("Error building pipeline: %v", err)
		return
	}

	prg := &Program{runner: runner}

	svcConfig := &ksvc.Config{
		Name:        "PostPilot",
		DisplayName: "PostPilot Publisher Service",
		Description: "This service generates, reviews and publishes scheduled social content.",
	}

	s, err := ksvc.New(prg, svcConfig)
	if err != nil {
		logger.Logger.Printf("Error creating service: %v", err)
		return
	}

	err = s.Run()
	if err != nil {
		logger.Logger.Printf("Error running service: %v", err)
	}
}
