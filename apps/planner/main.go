package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/coursework"
	"github.com/trezcool/studyplanner/core/studyplan"
	genaisvc "github.com/trezcool/studyplanner/services/genai"
	lmssvc "github.com/trezcool/studyplanner/services/lms"
	logsvc "github.com/trezcool/studyplanner/services/logger"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "PLANNER : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	defer logger.Flush()

	provider, err := genaisvc.NewProvider(conf.Generator)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up generation provider: %v", err), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// start CLI
	courseworkSvc := coursework.NewService(logger)
	cli := commandLine{
		connector:  lmssvc.NewConnector(conf.Canvas),
		coursework: courseworkSvc,
		plans:      studyplan.NewService(courseworkSvc, genaisvc.NewGenerator(provider), logger, conf.Generator.Timeout),
		out:        os.Stdout,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %s", err), err)
		}
		logger.Flush()
		stop()
		os.Exit(1)
	}
}
