package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/studyplanner/apps/api/echo"
	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/coursework"
	"github.com/trezcool/studyplanner/core/session"
	"github.com/trezcool/studyplanner/core/studyplan"
	genaisvc "github.com/trezcool/studyplanner/services/genai"
	lmssvc "github.com/trezcool/studyplanner/services/lms"
	logsvc "github.com/trezcool/studyplanner/services/logger"
	inmemdb "github.com/trezcool/studyplanner/storage/database/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	defer logger.Flush()

	// set up generation
	provider, err := genaisvc.NewProvider(conf.Generator)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up generation provider: %v", err), err)
	}
	if conf.Generator.APIKey == "" {
		logger.Warn("generator.apiKey is not set: study plans and chat will fail")
	}

	// set up services
	db := inmemdb.Open()
	sessions := session.NewService(inmemdb.NewSessionRepository(db), conf.Session.TTL)
	courseworkSvc := coursework.NewService(logger)
	plans := studyplan.NewService(courseworkSvc, genaisvc.NewGenerator(provider), logger, conf.Generator.Timeout)
	chat := genaisvc.NewConversation(provider, conf.Generator.MaxHistory, conf.Generator.Timeout)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("generator").Set(provider.Name())
	expvar.Publish("sessions_active", expvar.Func(func() interface{} { return sessions.Count() }))

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Sessions:   sessions,
			Connector:  lmssvc.NewConnector(conf.Canvas),
			Coursework: courseworkSvc,
			Plans:      plans,
			Chat:       chat,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
