package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/jaymarkubaran15-svg/memotrace/apps/api/echo"
	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/event"
	"github.com/jaymarkubaran15-svg/memotrace/core/notification"
	"github.com/jaymarkubaran15-svg/memotrace/core/post"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
	"github.com/jaymarkubaran15-svg/memotrace/core/submission"
	"github.com/jaymarkubaran15-svg/memotrace/core/user"
	emailsvc "github.com/jaymarkubaran15-svg/memotrace/services/email"
	geosvc "github.com/jaymarkubaran15-svg/memotrace/services/geocoder"
	logsvc "github.com/jaymarkubaran15-svg/memotrace/services/logger"
	storagesvc "github.com/jaymarkubaran15-svg/memotrace/services/storage"
	sqlitecache "github.com/jaymarkubaran15-svg/memotrace/storage/cache/sqlite"
	"github.com/jaymarkubaran15-svg/memotrace/storage/database"
	sqlxrepos "github.com/jaymarkubaran15-svg/memotrace/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers; zap locally, Rollbar on top in deployed environments
	var logger core.Logger
	if conf.Debug {
		zl, err := logsvc.NewZapLogger(conf)
		if err != nil {
			log.Fatalf("setting up logger: %v", err)
		}
		defer zl.Sync() //nolint:errcheck
		logger = zl
	} else {
		rl := logsvc.NewRollbarLogger(
			log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
			conf,
		)
		rl.Enable(true)
		logger = rl
	}

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Fatal("Failed to close", err)
		}
	}()
	sdb := sqlx.NewDb(db, conf.Database.Engine)

	// set up the crash-resume answer cache
	answerStore, err := sqlitecache.NewStore(conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up answer cache: %v", err), err)
	}
	defer answerStore.Close()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	fileStorage, err := storagesvc.NewLocalFileStorage(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up file storage: %v", err), err)
	}

	usrSvc := user.NewService(db, sqlxrepos.NewUserRepository(sdb), mailSvc, conf)
	schemaSvc := schema.NewService(db, sqlxrepos.NewSchemaRepository(sdb), logger)
	subSvc := submission.NewService(db, sqlxrepos.NewSubmissionRepository(sdb), usrSvc, logger)
	notifSvc := notification.NewService(db, sqlxrepos.NewNotificationRepository(sdb))
	postSvc := post.NewService(db, sqlxrepos.NewPostRepository(sdb), notifSvc, logger)
	eventSvc := event.NewService(
		db,
		sqlxrepos.NewEventRepository(sdb),
		geosvc.NewNominatimGeocoder(conf),
		fileStorage,
		notifSvc,
		logger,
	)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)

	user.LoadCommonPasswords(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			UserSvc:         usrSvc,
			SchemaSvc:       schemaSvc,
			SubmissionSvc:   subSvc,
			PostSvc:         postSvc,
			EventSvc:        eventSvc,
			NotificationSvc: notifSvc,
			AnswerStore:     answerStore,
			Validate:        validate,
			Translator:      translator,
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

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
