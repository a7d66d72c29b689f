package dig_container

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/rambam/apps/api/echo"
	"github.com/trezcool/rambam/core"
	"github.com/trezcool/rambam/core/curriculum"
	"github.com/trezcool/rambam/core/insight"
	"github.com/trezcool/rambam/core/study"
	"github.com/trezcool/rambam/core/text"
	"github.com/trezcool/rambam/services/sefaria"
	logsvc "github.com/trezcool/rambam/services/logger"
	"github.com/trezcool/rambam/storage/cache"
	"github.com/trezcool/rambam/storage/database"
	sqlxrepos "github.com/trezcool/rambam/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type serverParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	StudySvc   *study.Service
	TextSvc    *text.Service
	InsightSvc *insight.Service
	Validate   *validator.Validate
	Translator ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	return NewLogger(conf, "API : ", log.LstdFlags)
}

func newDBLogger(conf *core.Config) core.Logger {
	return NewLogger(conf, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
}

// NewLogger is a zap development logger in debug mode and a rollbar logger otherwise.
func NewLogger(conf *core.Config, prefix string, flags int) core.Logger {
	if conf.Debug {
		if logger, err := logsvc.NewZapLogger(strings.TrimSuffix(prefix, " : ")); err == nil {
			return logger
		}
	}
	stdLogger := log.New(os.Stdout, prefix, flags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sql.DB, core.DB) {
	setUp := func() (*sql.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db, conf.Database.Engine); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

func newCatalog(logger core.Logger) *curriculum.Catalog {
	cat, err := curriculum.Default()
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading catalog: %v", err), err)
	}
	return cat
}

// StudyConfig converts the study section of conf.
func StudyConfig(conf *core.Config) (study.Config, error) {
	epoch, err := time.Parse("2006-01-02", conf.Study.Epoch)
	if err != nil {
		return study.Config{}, errors.Wrapf(study.ErrInvalidConfig, "epoch %q", conf.Study.Epoch)
	}
	return study.Config{
		Epoch:          epoch,
		StartingCycle:  conf.Study.StartingCycle,
		ChaptersPerDay: conf.Study.ChaptersPerDay,
	}, nil
}

func newStudyService(conf *core.Config, cat *curriculum.Catalog, logger core.Logger) *study.Service {
	cfg, err := StudyConfig(conf)
	if err == nil {
		var svc *study.Service
		if svc, err = study.NewService(cat, cfg); err == nil {
			return svc
		}
	}
	logger.Fatal(fmt.Sprintf("configuring study cycle: %v", err), err)
	return nil
}

func newCache(conf *core.Config, loggerParam DBLoggerParam) *badger.DB {
	db, err := cache.Open(cache.OptionsFromConfig(conf, loggerParam.Logger))
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("opening text cache: %v", err), err)
	}
	return db
}

// newTextProvider is the Sefaria client behind the badger cache.
func newTextProvider(conf *core.Config, db *badger.DB, logger core.Logger) text.Provider {
	client := sefaria.NewClient(sefaria.OptionsFromConfig(conf))
	return cache.NewTextProvider(db, client, conf.Cache.TextTTL, conf.Cache.IndexTTL, logger)
}

func newTextService(provider text.Provider, studySvc *study.Service) *text.Service {
	return text.NewService(provider, studySvc.Sequence())
}

func newArticleRepository(db *sql.DB, conf *core.Config) insight.Repository {
	return sqlxrepos.NewArticleRepository(database.NewSqlx(db, conf))
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newValidate(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServerFromConfig(p.Conf, echoapi.Deps{
		StudySvc:   p.StudySvc,
		TextSvc:    p.TextSvc,
		InsightSvc: p.InsightSvc,
		Validate:   p.Validate,
		Translator: p.Translator,
		Logger:     p.Logger,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newCache))
	must(c.Provide(newCatalog))
	must(c.Provide(newStudyService))
	must(c.Provide(newTextProvider))
	must(c.Provide(newTextService))
	must(c.Provide(newArticleRepository))
	must(c.Provide(insight.NewService))
	must(c.Provide(newValidate))
	must(c.Provide(newTranslator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
