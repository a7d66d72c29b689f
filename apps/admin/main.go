package main

import (
	"fmt"
	"log"
	"os"

	dig_container "github.com/trezcool/rambam/apps/api/di/dig"
	"github.com/trezcool/rambam/core"
	"github.com/trezcool/rambam/core/curriculum"
	"github.com/trezcool/rambam/core/insight"
	"github.com/trezcool/rambam/core/study"
	"github.com/trezcool/rambam/storage/database"
	sqlxrepos "github.com/trezcool/rambam/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := dig_container.NewLogger(conf, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(logger, "opening database", err)
	defer func() { _ = db.Close() }()

	// set up services
	cat, err := curriculum.Default()
	errAndDie(logger, "loading catalog", err)
	studyConf, err := dig_container.StudyConfig(conf)
	errAndDie(logger, "configuring study cycle", err)
	studySvc, err := study.NewService(cat, studyConf)
	errAndDie(logger, "configuring study cycle", err)
	repo := sqlxrepos.NewArticleRepository(database.NewSqlx(db, conf))

	// start CLI
	cli := commandLine{
		db:         db,
		engine:     conf.Database.Engine,
		studySvc:   studySvc,
		insightSvc: insight.NewService(repo, cat),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		_ = db.Close()
		os.Exit(1)
	}
}

func errAndDie(logger core.Logger, msg string, err error) {
	if err != nil {
		logger.Fatal(fmt.Sprintf("%s: %v", msg, err), err)
	}
}
