package main

import (
	"fmt"
	"os"

	_ "time/tzdata"

	"github.com/alexanderramin/workweek/internal/cli"
	"github.com/alexanderramin/workweek/internal/db"
	"github.com/alexanderramin/workweek/internal/repository"
	"github.com/alexanderramin/workweek/internal/server"
	"github.com/alexanderramin/workweek/internal/service"
)

// Set via ldflags at build time.
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{
		Version: server.VersionInfo{Version: version, Commit: commit, BuildDate: buildDate},
		Open:    open,
	}
	defer app.Close()
	return cli.NewRootCmd(app).Execute()
}

// open wires the database, repositories and services once configuration is
// resolved.
func open(app *cli.App) (func(), error) {
	loc, err := app.Config.Location()
	if err != nil {
		return nil, err
	}

	database, err := db.OpenDB(app.Config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Wire repositories
	sessionRepo := repository.NewSQLiteSessionRepo(database)
	idleRepo := repository.NewSQLiteIdleIntervalRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(app.Logger)

	app.Tracking = service.NewTrackingService(sessionRepo, idleRepo, uow, observer)
	app.Reports = service.NewReportService(repository.NewSQLiteRecordStore(uow), loc, observer)

	return func() { database.Close() }, nil
}
