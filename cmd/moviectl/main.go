package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	"github.com/liliang-cn/movieweb/internal/catalog"
	"github.com/liliang-cn/movieweb/internal/data"
	"github.com/liliang-cn/movieweb/internal/jsonlog"
	"github.com/liliang-cn/movieweb/internal/omdb"
)

var (
	app = kingpin.New("moviectl", "Movie catalog maintenance commands.")

	dbDriver = app.Flag("db-driver", "database driver (sqlite|postgres)").
			Envar("DB_DRIVER").Default("sqlite").Enum("sqlite", "postgres")
	dbDSN = app.Flag("db-dsn", "database DSN").
		Envar("DB_DSN").Default("movie_web.db").String()
	omdbKey = app.Flag("omdb-key", "OMDb API key").
		Envar("OMDB_API_KEY").String()
	omdbURL = app.Flag("omdb-url", "OMDb API URL").
		Envar("OMDB_URL").Default(omdb.DefaultURL).String()
	logLevel = app.Flag("log-level", "log level (debug|info|warn|error)").
			Envar("LOG_LEVEL").Default("warn").String()

	seedCmd   = app.Command("seed-movies", "Import movies from a file with one title per line.")
	seedFile  = seedCmd.Arg("titles-file", "file of movie titles").Required().ExistingFile()
	removeCmd = app.Command("remove-movie", "Remove one movie from the catalog by id.")
	removeID  = removeCmd.Arg("movie-id", "id of the movie to remove").Required().Int64()
)

func main() {
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	logger := jsonlog.NewWithWriter(os.Stderr, jsonlog.ParseLevel(*logLevel))

	db, err := data.Open(data.Config{Driver: *dbDriver, DSN: *dbDSN})
	if err != nil {
		app.Fatalf("%s", err)
	}

	err = data.Migrate(db)
	if err != nil {
		app.Fatalf("%s", err)
	}

	provider := omdb.NewClient(omdb.Config{APIKey: *omdbKey, URL: *omdbURL}, logger)
	cat := catalog.New(data.NewModels(db), provider, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case seedCmd.FullCommand():
		err = seedMovies(ctx, cat, *seedFile, os.Stdout)
	case removeCmd.FullCommand():
		err = removeMovie(ctx, cat, *removeID, os.Stdout)
	}

	if sqlDB, dbErr := db.DB(); dbErr == nil {
		sqlDB.Close()
	}

	app.FatalIfError(err, "%s", command)
}

// seedMovies 逐行导入片名并输出每一行的结果
func seedMovies(ctx context.Context, cat *catalog.Catalog, path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	added, err := cat.Seed(ctx, f, func(res catalog.SeedResult) {
		switch res.Outcome {
		case catalog.SeedAdded:
			fmt.Fprintf(w, "Added: %s (%s)\n", res.Movie.Title, yearString(res.Movie.Year))
		case catalog.SeedSkipped:
			fmt.Fprintf(w, "Skipping: %s\n", res.Title)
		case catalog.SeedNotFound:
			fmt.Fprintf(w, "Not found in OMDb: %s\n", res.Title)
		case catalog.SeedFailed:
			fmt.Fprintf(w, "Lookup failed: %s (%v)\n", res.Title, res.Err)
		}
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Done - %d new movies added.\n", added)
	return nil
}

// removeMovie 按 id 删除电影，电影不存在时只输出提示
func removeMovie(ctx context.Context, cat *catalog.Catalog, id int64, w io.Writer) error {
	movie, err := cat.DeleteMovie(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			fmt.Fprintf(w, "No movie with ID %d\n", id)
			return nil
		}
		return err
	}

	fmt.Fprintf(w, "Deleted movie %s (ID %d)\n", movie.Title, id)
	return nil
}

func yearString(y *int32) string {
	if y == nil {
		return "n/a"
	}
	return fmt.Sprint(*y)
}
