package main

import (
	"expvar"
	"flag"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/liliang-cn/movieweb/internal/catalog"
	"github.com/liliang-cn/movieweb/internal/data"
	"github.com/liliang-cn/movieweb/internal/jsonlog"
	"github.com/liliang-cn/movieweb/internal/omdb"
)

var (
	buildTime string
	version   string
)

// 应用配置
type config struct {
	port int
	env  string
	db   struct {
		driver       string
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  string
	}
	omdb struct {
		apiKey string
		url    string
	}
	log struct {
		level string
		file  string
	}
}

// 应用定义
type application struct {
	config    config
	logger    *slog.Logger
	catalog   *catalog.Catalog
	templates map[string]*template.Template
}

func main() {
	// .env 可选，不存在时直接使用环境变量
	_ = godotenv.Load()

	var cfg config
	flag.IntVar(&cfg.port, "port", envInt("PORT", 5030), "HTTP server port")
	flag.StringVar(&cfg.env, "env", envString("APP_ENV", "development"), "Environment (development|staging|production)")
	flag.StringVar(&cfg.db.driver, "db-driver", envString("DB_DRIVER", "sqlite"), "Database driver (sqlite|postgres)")
	flag.StringVar(&cfg.db.dsn, "db-dsn", envString("DB_DSN", "movie_web.db"), "Database DSN")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "Database max open connections")
	flag.IntVar(&cfg.db.maxIdleConns, "db-max-idle-conns", 25, "Database max idle connections")
	flag.StringVar(&cfg.db.maxIdleTime, "db-max-idle-time", "15m", "Database max connection idle time")
	flag.StringVar(&cfg.omdb.apiKey, "omdb-key", os.Getenv("OMDB_API_KEY"), "OMDb API key")
	flag.StringVar(&cfg.omdb.url, "omdb-url", envString("OMDB_URL", omdb.DefaultURL), "OMDb API URL")
	flag.StringVar(&cfg.log.level, "log-level", envString("LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")
	flag.StringVar(&cfg.log.file, "log-file", os.Getenv("LOG_FILE_PATH"), "Write logs to this file instead of stdout")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	// 显示版本
	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		fmt.Printf("Build time:\t%s\n", buildTime)
		os.Exit(0)
	}

	logger := jsonlog.New(jsonlog.Config{Level: cfg.log.level, File: cfg.log.file})

	if cfg.omdb.apiKey == "" {
		logger.Warn("OMDB_API_KEY is not set, movie lookups will fail")
	}

	// 连接数据库
	db, err := data.Open(data.Config{
		Driver:       cfg.db.driver,
		DSN:          cfg.db.dsn,
		MaxOpenConns: cfg.db.maxOpenConns,
		MaxIdleConns: cfg.db.maxIdleConns,
		MaxIdleTime:  cfg.db.maxIdleTime,
		Debug:        cfg.log.level == "debug",
	})
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	// 退出前关闭数据库连接
	defer sqlDB.Close()

	logger.Info("database connection pool established", "driver", cfg.db.driver)

	err = data.Migrate(db)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	// 发布版本信息
	expvar.NewString("version").Set(version)

	// 发布活动的 goroutine 数
	expvar.Publish("goroutines", expvar.Func(func() interface{} {
		return runtime.NumGoroutine()
	}))

	// 发布数据库连接的统计信息
	expvar.Publish("database", expvar.Func(func() interface{} {
		return sqlDB.Stats()
	}))

	// 发布当前的时间信息
	expvar.Publish("timestamp", expvar.Func(func() interface{} {
		return time.Now().Unix()
	}))

	templates, err := newTemplateCache()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	provider := omdb.NewClient(omdb.Config{APIKey: cfg.omdb.apiKey, URL: cfg.omdb.url}, logger)

	// 初始化应用
	app := &application{
		config:    cfg,
		logger:    logger,
		catalog:   catalog.New(data.NewModels(db), provider, logger),
		templates: templates,
	}

	// 启动 server
	err = app.serve()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func envString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}
