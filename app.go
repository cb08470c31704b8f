package jewelfeed

import "github.com/gin-gonic/gin"

// App wires the tracker, runner and HTTP server together for the
// entrypoint.
type App struct {
	Config  *configService
	DataDir string

	logger *defaultLogger
	runner *JobRunner
	server *Server
}

// NewAppConfig loads the process configuration service.
func NewAppConfig() *configService {
	return newConfig()
}

// NewApp constructs the application with all collaborators.
func NewApp(config *configService, dataDir string) *App {
	logger := newDefaultLogger("jewelfeed")
	tracker := NewStatusTracker()
	runner := NewJobRunner(tracker, logger, dataDir)
	server := NewServer(runner, logger, dataDir)

	return &App{
		Config:  config,
		DataDir: dataDir,
		logger:  logger,
		runner:  runner,
		server:  server,
	}
}

// Logger exposes the application logger.
func (a *App) Logger() *defaultLogger {
	return a.logger
}

// Runner exposes the job runner.
func (a *App) Runner() *JobRunner {
	return a.runner
}

// Routes returns the configured gin router.
func (a *App) Routes() *gin.Engine {
	return a.server.Routes()
}
