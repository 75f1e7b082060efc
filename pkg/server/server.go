/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: server.go
Description: Web server for QueryCollect. Serves the quiz page, records guesses and
exposes a small JSON API over the operation registry and the guess store.
*/

package server

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/detective-solutions/QueryCollect/pkg/logging"
	"github.com/detective-solutions/QueryCollect/pkg/monitoring"
	"github.com/detective-solutions/QueryCollect/pkg/operations"
	"github.com/detective-solutions/QueryCollect/pkg/store"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// DefaultTitle is shown in the page header
const DefaultTitle = "QueryCollect"

// GuessStore records and lists guesses
type GuessStore interface {
	Save(ctx context.Context, queryType int, text string) (*store.Guess, error)
	List(ctx context.Context, limit int) ([]store.Guess, error)
}

// Server serves quiz rounds and collects guesses
type Server struct {
	echo     *echo.Echo
	registry *operations.Registry
	guesses  GuessStore
	logger   *logging.Logger
	metrics  *monitoring.MetricsCollector
	title    string

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a server. rng is the base stream every request derives its own stream from.
func New(registry *operations.Registry, guesses GuessStore, logger *logging.Logger, rng *rand.Rand) *Server {
	if registry == nil || guesses == nil || logger == nil || rng == nil {
		panic("server: registry, guess store, logger and rng are required")
	}

	s := &Server{
		echo:     echo.New(),
		registry: registry,
		guesses:  guesses,
		logger:   logger,
		metrics:  monitoring.NewMetricsCollector(),
		title:    DefaultTitle,
		rng:      rng,
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = newRenderer()
	e.JSONSerializer = jsonSerializer{}
	e.Use(middleware.CORS())
	e.Use(s.logRequests)
	e.Use(middleware.Recover())

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.index)
	s.echo.POST("/add_query", s.addQuery)
	s.echo.GET("/skip", s.skip)
	s.echo.POST("/skip", s.skip)

	api := s.echo.Group("/api")
	api.GET("/operations", s.listOperations)
	api.GET("/task", s.task)
	api.GET("/guesses", s.listGuesses)
	api.POST("/guesses", s.createGuess)
	api.GET("/stats", s.stats)
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Metrics returns the usage metrics collected so far
func (s *Server) Metrics() *monitoring.MetricsCollector {
	return s.metrics
}

// Start serves on addr until Shutdown
func (s *Server) Start(addr string) error {
	s.logger.GetLogger().WithField("address", addr).Info("Starting server")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// nextRand derives an independent stream for one request
func (s *Server) nextRand() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63()))
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}
		req := c.Request()
		s.metrics.RecordRequest(c.Response().Status)
		s.logger.LogRequest(req.Method, req.URL.Path, c.Response().Status, time.Since(start), logrus.Fields{
			"remote_ip": c.RealIP(),
		})
		return nil
	}
}

// parseStreak reads a streak counter, falling back to 0 on anything invalid
func parseStreak(raw string) int {
	streak, err := cast.ToIntE(raw)
	if err != nil || streak < 0 {
		return 0
	}
	return streak
}

func redirectHome(c echo.Context, streak int) error {
	return c.Redirect(http.StatusFound, "/?streak="+strconv.Itoa(streak))
}

func (s *Server) index(c echo.Context) error {
	streak := parseStreak(c.QueryParam("streak"))

	start := time.Now()
	res, err := s.registry.Random(s.nextRand())
	if err != nil {
		return err
	}
	s.recordGeneration(res, time.Since(start))

	return c.Render(http.StatusOK, pageName, pageView{
		Title:     s.title,
		Streak:    streak,
		QueryType: res.ID,
		MaxLength: store.MaxQueryLength,
		Input:     newTableView("Input", "input", res.InputTable),
		Output:    newTableView("Output", "output", res.OutputTable),
	})
}

// addQuery stores the guess and moves on. Storage failures never block the user.
func (s *Server) addQuery(c echo.Context) error {
	streak := parseStreak(c.FormValue("streak")) + 1
	text := c.FormValue("query_input")

	queryType, err := cast.ToIntE(c.FormValue("query_type"))
	if err != nil {
		queryType = -1
	}

	guess, err := s.guesses.Save(c.Request().Context(), queryType, text)
	s.metrics.RecordGuess(err == nil)
	if err != nil {
		s.logger.GetLogger().WithError(err).WithField("query_type", c.FormValue("query_type")).Warn("Failed to record guess")
	} else {
		s.logger.LogGuess(guess.ID, queryType, len(guess.FreeTextQuery), logrus.Fields{"streak": streak})
	}
	return redirectHome(c, streak)
}

func (s *Server) recordGeneration(res *operations.Result, elapsed time.Duration) {
	s.metrics.RecordGeneration(res.Name, elapsed)
	s.logger.LogGeneration(res.Name, res.InputTable.RowCount(), res.OutputTable.RowCount(), elapsed, nil)
}

func (s *Server) skip(c echo.Context) error {
	return redirectHome(c, parseStreak(c.FormValue("streak-break")))
}

func (s *Server) listOperations(c echo.Context) error {
	return c.JSON(http.StatusOK, s.registry.List())
}

func (s *Server) task(c echo.Context) error {
	rng := s.nextRand()
	start := time.Now()
	raw := c.QueryParam("operation")
	if raw == "" {
		res, err := s.registry.Random(rng)
		if err != nil {
			return err
		}
		s.recordGeneration(res, time.Since(start))
		return c.JSON(http.StatusOK, res)
	}

	id, err := cast.ToIntE(raw)
	if err != nil {
		op, nerr := operations.FromName(raw)
		if nerr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, nerr.Error())
		}
		id = int(op)
	}
	res, err := s.registry.Dispatch(rng, id)
	if errors.Is(err, operations.ErrInvalidOperationID) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}
	s.recordGeneration(res, time.Since(start))
	return c.JSON(http.StatusOK, res)
}

func (s *Server) listGuesses(c echo.Context) error {
	limit, err := cast.ToIntE(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = store.DefaultListLimit
	}
	guesses, err := s.guesses.List(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	if guesses == nil {
		guesses = []store.Guess{}
	}
	return c.JSON(http.StatusOK, guesses)
}

type guessRequest struct {
	QueryType     int    `json:"query_type"`
	FreeTextQuery string `json:"free_text_query"`
}

func (s *Server) createGuess(c echo.Context) error {
	var req guessRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	guess, err := s.guesses.Save(c.Request().Context(), req.QueryType, req.FreeTextQuery)
	s.metrics.RecordGuess(err == nil)
	if errors.Is(err, store.ErrInvalidGuess) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}
	s.logger.LogGuess(guess.ID, guess.QueryType, len(guess.FreeTextQuery), nil)
	return c.JSON(http.StatusCreated, guess)
}

func (s *Server) stats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.metrics.GetGlobalMetrics())
}
