package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-indexq/internal/scheduler"
	"github.com/huynhanx03/go-indexq/pkg/common/http/handler"
	"github.com/huynhanx03/go-indexq/pkg/settings"
)

type registerRequest struct {
	ID   int    `json:"id" validate:"gte=0"`
	Name string `json:"name" validate:"required,max=128"`
}

type idRequest struct {
	ID int `uri:"id" validate:"gte=0"`
}

type empty struct{}

type personResponse struct {
	Person *scheduler.Person `json:"person,omitempty"`
	Empty  bool              `json:"empty"`
}

type cancelResponse struct {
	Removed bool `json:"removed"`
}

type listResponse struct {
	Waiting  []scheduler.Person `json:"waiting"`
	Size     int                `json:"size"`
	Capacity int                `json:"capacity"`
}

// Server exposes a scheduler over HTTP.
type Server struct {
	svc  *scheduler.Service
	log  *zap.Logger
	http *http.Server
}

// New builds the router and HTTP server.
func New(cfg settings.Server, svc *scheduler.Service, log *zap.Logger) *Server {
	s := &Server{svc: svc, log: log}
	s.http = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           s.Router(cfg.Mode),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Router returns the gin engine serving the API.
func (s *Server) Router(mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	v1 := r.Group("/v1/queue")
	v1.GET("", handler.Wrap(s.log, s.list))
	v1.POST("", handler.Wrap(s.log, s.register))
	v1.GET("/peek", handler.Wrap(s.log, s.peek))
	v1.POST("/next", handler.Wrap(s.log, s.next))
	v1.DELETE("/:id", handler.Wrap(s.log, s.cancel))

	return r
}

// Run serves until ctx is done, then shuts down gracefully within timeout.
func (s *Server) Run(ctx context.Context, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.http.Addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.log.Info("http server shutting down")
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func (s *Server) register(ctx context.Context, req *registerRequest) (personResponse, error) {
	p, err := s.svc.Register(ctx, scheduler.Person{ID: req.ID, Name: req.Name})
	if err != nil {
		return personResponse{}, err
	}
	return personResponse{Person: &p}, nil
}

func (s *Server) next(ctx context.Context, _ *empty) (personResponse, error) {
	p, ok, err := s.svc.Next(ctx)
	if err != nil || !ok {
		return personResponse{Empty: true}, err
	}
	return personResponse{Person: &p}, nil
}

func (s *Server) peek(_ context.Context, _ *empty) (personResponse, error) {
	p, ok := s.svc.Peek()
	if !ok {
		return personResponse{Empty: true}, nil
	}
	return personResponse{Person: &p}, nil
}

func (s *Server) cancel(ctx context.Context, req *idRequest) (cancelResponse, error) {
	removed, err := s.svc.Cancel(ctx, req.ID)
	return cancelResponse{Removed: removed}, err
}

func (s *Server) list(_ context.Context, _ *empty) (listResponse, error) {
	return listResponse{
		Waiting:  s.svc.Waiting(),
		Size:     s.svc.Size(),
		Capacity: s.svc.Capacity(),
	}, nil
}
