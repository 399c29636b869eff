package devserver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxImageBytes = 10 << 20

type apiError struct {
	Code    int
	Message string
}

func (e apiError) Error() string { return e.Message }

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newBadRequestError(message string) apiError {
	return apiError{Code: http.StatusBadRequest, Message: message}
}

func newNotFoundError(message string) apiError {
	return apiError{Code: http.StatusNotFound, Message: message}
}

// Server routes the todo API onto a Store.
type Server struct {
	logger zerolog.Logger
	store  *Store
	router *gin.Engine
}

func New(logger zerolog.Logger, store *Store) *Server {
	s := &Server{logger: logger, store: store}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger)
	s.registerRoutes(router)
	s.router = router
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) registerRoutes(router gin.IRouter) {
	todo := router.Group("/api/todo")
	todo.GET("", s.handleListTodos)
	todo.GET("/owner", s.handleListOwners)
	todo.POST("/upload", s.handleUpload)
	todo.PATCH("", s.handlePatch)
	todo.DELETE("", s.handleDelete)

	router.GET("/uploads/:name", s.handleImage)
}

func (s *Server) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Info().
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("request_id", c.GetHeader("X-Request-ID")).
		Int("status", c.Writer.Status()).
		Dur("elapsed", time.Since(start)).
		Msg("handled request")
}

func (s *Server) handleListTodos(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Todos())
}

func (s *Server) handleListOwners(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Owners())
}

func (s *Server) handleUpload(c *gin.Context) {
	text := strings.TrimSpace(c.PostForm("todoText"))
	if text == "" {
		abort(c, newBadRequestError("todoText is required"))
		return
	}

	imageURL, err := s.saveImage(c)
	if err != nil {
		var ae apiError
		if errors.As(err, &ae) {
			abort(c, ae)
			return
		}
		s.logger.Error().
			Err(err).
			Msg("failed to read image")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(c.PostForm("id"))
	if id == "" {
		it := s.store.Create(text, imageURL)
		s.logger.Debug().
			Str("id", it.ID).
			Bool("image", imageURL != nil).
			Msg("created todo")
		c.JSON(http.StatusCreated, it)
		return
	}

	it, err := s.store.Replace(id, text, imageURL)
	if err != nil {
		abort(c, newNotFoundError(err.Error()))
		return
	}
	s.logger.Debug().
		Str("id", it.ID).
		Bool("image", imageURL != nil).
		Msg("replaced todo")
	c.JSON(http.StatusOK, it)
}

// saveImage stores the optional "image" part and returns its URL.
func (s *Server) saveImage(c *gin.Context) (*string, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, newBadRequestError("invalid multipart body")
	}
	if fh.Size > maxImageBytes {
		return nil, newBadRequestError("image too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, newBadRequestError("image must be an image file")
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	s.store.PutImage(name, contentType, data)
	url := "/uploads/" + name
	return &url, nil
}

type patchRequest struct {
	ID       string `json:"id" binding:"required"`
	TodoText string `json:"todoText"`
}

func (s *Server) handlePatch(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError("invalid request body"))
		return
	}
	text := strings.TrimSpace(req.TodoText)
	if text == "" {
		abort(c, newBadRequestError("todoText is required"))
		return
	}
	it, err := s.store.SetText(req.ID, text)
	if err != nil {
		abort(c, newNotFoundError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, it)
}

type deleteRequest struct {
	ID string `json:"id" binding:"required"`
}

func (s *Server) handleDelete(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError("invalid request body"))
		return
	}
	if err := s.store.Delete(req.ID); err != nil {
		abort(c, newNotFoundError(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleImage(c *gin.Context) {
	contentType, data, ok := s.store.Image(c.Param("name"))
	if !ok {
		abort(c, newNotFoundError("image not found"))
		return
	}
	c.DataFromReader(http.StatusOK, int64(len(data)), contentType, bytes.NewReader(data), nil)
}

// ListenAndServe serves until ctx is done, then shuts down within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", addr).
			Msg("setting up http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to listen and serve http")
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		return err
	}
	s.logger.Info().Msg("shut down http server")
	return nil
}
