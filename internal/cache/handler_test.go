package cache_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"github.com/suntzu974/zevis/internal/cache"
)

type HandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	r := chi.NewRouter()
	cache.NewHandler(cache.NewMemoryStore(), slog.New(slog.DiscardHandler)).Register(r)
	s.router = r
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestSetThenGet() {
	rec := s.do(http.MethodPost, "/cache/greeting", `{"value":"hello"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.JSONEq(`{"message":"Value cached successfully","key":"greeting"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/cache/greeting", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"key":"greeting","value":"hello"}`, rec.Body.String())
}

func (s *HandlerSuite) TestGetMissingKeyIsNotFound() {
	rec := s.do(http.MethodGet, "/cache/nope", "")

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("application/problem+json", rec.Header().Get("Content-Type"))
	s.Contains(rec.Body.String(), "Cache Key Not Found")
}

func (s *HandlerSuite) TestSetRejectsNegativeTTL() {
	rec := s.do(http.MethodPost, "/cache/greeting", `{"value":"hello","ttl":-5}`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "ttl")
}

func (s *HandlerSuite) TestSetRejectsMalformedBody() {
	rec := s.do(http.MethodPost, "/cache/greeting", `not json`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestDelete() {
	s.do(http.MethodPost, "/cache/greeting", `{"value":"hello"}`)

	rec := s.do(http.MethodDelete, "/cache/greeting", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"message":"Cache entry deleted successfully","key":"greeting"}`, rec.Body.String())

	rec = s.do(http.MethodDelete, "/cache/greeting", "")
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/cache/greeting", "")
	s.Equal(http.StatusNotFound, rec.Code)
}
