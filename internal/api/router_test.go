package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	v1 "github.com/flexprice/mgmt/internal/api/v1"
	"github.com/flexprice/mgmt/internal/config"
	"github.com/flexprice/mgmt/internal/logger"
	pubsubMemory "github.com/flexprice/mgmt/internal/pubsub/memory"
	"github.com/flexprice/mgmt/internal/repository/memory"
	"github.com/flexprice/mgmt/internal/service"
	"github.com/flexprice/mgmt/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type RouterSuite struct {
	suite.Suite
	router *gin.Engine
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := config.GetDefaultConfig()
	log := logger.NewNopLogger()
	ps := pubsubMemory.NewPubSub(log)
	s.T().Cleanup(func() { _ = ps.Close() })

	svc, err := service.NewManagementService(
		memory.NewResourceRepository(log),
		service.NewNotifier(ps, cfg, log),
		cfg,
		log,
	)
	s.Require().NoError(err)

	s.router = NewRouter(Handlers{
		Health:   v1.NewHealthHandler(svc, log),
		Resource: v1.NewResourceHandler(svc, log),
	}, cfg, log)

	s.Equal(http.StatusCreated, s.do(http.MethodPost, "/v1/resources", map[string]any{
		"name":       "app:type=Cache,name=users",
		"class_name": "LRUCache",
		"attributes": map[string]any{"Size": 150, "Owner": "billing"},
		"writable":   []string{"Owner"},
	}, nil))
	s.Equal(http.StatusCreated, s.do(http.MethodPost, "/v1/resources", map[string]any{
		"name":       "app:type=Cache,name=orders",
		"class_name": "LRUCache",
		"attributes": map[string]any{"Size": 20, "Owner": "orders"},
	}, nil))
}

// do performs a request and decodes the JSON response into out when given
func (s *RouterSuite) do(method, target string, body any, out any) int {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.NotEmpty(w.Header().Get(types.HeaderRequestID))
	if out != nil {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Message       string         `json:"message"`
		InternalError string         `json:"internal_error"`
		Details       map[string]any `json:"details"`
	} `json:"error"`
}

func withQuery(path string, params url.Values) string {
	return path + "?" + params.Encode()
}

func (s *RouterSuite) TestHealth() {
	var body map[string]any
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/health", nil, &body))
	s.Equal("ok", body["status"])
	s.Equal(config.DefaultDomain, body["default_domain"])
	s.EqualValues(3, body["resource_count"])
}

func (s *RouterSuite) TestRegisterResource_Errors() {
	testCases := []struct {
		name   string
		body   any
		status int
	}{
		{"invalid_json", "{", http.StatusBadRequest},
		{"missing_class_name", map[string]any{"name": "app:type=X"}, http.StatusBadRequest},
		{"malformed_name", map[string]any{"name": "no-domain", "class_name": "X"}, http.StatusBadRequest},
		{"pattern_name", map[string]any{"name": "app:type=X,*", "class_name": "X"}, http.StatusBadRequest},
		{"duplicate", map[string]any{"name": "app:name=users,type=Cache", "class_name": "X"}, http.StatusConflict},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			var body errorBody
			s.Equal(tc.status, s.do(http.MethodPost, "/v1/resources", tc.body, &body))
			s.False(body.Success)
			s.NotEmpty(body.Error.Message)
		})
	}
}

func (s *RouterSuite) TestGetResource() {
	var found map[string]any
	status := s.do(http.MethodGet, withQuery("/v1/resources/lookup", url.Values{
		"name": {"app:name=users,type=Cache"},
	}), nil, &found)
	s.Equal(http.StatusOK, status)
	s.Equal("app:type=Cache,name=users", found["name"])
	s.Equal("LRUCache", found["class_name"])

	var missing errorBody
	status = s.do(http.MethodGet, withQuery("/v1/resources/lookup", url.Values{
		"name": {"app:type=Missing"},
	}), nil, &missing)
	s.Equal(http.StatusNotFound, status)
	s.Equal("app:type=Missing", missing.Error.InternalError)

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/v1/resources/lookup", nil, nil))
}

func (s *RouterSuite) TestQueryResources() {
	var list struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	status := s.do(http.MethodGet, withQuery("/v1/resources", url.Values{
		"pattern":   {"app:type=Cache,*"},
		"attribute": {"Owner"},
		"value":     {"billing"},
	}), nil, &list)
	s.Equal(http.StatusOK, status)
	s.Require().Equal(1, list.Total)
	s.Equal("app:type=Cache,name=users", list.Items[0]["name"])

	var names struct {
		Names []string `json:"names"`
		Total int      `json:"total"`
	}
	status = s.do(http.MethodGet, withQuery("/v1/resources", url.Values{
		"pattern":    {"app:*"},
		"attribute":  {"Size"},
		"value":      {"20"},
		"names_only": {"true"},
	}), nil, &names)
	s.Equal(http.StatusOK, status)
	s.Equal([]string{"app:type=Cache,name=orders"}, names.Names)

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, withQuery("/v1/resources", url.Values{
		"value": {"20"},
	}), nil, nil), "value without attribute")
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, withQuery("/v1/resources", url.Values{
		"pattern": {"no-domain"},
	}), nil, nil))
}

func (s *RouterSuite) TestAttributes() {
	name := "app:type=Cache,name=users"

	var attr map[string]any
	status := s.do(http.MethodGet, withQuery("/v1/resources/attributes", url.Values{
		"name": {name}, "attribute": {"Size"},
	}), nil, &attr)
	s.Equal(http.StatusOK, status)
	s.EqualValues(150, attr["value"])

	var all map[string]any
	status = s.do(http.MethodGet, withQuery("/v1/resources/attributes", url.Values{
		"name": {name},
	}), nil, &all)
	s.Equal(http.StatusOK, status)
	s.Len(all, 2)

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, withQuery("/v1/resources/attributes", url.Values{
		"name": {name}, "attribute": {"Missing"},
	}), nil, nil))

	s.Equal(http.StatusOK, s.do(http.MethodPut, "/v1/resources/attributes", map[string]any{
		"name": name, "attribute": "Owner", "value": "ops",
	}, nil))

	var bad errorBody
	status = s.do(http.MethodPut, "/v1/resources/attributes", map[string]any{
		"name": name, "attribute": "Owner", "value": 42,
	}, &bad)
	s.Equal(http.StatusBadRequest, status)
	s.Equal("BadAttributeValueException: 42", bad.Error.InternalError)
	s.Equal("Owner", bad.Error.Details["attribute"])

	s.Equal(http.StatusBadRequest, s.do(http.MethodPut, "/v1/resources/attributes", map[string]any{
		"name": name, "attribute": "Size", "value": 1,
	}, nil), "read-only attribute")
}

func (s *RouterSuite) TestUnregisterResource() {
	target := withQuery("/v1/resources", url.Values{"name": {"app:type=Cache,name=orders"}})
	s.Equal(http.StatusOK, s.do(http.MethodDelete, target, nil, nil))
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, target, nil, nil))

	s.Equal(http.StatusBadRequest, s.do(http.MethodDelete, withQuery("/v1/resources", url.Values{
		"name": {service.DelegateName},
	}), nil, nil))
}

func (s *RouterSuite) TestGetDomains() {
	var body struct {
		Domains       []string `json:"domains"`
		DefaultDomain string   `json:"default_domain"`
		Count         int      `json:"resource_count"`
	}
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/v1/domains", nil, &body))
	s.Equal([]string{"app", "mgmt"}, body.Domains)
	s.Equal(config.DefaultDomain, body.DefaultDomain)
	s.Equal(3, body.Count)
}
