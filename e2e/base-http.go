package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"collab-lab/graph"
	"collab-lab/moderation"
	"collab-lab/repositories"
	"collab-lab/seed"
	"collab-lab/services"
	"collab-lab/store"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

// BaseHTTPSuite boots the whole service in-process behind an httptest server
// and drives it through real GraphQL documents over HTTP, the same path a
// browser or the tester CLI takes.
type BaseHTTPSuite struct {
	suite.Suite
	Config   Config
	endpoint string

	server *httptest.Server
	db     *badger.DB
	writer *bluge.Writer
	store  *store.Store
}

// SetupSuite loads the environment configuration and, unless an external
// server address is configured, assembles the full service around in-memory
// engines and seeds it from testdata.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.ServerAddr != "" {
		s.endpoint = s.Config.ServerAddr
		return
	}

	log := logs.GetLoggerFromString("error")

	s.db, err = badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)

	s.writer, err = bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	s.Require().NoError(err)

	repo := repositories.NewMessageRepository(s.db, s.writer, log, nil, 25)
	s.store = store.New(repo, 0)
	queries := services.NewQueryService(s.store, log)

	moderator, err := moderation.NewModerator([]string{"swordfish"}, '*', log)
	s.Require().NoError(err)
	mutations := services.NewMutationService(s.store, queries, &moderator, 2000, log)

	fixtures, err := seed.Load("testdata/seed.yaml")
	s.Require().NoError(err)
	s.Require().NoError(seed.Apply(context.Background(), fixtures, s.store, mutations, log))

	schema, err := graph.NewSchema(queries, mutations)
	s.Require().NoError(err)

	s.server = httptest.NewServer(graph.NewHandler(&schema, false))
	s.endpoint = s.server.URL
}

func (s *BaseHTTPSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.writer != nil {
		_ = s.writer.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Execute posts one GraphQL document with logging, colors, and JSON debugging,
// and returns the decoded response envelope.
func (s *BaseHTTPSuite) Execute(name, query string, variables map[string]any) graphQLResponse {
	// 1. Print a colorized header for the step in logs
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	s.Require().NoError(err)

	// 2. Post the document the way any HTTP client would
	start := time.Now()
	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err, "Failed to reach the GraphQL server at "+s.endpoint)
	defer resp.Body.Close()

	var decoded graphQLResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&decoded))

	// 3. Log the exchange, with full JSON bodies if E2E_DEBUG_JSON is enabled
	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "POST %s [%d] in %v", s.endpoint, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		fmt.Fprintln(&logBuilder, "\nREQUEST:")
		fmt.Fprintln(&logBuilder, string(body))
		fmt.Fprintln(&logBuilder, "RESPONSE:")
		fmt.Fprintln(&logBuilder, string(decoded.Data))
		for _, e := range decoded.Errors {
			fmt.Fprintln(&logBuilder, "ERROR:", e.Message)
		}
	}
	s.T().Log(logBuilder.String())
	return decoded
}

// Decode fails the suite when the response carries errors, then unmarshals
// the data payload into out.
func (s *BaseHTTPSuite) Decode(resp graphQLResponse, out any) {
	s.Require().Empty(resp.Errors)
	s.Require().NoError(json.Unmarshal(resp.Data, out))
}
