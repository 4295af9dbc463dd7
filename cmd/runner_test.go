package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/services"
	"github.com/desertthunder/pldiff/internal/shared"
	"github.com/desertthunder/pldiff/internal/tasks"
	tu "github.com/desertthunder/pldiff/internal/testing"
)

func testLibrary() *tu.MockLibrary {
	return &tu.MockLibrary{
		Playlists: []models.PlaylistSummary{{ID: "P1", Name: "Road Trip"}, {ID: "P2", Name: "Focus"}},
		TrackLists: map[string][]models.Track{
			"P1": {{ID: "a", Name: "Song A", Artist: "X"}, {ID: "b", Name: "Song B", Artist: "Y"}},
			"P2": {{ID: "a", Name: "Song A", Artist: "X"}, {ID: "c", Name: "Song C", Artist: "Z"}},
		},
		Covers: map[string]string{},
	}
}

func newTestRunner(t *testing.T, opts RunnerOpts) (*Runner, *bytes.Buffer) {
	t.Helper()
	t.Setenv(EnvAccessToken, "")

	output := &bytes.Buffer{}
	opts.Output = output
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(&bytes.Buffer{})
	}
	return NewRunner(opts), output
}

func run(r *Runner, args ...string) error {
	return r.app().Run(context.Background(), append([]string{"pldiff"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			library := testLibrary()
			auth := &tu.MockAuthenticator{}
			api := services.NewAPIService("", nil)
			engine := tasks.NewCompareEngine(library, logger)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Auth:       auth,
				Library:    library,
				API:        api,
				Engine:     engine,
				HTTPClient: httpClient,
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.auth != auth {
				t.Error("expected auth to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.engine != engine {
				t.Error("expected engine to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
			if runner.engine != nil {
				t.Error("expected no engine without a library")
			}
		})

		t.Run("builds engine from library", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Library: testLibrary()})
			if runner.engine == nil {
				t.Error("expected engine to be built from library")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"auth", "playlists", "compare", "cover", "serve", "tui", "api", "config"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("verbose flag", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{})

		if err := run(runner, "--verbose", "config", "show"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if runner.logger.GetLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", runner.logger.GetLevel())
		}
		if !strings.Contains(output.String(), "client_id:") {
			t.Errorf("expected config show to run, got:\n%s", output.String())
		}
	})

	t.Run("version flag keeps -v", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{})

		app := runner.app()
		app.Writer = output
		if err := app.Run(context.Background(), []string{"pldiff", "-v"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "0.1.0") {
			t.Errorf("expected version output, got:\n%s", output.String())
		}
		if runner.logger.GetLevel() == log.DebugLevel {
			t.Error("-v should not enable debug logging")
		}
	})

	t.Run("writePlainln keeps percent signs", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{})

		if err := runner.writePlainln("%s", "100% matched"); err != nil {
			t.Fatal(err)
		}
		if output.String() != "\n100% matched\n" {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestCompareCommand(t *testing.T) {
	first := "https://open.spotify.com/playlist/P1?si=abc"
	second := "https://open.spotify.com/playlist/P2"

	t.Run("json to stdout", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Library: testLibrary()})

		err := run(runner, "compare", "--token", "tok", "--first", first, "--second", second, "--format", "json")
		if err != nil {
			t.Fatalf("compare failed: %v", err)
		}

		var report models.ComparisonReport
		if err := json.Unmarshal(output.Bytes(), &report); err != nil {
			t.Fatalf("stdout should be pure JSON: %v\n%s", err, output.String())
		}
		if report.First.ResolvedID != "P1" || report.Second.ResolvedID != "P2" {
			t.Errorf("unexpected resolved ids %+v %+v", report.First, report.Second)
		}
		if len(report.Result.Common) != 1 || report.Result.Only1[0].ID != "b" || report.Result.Only2[0].ID != "c" {
			t.Errorf("unexpected result %+v", report.Result)
		}
	})

	t.Run("token from environment", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Library: testLibrary()})
		t.Setenv(EnvAccessToken, "envtok")

		if err := run(runner, "compare", "--first", first, "--second", second, "--format", "text"); err != nil {
			t.Fatalf("compare failed: %v", err)
		}
		if !strings.Contains(output.String(), "In Common (1)") {
			t.Errorf("expected text report, got:\n%s", output.String())
		}
	})

	t.Run("table with progress", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Library: testLibrary()})

		if err := run(runner, "compare", "-t", "tok", "--first", first, "--second", second); err != nil {
			t.Fatalf("compare failed: %v", err)
		}
		out := output.String()
		if !strings.Contains(out, "Resolved public playlist P1") {
			t.Errorf("expected progress lines, got:\n%s", out)
		}
		if !strings.Contains(strings.ToUpper(out), "TRACK ID") {
			t.Errorf("expected result table, got:\n%s", out)
		}
	})

	t.Run("private mode writes file", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Library: testLibrary()})
		path := filepath.Join(t.TempDir(), "diff.csv")

		err := run(runner, "compare", "--token", "tok",
			"--first", "P1", "--first-mode", "private",
			"--second", "P2", "--second-mode", "private",
			"--format", "csv", "--output", path)
		if err != nil {
			t.Fatalf("compare failed: %v", err)
		}

		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "only2,c,Song C,Z") {
			t.Errorf("unexpected csv:\n%s", content)
		}
		if !strings.Contains(output.String(), "Saved to "+path) {
			t.Errorf("expected saved message, got:\n%s", output.String())
		}
	})

	t.Run("missing token", func(t *testing.T) {
		lib := testLibrary()
		runner, _ := newTestRunner(t, RunnerOpts{Library: lib})

		err := run(runner, "compare", "--first", first, "--second", second)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if len(lib.Calls) != 0 {
			t.Errorf("expected no fetches, got %v", lib.Calls)
		}
	})

	t.Run("invalid mode", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Library: testLibrary()})

		err := run(runner, "compare", "--token", "tok", "--first", first, "--second", second, "--first-mode", "shared")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Library: testLibrary()})

		err := run(runner, "compare", "--token", "tok", "--first", first, "--second", second, "--format", "xml")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("unresolved reference", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Library: testLibrary()})

		err := run(runner, "compare", "--token", "tok", "--first", "not a link", "--second", second)
		var unresolved *shared.UnresolvedReferenceError
		if !errors.As(err, &unresolved) {
			t.Errorf("expected UnresolvedReferenceError, got %v", err)
		}
	})

	t.Run("fetch failure is reported", func(t *testing.T) {
		lib := testLibrary()
		lib.TrackErrs = map[string]error{"P2": &shared.UpstreamAuthError{Endpoint: "/playlists/P2/tracks", Status: 404, Body: "not found"}}
		runner, output := newTestRunner(t, RunnerOpts{Library: lib})

		err := run(runner, "compare", "--token", "tok", "--first", first, "--second", second, "--format", "json")
		var upstream *shared.UpstreamAuthError
		if !errors.As(err, &upstream) || upstream.Status != 404 {
			t.Errorf("expected upstream 404, got %v", err)
		}
		if output.Len() != 0 {
			t.Errorf("expected no partial output, got:\n%s", output.String())
		}
	})

	t.Run("no engine", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{})

		err := run(runner, "compare", "--token", "tok", "--first", first, "--second", second)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestPlaylistsCommand(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Library: testLibrary()})

		if err := run(runner, "playlists", "--token", "tok"); err != nil {
			t.Fatalf("playlists failed: %v", err)
		}
		if !strings.Contains(output.String(), "Road Trip") || !strings.Contains(output.String(), "P2") {
			t.Errorf("expected playlist table, got:\n%s", output.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Library: testLibrary()})

		if err := run(runner, "playlists", "--token", "tok", "--json"); err != nil {
			t.Fatalf("playlists failed: %v", err)
		}

		var playlists []models.PlaylistSummary
		if err := json.Unmarshal(output.Bytes(), &playlists); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(playlists) != 2 {
			t.Errorf("expected 2 playlists, got %d", len(playlists))
		}
	})

	t.Run("empty library", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Library: &tu.MockLibrary{}})

		if err := run(runner, "playlists", "--token", "tok"); err != nil {
			t.Fatalf("playlists failed: %v", err)
		}
		if !strings.Contains(output.String(), "No playlists found") {
			t.Errorf("expected empty message, got:\n%s", output.String())
		}
	})

	t.Run("failure is reported", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Library: &tu.MockLibrary{PlaylistsErr: &shared.NetworkError{Op: "GET /me/playlists", Err: errors.New("reset")}}})

		err := run(runner, "playlists", "--token", "tok")
		var network *shared.NetworkError
		if !errors.As(err, &network) {
			t.Errorf("expected NetworkError, got %v", err)
		}
	})
}

func TestCoverCommand(t *testing.T) {
	stub := tu.NewSpotifyStub(t, map[string]tu.Route{"/cover.jpg": {Body: "jpegbytes"}})

	lib := testLibrary()
	lib.Covers["P1"] = stub.URL + "/cover.jpg"

	t.Run("prints url", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Library: lib})

		if err := run(runner, "cover", "--token", "tok", "P1"); err != nil {
			t.Fatalf("cover failed: %v", err)
		}
		if strings.TrimSpace(output.String()) != stub.URL+"/cover.jpg" {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("no cover", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Library: lib})

		if err := run(runner, "cover", "--token", "tok", "P2"); err != nil {
			t.Fatalf("cover should not fail without an image: %v", err)
		}
		if !strings.Contains(output.String(), "No cover image") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("save", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Library: lib})
		path := filepath.Join(t.TempDir(), "cover.jpg")

		if err := run(runner, "cover", "--token", "tok", "--save", path, "P1"); err != nil {
			t.Fatalf("cover failed: %v", err)
		}
		if got := tu.MustReadFile(t, path); got != "jpegbytes" {
			t.Errorf("unexpected image content %q", got)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Library: lib})

		if err := run(runner, "cover", "--token", "tok"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestAPIGetCommand(t *testing.T) {
	stub := tu.NewSpotifyStub(t, map[string]tu.Route{
		"/me":     {Body: `{"id":"user1"}`},
		"/denied": {Status: http.StatusForbidden, Body: `{"error":"forbidden"}`},
	})

	t.Run("prints json", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{API: services.NewAPIService(stub.URL, nil)})

		if err := run(runner, "api", "get", "--token", "tok", "/me"); err != nil {
			t.Fatalf("api get failed: %v", err)
		}
		if !strings.Contains(output.String(), `"id": "user1"`) {
			t.Errorf("unexpected output %s", output.String())
		}

		reqs := stub.Requests()
		if got := reqs[len(reqs)-1].Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer header, got %q", got)
		}
	})

	t.Run("non-success status", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{API: services.NewAPIService(stub.URL, nil)})

		err := run(runner, "api", "get", "--token", "tok", "/denied")
		var upstream *shared.UpstreamAuthError
		if !errors.As(err, &upstream) || upstream.Status != http.StatusForbidden {
			t.Errorf("expected upstream 403, got %v", err)
		}
	})
}

func TestAuthCommands(t *testing.T) {
	configured := func() *shared.Config {
		config := shared.DefaultConfig()
		config.Credentials.Spotify.ClientID = "id"
		config.Credentials.Spotify.ClientSecret = "secret"
		return config
	}

	t.Run("url", func(t *testing.T) {
		auth := &tu.MockAuthenticator{URL: "https://accounts.example/authorize?client_id=id"}
		runner, output := newTestRunner(t, RunnerOpts{Config: configured(), Auth: auth})

		if err := run(runner, "auth", "url"); err != nil {
			t.Fatalf("auth url failed: %v", err)
		}
		if strings.TrimSpace(output.String()) != auth.URL {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Credentials.Spotify.ClientID = ""
		runner, _ := newTestRunner(t, RunnerOpts{Config: config, Auth: &tu.MockAuthenticator{}})

		err := run(runner, "auth", "url")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Fatalf("expected ErrMissingCredentials, got %v", err)
		}
		if !strings.Contains(err.Error(), "client_id") {
			t.Errorf("expected missing field named, got %v", err)
		}
	})

	t.Run("no authenticator", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Config: configured()})

		if err := run(runner, "auth", "login"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestConfigCommands(t *testing.T) {
	t.Run("init", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{})
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := run(runner, "config", "init", "--config", path); err != nil {
			t.Fatalf("config init failed: %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), "pldiff auth login") {
			t.Errorf("expected next steps, got:\n%s", output.String())
		}

		if err := run(runner, "config", "init", "--config", path); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("show masks secret", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Credentials.Spotify.ClientSecret = "supersecret1234"
		runner, output := newTestRunner(t, RunnerOpts{Config: config})

		if err := run(runner, "config", "show"); err != nil {
			t.Fatalf("config show failed: %v", err)
		}
		out := output.String()
		if strings.Contains(out, "supersecret1234") {
			t.Error("client secret should be masked")
		}
		if !strings.Contains(out, "1234") {
			t.Errorf("expected last four characters, got:\n%s", out)
		}
	})

	t.Run("show lists missing credentials", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Credentials.Spotify.ClientID = ""
		config.Credentials.Spotify.ClientSecret = "secret%d"
		runner, output := newTestRunner(t, RunnerOpts{Config: config})

		if err := run(runner, "config", "show"); err != nil {
			t.Fatalf("config show failed: %v", err)
		}
		out := output.String()
		if !strings.Contains(out, "missing: client_id") {
			t.Errorf("expected missing client_id warning, got:\n%s", out)
		}
		if strings.Contains(out, "%!") {
			t.Errorf("unexpected format verb in output:\n%s", out)
		}
	})

	t.Run("mask", func(t *testing.T) {
		tests := []struct{ in, want string }{
			{"", "(unset)"},
			{"abc", "****"},
			{"abcdefgh", "****efgh"},
		}
		for _, tt := range tests {
			if got := mask(tt.in); got != tt.want {
				t.Errorf("mask(%q) = %q, want %q", tt.in, got, tt.want)
			}
		}
	})
}
