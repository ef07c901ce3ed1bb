package peertutor_test

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"regexp"
	"testing"
	"time"

	"github.com/aussiebroadwan/peertutor/pkg/peersdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for the peertutor end-to-end tests.
 * This includes container setup, account operations, and assertions.
 */

const (
	testImageName = "peertutor-test:latest"

	sessionSecret = "e2e-session-secret-0123456789abcdef"
	emailSuffix   = "@menloschool.org"
	testPassword  = "hunter22"
)

var newPasswordRE = regexp.MustCompile(`Your new password is: ([A-Za-z0-9+?]+)`)

// TestMain builds the Docker image once before all tests and removes it
// after they complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building peertutor Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up peertutor Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/peertutor/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // the image might not exist
}

// site is one running peertutor container.
type site struct {
	BaseURL   string
	container testcontainers.Container
}

// relaxedLimits lifts the rate limits so tests can make many rapid requests.
var relaxedLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_WINDOW_SEC": "60",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
}

// setupSite starts peertutor with relaxed rate limits.
func setupSite(t *testing.T) *site {
	t.Helper()
	return startSite(t, relaxedLimits)
}

// setupSiteWithDefaultRateLimits starts peertutor with the production rate
// limits. Only the rate limit tests should need it.
func setupSiteWithDefaultRateLimits(t *testing.T) *site {
	t.Helper()
	return startSite(t, nil)
}

func startSite(t *testing.T, extraEnv map[string]string) *site {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"PEERTUTOR_SESSION_SECRET": sessionSecret,
		"PEERTUTOR_ISSUER":         "peertutor-e2e",
		"PEERTUTOR_EMAIL_SUFFIX":   emailSuffix,
		"MAIL_DRIVER":              "log",
		"ENV":                      "test",
		"LOG_LEVEL":                "info",
		"LOG_FORMAT":               "json",
	}
	maps.Copy(env, extraEnv)

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/readyz").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return &site{
		BaseURL:   fmt.Sprintf("http://%s:%s", host, mappedPort.Port()),
		container: container,
	}
}

// client returns a fresh browser-like client with its own cookie jar.
func (s *site) client(t *testing.T) *peersdk.Client {
	t.Helper()
	c, err := peersdk.NewClient(s.BaseURL)
	require.NoError(t, err)
	return c
}

// signup creates an account for local and returns a signed in client and
// the new user's id.
func (s *site) signup(t *testing.T, local string) (*peersdk.Client, string) {
	t.Helper()

	c := s.client(t)
	page, err := c.Signup(t.Context(), peersdk.SignupForm{
		EmailLocal: local,
		Password:   testPassword,
		FirstName:  "Jane",
		LastName:   "Doe",
		Grade:      10,
		Tutor:      []string{"bio"},
		Learn:      []string{"chem"},
	})
	require.NoError(t, err)
	require.Equal(t, "/me", page.Path, "flashes: %v", page.Flashes)
	require.NotEmpty(t, page.UserID)

	return c, page.UserID
}

// cli runs the peertutor binary inside the container.
func (s *site) cli(t *testing.T, args ...string) (int, string) {
	t.Helper()

	code, reader, err := s.container.Exec(t.Context(), append([]string{"peertutor"}, args...), tcexec.Multiplexed())
	require.NoError(t, err)

	out, err := io.ReadAll(reader)
	require.NoError(t, err)
	return code, string(out)
}

// logs returns everything the container has written so far.
func (s *site) logs(t *testing.T) string {
	t.Helper()

	rc, err := s.container.Logs(t.Context())
	require.NoError(t, err)
	defer rc.Close()

	out, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(out)
}

// mailedPassword waits for the log mailer to record a reset mail and
// returns the newest password in it.
func (s *site) mailedPassword(t *testing.T, previous string) string {
	t.Helper()

	var password string
	require.Eventually(t, func() bool {
		matches := newPasswordRE.FindAllStringSubmatch(s.logs(t), -1)
		if len(matches) == 0 {
			return false
		}
		password = matches[len(matches)-1][1]
		return password != previous
	}, 10*time.Second, 200*time.Millisecond, "reset mail never showed up in the logs")

	return password
}

// assertHealthy checks a health response reports ok.
func assertHealthy(t *testing.T, health *peersdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
	require.NotEmpty(t, health.Version)
}
