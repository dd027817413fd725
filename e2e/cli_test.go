package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/othello/internal/api"
	"github.com/mcoot/othello/internal/api/response"
	"github.com/mcoot/othello/internal/factory"
	"github.com/mcoot/othello/internal/services/auth"
	"github.com/mcoot/othello/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	binaryPath := filepath.Join(projectRoot, "bin", "othello-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/othello")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

// second returns a runner sharing the binary with its own token file
func (r *cliRunner) second(t *testing.T) *cliRunner {
	return &cliRunner{
		binaryPath: r.binaryPath,
		serverURL:  r.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token2"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func runJSON[T any](t *testing.T, r *cliRunner, args ...string) T {
	t.Helper()
	output, err := r.run(args...)
	require.NoError(t, err, "output: %s", output)

	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), output)
	return v
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startTestServer runs a real HTTP server on a free port
func startTestServer(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := testutil.NopLogger()
	app, err := factory.New(factory.Config{
		Logger:      logger,
		SearchDepth: 2,
		AuthConfig:  auth.Config{SessionDuration: time.Hour, BcryptCost: bcrypt.MinCost},
	})
	require.NoError(t, err)

	server := &http.Server{
		Addr: addr,
		Handler: api.NewRouter(api.RouterConfig{
			Logger:          logger,
			AuthService:     app.AuthService,
			LobbyController: app.LobbyController,
			GameController:  app.GameController,
			BotService:      app.BotService,
			Storage:         app.Storage,
		}),
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	})

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")
	return serverURL
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

type messageResponse struct {
	Message string `json:"message"`
}

func TestCLI_HealthCheck(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	resp := runJSON[response.Health](t, cli, "health")
	assert.Equal(t, response.Health{Status: "ok", Storage: "ok"}, resp)
}

func TestCLI_PlayerCommands(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	authResp := runJSON[response.AuthResponse](t, cli, "player", "guest", "--name", "Alice")
	assert.Equal(t, "Alice", authResp.Player.DisplayName)
	assert.True(t, authResp.Player.IsGuest)
	assert.NotEmpty(t, authResp.SessionToken)

	// Token is read back from the token file
	player := runJSON[response.Player](t, cli, "player", "me")
	assert.Equal(t, authResp.Player.ID, player.ID)

	msg := runJSON[messageResponse](t, cli, "player", "logout")
	assert.Equal(t, "Logged out", msg.Message)

	output, err := cli.run("player", "me")
	assert.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
}

func TestCLI_LobbyCommands(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))
	runJSON[response.AuthResponse](t, cli, "player", "guest", "--name", "Alice")

	lobby := runJSON[response.Lobby](t, cli, "lobby", "create", "--depth", "3")
	assert.Equal(t, "waiting", lobby.State)
	assert.Equal(t, 3, lobby.Config.SearchDepth)
	require.Len(t, lobby.Members, 1)
	assert.True(t, lobby.Members[0].IsHost)

	got := runJSON[response.Lobby](t, cli, "lobby", "get", lobby.Code)
	assert.Equal(t, lobby.Code, got.Code)

	config := runJSON[response.LobbyConfig](t, cli, "lobby", "config", lobby.Code, "--side", "player2")
	assert.Equal(t, response.LobbyConfig{SearchDepth: 3, HostSide: "player2"}, config)

	msg := runJSON[messageResponse](t, cli, "lobby", "leave", lobby.Code)
	assert.Contains(t, msg.Message, "Left lobby")
}

func TestCLI_GameAgainstBot(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))
	runJSON[response.AuthResponse](t, cli, "player", "guest", "--name", "Alice")

	lobby := runJSON[response.Lobby](t, cli, "lobby", "create")
	lobby = runJSON[response.Lobby](t, cli, "lobby", "add-bot", lobby.Code, "--strategy", "random")
	assert.Len(t, lobby.Members, 2)

	started := runJSON[response.MoveResponse](t, cli, "game", "start", lobby.Code)
	assert.Equal(t, "in_progress", started.Game.State)

	// Keep playing the first legal move until the game ends
	for range 64 {
		game := runJSON[response.GameState](t, cli, "game", "get", lobby.Code)
		if game.State != "in_progress" {
			break
		}

		moves := runJSON[response.LegalMovesResponse](t, cli, "game", "moves", lobby.Code)
		require.NotEmpty(t, moves.Moves)
		first := moves.Moves[0]

		runJSON[response.MoveResponse](t, cli, "game", "move", lobby.Code,
			strconv.Itoa(first.Row), strconv.Itoa(first.Col))
	}

	final := runJSON[response.GameState](t, cli, "game", "get", lobby.Code)
	assert.Equal(t, "complete", final.State)
	assert.NotEmpty(t, final.WinnerSide)
	assert.Equal(t, 64, final.Counts.Player1+final.Counts.Player2+strings.Count(strings.Join(final.Board.Cells, ""), "."))

	games := runJSON[[]response.GameState](t, cli, "game", "history", lobby.Code)
	require.Len(t, games, 1)
	assert.Equal(t, final.ID, games[0].ID)

	lobby = runJSON[response.Lobby](t, cli, "lobby", "get", lobby.Code)
	assert.Equal(t, "waiting", lobby.State)
	assert.Nil(t, lobby.CurrentGame)
}

func TestCLI_GameAbandon(t *testing.T) {
	cli1 := newCLIRunner(t, startTestServer(t))
	cli2 := cli1.second(t)

	runJSON[response.AuthResponse](t, cli1, "player", "guest", "--name", "Alice")
	runJSON[response.AuthResponse](t, cli2, "player", "guest", "--name", "Bob")

	lobby := runJSON[response.Lobby](t, cli1, "lobby", "create")
	runJSON[response.Lobby](t, cli2, "lobby", "join", lobby.Code)
	runJSON[response.MoveResponse](t, cli1, "game", "start", lobby.Code)

	output, err := cli2.run("game", "abandon", lobby.Code)
	assert.Error(t, err, "non-host should not be able to abandon")
	assert.Contains(t, output, "NOT_HOST")

	msg := runJSON[messageResponse](t, cli1, "game", "abandon", lobby.Code)
	assert.Equal(t, "Game abandoned", msg.Message)

	output, err = cli2.run("game", "move", lobby.Code, "2", "4")
	assert.Error(t, err)
	assert.Contains(t, output, "NO_GAME_IN_PROGRESS")
}

func TestCLI_ErrorHandling(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	output, err := cli.run("player", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	runJSON[response.AuthResponse](t, cli, "player", "guest", "--name", "Alice")

	output, err = cli.run("lobby", "get", "INVALID")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}
