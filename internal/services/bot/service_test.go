package bot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/othello/internal/dependencies/mocks"
	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/services/bot"
	"github.com/mcoot/othello/internal/services/game"
	"github.com/mcoot/othello/internal/services/lobby"
	"github.com/mcoot/othello/internal/services/scoring"
	"github.com/mcoot/othello/internal/services/search"
	"github.com/mcoot/othello/internal/storage/memory"
	"github.com/mcoot/othello/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	store      *memory.Storage
	mockClock  *mocks.MockClock
	mockRandom *mocks.MockRandom

	gameController  *game.Controller
	lobbyController *lobby.Controller
	botService      *bot.Service
	strategies      map[string]bot.Strategy

	ctx context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = memory.New()
	s.mockClock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.mockRandom = mocks.NewMockRandom()
	logger := testutil.NopLogger()
	s.ctx = context.Background()

	engine := search.NewEngine(search.DefaultConfig(), logger)
	s.gameController = game.NewController(s.store, scoring.New(), engine, s.mockClock, s.mockRandom, logger)
	s.lobbyController = lobby.NewController(s.store, s.gameController, s.mockClock, s.mockRandom, logger)

	s.strategies = map[string]bot.Strategy{
		model.BotStrategyMinimax: bot.NewMinimaxStrategy(engine),
		model.BotStrategyRandom:  bot.NewRandomStrategy(s.mockRandom),
	}
	s.botService = bot.NewService(s.store, s.lobbyController, s.gameController, s.strategies, s.mockClock, s.mockRandom, logger)
}

func (s *ServiceSuite) createPlayer(id, name string) model.Player {
	p := model.Player{
		ID:          model.PlayerID(id),
		DisplayName: name,
		IsGuest:     true,
		CreatedAt:   s.mockClock.Now(),
	}
	_ = s.store.SavePlayer(s.ctx, &p)
	return p
}

// hostWithBot creates a lobby hosted by a human with one bot seated
func (s *ServiceSuite) hostWithBot(strategy string) (*model.Lobby, model.Player, *model.Player) {
	s.mockRandom.QueueString("LOBBY1")
	host := s.createPlayer("host", "Host")
	lob, err := s.lobbyController.CreateLobby(s.ctx, host)
	s.Require().NoError(err)

	s.mockRandom.QueueString("abcdefghijklmnop")
	botPlayer, err := s.botService.AddBotToLobby(s.ctx, lob.Code, host.ID, strategy)
	s.Require().NoError(err)

	return lob, host, botPlayer
}

func (s *ServiceSuite) TestCreateBotPlayer() {
	s.mockRandom.QueueString("abcdefghijklmnop")

	player, err := s.botService.CreateBotPlayer(s.ctx, "Bot 1", model.BotStrategyRandom)
	s.Require().NoError(err)

	s.Equal(model.PlayerID("bot-abcdefghijklmnop"), player.ID)
	s.True(player.IsBot)
	s.Equal(model.BotStrategyRandom, player.BotStrategy)

	stored, err := s.store.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("Bot 1", stored.DisplayName)
}

func (s *ServiceSuite) TestAddBotToLobbySeatsBot() {
	lob, _, botPlayer := s.hostWithBot("")

	s.Equal("Minimax Bot 1", botPlayer.DisplayName)
	s.Equal(model.BotStrategyMinimax, botPlayer.BotStrategy)

	updated, _ := s.lobbyController.GetLobby(s.ctx, lob.Code)
	member := updated.GetMember(botPlayer.ID)
	s.Require().NotNil(member)
	s.Equal(model.RolePlayer, member.Role)
}

func (s *ServiceSuite) TestAddBotToLobby_NotHost() {
	lob, _, _ := s.hostWithBot(model.BotStrategyRandom)
	_ = s.lobbyController.SetRole(s.ctx, lob.Code, "host", model.RoleSpectator)
	guest := s.createPlayer("guest", "Guest")
	_, _ = s.lobbyController.JoinLobby(s.ctx, lob.Code, guest)

	_, err := s.botService.AddBotToLobby(s.ctx, lob.Code, guest.ID, model.BotStrategyRandom)
	s.ErrorIs(err, model.ErrNotHost)
}

func (s *ServiceSuite) TestAddBotToLobby_UnknownStrategy() {
	s.mockRandom.QueueString("LOBBY1")
	host := s.createPlayer("host", "Host")
	lob, _ := s.lobbyController.CreateLobby(s.ctx, host)

	_, err := s.botService.AddBotToLobby(s.ctx, lob.Code, host.ID, "oracle")
	s.ErrorIs(err, model.ErrUnknownBotStrategy)
}

func (s *ServiceSuite) TestAddBotToLobby_Full() {
	lob, host, _ := s.hostWithBot(model.BotStrategyRandom)

	_, err := s.botService.AddBotToLobby(s.ctx, lob.Code, host.ID, model.BotStrategyRandom)
	s.ErrorIs(err, model.ErrLobbyFull)
}

func (s *ServiceSuite) TestAddBotToLobby_GameInProgress() {
	lob, host, _ := s.hostWithBot(model.BotStrategyRandom)
	s.mockRandom.QueueString("GAME01")
	_, err := s.lobbyController.StartGame(s.ctx, lob.Code, host.ID)
	s.Require().NoError(err)

	_, err = s.botService.AddBotToLobby(s.ctx, lob.Code, host.ID, model.BotStrategyRandom)
	s.ErrorIs(err, model.ErrGameInProgress)
}

func (s *ServiceSuite) TestRemoveBotFromLobby() {
	lob, host, botPlayer := s.hostWithBot(model.BotStrategyRandom)

	err := s.botService.RemoveBotFromLobby(s.ctx, lob.Code, host.ID, botPlayer.ID)
	s.Require().NoError(err)

	updated, _ := s.lobbyController.GetLobby(s.ctx, lob.Code)
	s.Nil(updated.GetMember(botPlayer.ID))
	s.True(updated.HasOpenSeat())
}

func (s *ServiceSuite) TestRemoveBotFromLobby_NotBot() {
	lob, host, botPlayer := s.hostWithBot(model.BotStrategyRandom)
	_ = s.botService.RemoveBotFromLobby(s.ctx, lob.Code, host.ID, botPlayer.ID)
	guest := s.createPlayer("guest", "Guest")
	_, _ = s.lobbyController.JoinLobby(s.ctx, lob.Code, guest)

	err := s.botService.RemoveBotFromLobby(s.ctx, lob.Code, host.ID, guest.ID)
	s.ErrorIs(err, model.ErrNotBot)
}

func (s *ServiceSuite) TestProcessBotActions_HumanToMove() {
	lob, host, _ := s.hostWithBot(model.BotStrategyMinimax)
	s.mockRandom.QueueString("GAME01")
	g, _ := s.lobbyController.StartGame(s.ctx, lob.Code, host.ID)

	actions, err := s.botService.ProcessBotActions(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Empty(actions)
}

func (s *ServiceSuite) TestProcessBotActions_MinimaxReplies() {
	lob, host, botPlayer := s.hostWithBot(model.BotStrategyMinimax)
	s.mockRandom.QueueString("GAME01")
	g, _ := s.lobbyController.StartGame(s.ctx, lob.Code, host.ID)

	_, err := s.gameController.PlayMove(s.ctx, g.ID, host.ID, model.Position{Row: 2, Col: 4})
	s.Require().NoError(err)

	actions, err := s.botService.ProcessBotActions(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().Len(actions, 1)
	s.Equal(bot.ActionMove, actions[0].Type)
	s.Equal(botPlayer.ID, actions[0].PlayerID)
	s.Equal(model.Player2, actions[0].Side)
	s.Equal(&model.Position{Row: 4, Col: 5}, actions[0].Position)

	updated, _ := s.gameController.GetGame(s.ctx, g.ID)
	s.Equal(model.Player1, updated.Turn)
	s.Equal(model.Player2, updated.Board.Get(model.Position{Row: 4, Col: 5}))
}

func (s *ServiceSuite) TestProcessBotActions_BotOpensAsPlayer1() {
	lob, host, botPlayer := s.hostWithBot(model.BotStrategyMinimax)
	_ = s.lobbyController.UpdateConfig(s.ctx, lob.Code, host.ID, model.LobbyConfig{SearchDepth: 5, HostSide: model.Player2})
	s.mockRandom.QueueString("GAME01")
	g, err := s.lobbyController.StartGame(s.ctx, lob.Code, host.ID)
	s.Require().NoError(err)
	s.Equal(botPlayer.ID, g.Player1)

	actions, err := s.botService.ProcessBotActions(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().Len(actions, 1)
	s.Equal(&model.Position{Row: 2, Col: 4}, actions[0].Position)
}

func (s *ServiceSuite) TestProcessBotActions_RandomUsesQueuedChoice() {
	lob, host, _ := s.hostWithBot(model.BotStrategyRandom)
	s.mockRandom.QueueString("GAME01")
	g, _ := s.lobbyController.StartGame(s.ctx, lob.Code, host.ID)
	_, _ = s.gameController.PlayMove(s.ctx, g.ID, host.ID, model.Position{Row: 2, Col: 4})

	// Player2 replies are (2,3), (2,5), (4,5)
	s.mockRandom.QueueIntn(2)
	actions, err := s.botService.ProcessBotActions(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().Len(actions, 1)
	s.Equal(&model.Position{Row: 4, Col: 5}, actions[0].Position)
}

func (s *ServiceSuite) TestProcessBotActions_BotsPlayToCompletion() {
	s.mockRandom.QueueString("LOBBY1")
	host := s.createPlayer("host", "Host")
	lob, _ := s.lobbyController.CreateLobby(s.ctx, host)
	s.Require().NoError(s.lobbyController.SetRole(s.ctx, lob.Code, host.ID, model.RoleSpectator))

	s.mockRandom.QueueString("bot0000000000001", "bot0000000000002")
	first, err := s.botService.AddBotToLobby(s.ctx, lob.Code, host.ID, model.BotStrategyRandom)
	s.Require().NoError(err)
	second, err := s.botService.AddBotToLobby(s.ctx, lob.Code, host.ID, model.BotStrategyRandom)
	s.Require().NoError(err)
	s.Equal("Random Bot 2", second.DisplayName)

	s.mockRandom.QueueString("GAME01")
	g, err := s.lobbyController.StartGame(s.ctx, lob.Code, host.ID)
	s.Require().NoError(err)
	s.Equal(first.ID, g.Player1)
	s.Equal(second.ID, g.Player2)

	actions, err := s.botService.ProcessBotActions(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().NotEmpty(actions)
	s.Equal(bot.ActionGameComplete, actions[len(actions)-1].Type)

	final, _ := s.gameController.GetGame(s.ctx, g.ID)
	s.Equal(model.GameStateComplete, final.State)

	moves, passes := 0, 0
	for _, a := range actions {
		switch a.Type {
		case bot.ActionMove:
			moves++
		case bot.ActionPass:
			passes++
		}
	}
	s.Equal(len(final.History), moves+passes)

	s.Require().NoError(s.lobbyController.CompleteGame(s.ctx, lob.Code))
}

func (s *ServiceSuite) TestProcessBotActions_AbandonedGame() {
	lob, host, _ := s.hostWithBot(model.BotStrategyRandom)
	_ = s.lobbyController.UpdateConfig(s.ctx, lob.Code, host.ID, model.LobbyConfig{SearchDepth: 1, HostSide: model.Player2})
	s.mockRandom.QueueString("GAME01")
	g, _ := s.lobbyController.StartGame(s.ctx, lob.Code, host.ID)
	_ = s.lobbyController.AbandonGame(s.ctx, lob.Code, host.ID)

	actions, err := s.botService.ProcessBotActions(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Empty(actions)
}

func (s *ServiceSuite) TestProcessBotActions_StrategyWithoutMove() {
	s.strategies[model.BotStrategyRandom] = bot.StrategyFunc(func(context.Context, *model.Game) (*model.Position, error) {
		return nil, nil
	})
	lob, host, _ := s.hostWithBot(model.BotStrategyRandom)
	_ = s.lobbyController.UpdateConfig(s.ctx, lob.Code, host.ID, model.LobbyConfig{SearchDepth: 1, HostSide: model.Player2})
	s.mockRandom.QueueString("GAME01")
	g, _ := s.lobbyController.StartGame(s.ctx, lob.Code, host.ID)

	actions, err := s.botService.ProcessBotActions(s.ctx, g.ID)
	s.ErrorIs(err, model.ErrNoLegalMoves)
	s.Empty(actions)
}

func (s *ServiceSuite) TestProcessBotActions_StrategyErrorStopsLoop() {
	boom := errors.New("boom")
	s.strategies[model.BotStrategyRandom] = bot.StrategyFunc(func(context.Context, *model.Game) (*model.Position, error) {
		return nil, boom
	})
	lob, host, _ := s.hostWithBot(model.BotStrategyRandom)
	_ = s.lobbyController.UpdateConfig(s.ctx, lob.Code, host.ID, model.LobbyConfig{SearchDepth: 1, HostSide: model.Player2})
	s.mockRandom.QueueString("GAME01")
	g, _ := s.lobbyController.StartGame(s.ctx, lob.Code, host.ID)

	actions, err := s.botService.ProcessBotActions(s.ctx, g.ID)
	s.ErrorIs(err, boom)
	s.Empty(actions)
}

func (s *ServiceSuite) TestAddBotToLobby_NormalisesStrategyName() {
	s.mockRandom.QueueString("LOBBY1")
	host := s.createPlayer("host", "Host")
	lob, err := s.lobbyController.CreateLobby(s.ctx, host)
	s.Require().NoError(err)

	botPlayer, err := s.botService.AddBotToLobby(s.ctx, lob.Code, host.ID, "  Random ")
	s.Require().NoError(err)
	s.Equal(model.BotStrategyRandom, botPlayer.BotStrategy)
	s.Equal(model.PlayerKindBot, botPlayer.Kind())
}

func (s *ServiceSuite) TestProcessBotActions_LogsChoice() {
	logger, logs := testutil.CaptureLogger()
	svc := bot.NewService(s.store, s.lobbyController, s.gameController, s.strategies, s.mockClock, s.mockRandom, logger)

	lob, host, botPlayer := s.hostWithBot(model.BotStrategyRandom)
	s.mockRandom.QueueString("GAME01")
	g, _ := s.lobbyController.StartGame(s.ctx, lob.Code, host.ID)
	_, _ = s.gameController.PlayMove(s.ctx, g.ID, host.ID, model.Position{Row: 2, Col: 4})

	s.mockRandom.QueueIntn(1)
	actions, err := svc.ProcessBotActions(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().Len(actions, 1)
	s.Equal(&model.Position{Row: 2, Col: 5}, actions[0].Position)

	out := logs.String()
	s.Contains(out, `"msg":"bot chose move"`)
	s.Contains(out, `"component":"bot-service"`)
	s.Contains(out, `"bot_id":"`+string(botPlayer.ID)+`"`)
	s.Contains(out, `"strategy":"random"`)
}
