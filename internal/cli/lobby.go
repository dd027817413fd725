package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/othello/internal/api/response"
)

func newLobbyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Lobby management commands",
	}

	cmd.AddCommand(newLobbyCreateCmd())
	cmd.AddCommand(newLobbyGetCmd())
	cmd.AddCommand(newLobbyJoinCmd())
	cmd.AddCommand(newLobbyLeaveCmd())
	cmd.AddCommand(newLobbyConfigCmd())
	cmd.AddCommand(newLobbyAddBotCmd())
	cmd.AddCommand(newLobbyRemoveBotCmd())
	cmd.AddCommand(newLobbyRoleCmd())
	cmd.AddCommand(newLobbyTransferHostCmd())

	return cmd
}

func lobbyPath(code string, parts ...string) string {
	p := "/api/v1/lobbies/" + code
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// configRequest builds a config body from the flags that were set
func configRequest(cmd *cobra.Command, depth int, side string) map[string]any {
	req := map[string]any{}
	if cmd.Flags().Changed("depth") {
		req["search_depth"] = depth
	}
	if cmd.Flags().Changed("side") {
		req["host_side"] = side
	}
	return req
}

func newLobbyCreateCmd() *cobra.Command {
	var depth int
	var side string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new lobby",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Lobby

			if err := client.Post(cmd.Context(), "/api/v1/lobbies", configRequest(cmd, depth, side), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "Bot search depth 1-8 (default: server default)")
	cmd.Flags().StringVar(&side, "side", "", "Side the host plays: player1 or player2")

	return cmd
}

func newLobbyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get lobby details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Lobby

			if err := client.Get(cmd.Context(), lobbyPath(args[0]), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newLobbyJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a lobby",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Lobby

			if err := client.Post(cmd.Context(), lobbyPath(args[0], "join"), nil, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newLobbyLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <code>",
		Short: "Leave a lobby",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(cmd.Context(), lobbyPath(args[0], "leave"), nil, nil); err != nil {
				return err
			}

			newOutput(cmd).PrintMessage(fmt.Sprintf("Left lobby %s", args[0]))
			return nil
		},
	}
}

func newLobbyConfigCmd() *cobra.Command {
	var depth int
	var side string

	cmd := &cobra.Command{
		Use:   "config <code>",
		Short: "Update lobby configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := configRequest(cmd, depth, side)
			if len(req) == 0 {
				return fmt.Errorf("--depth or --side is required")
			}

			var result response.LobbyConfig

			if err := client.Patch(cmd.Context(), lobbyPath(args[0], "config"), req, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "Bot search depth 1-8")
	cmd.Flags().StringVar(&side, "side", "", "Side the host plays: player1 or player2")

	return cmd
}

func newLobbyAddBotCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "add-bot <code>",
		Short: "Seat a bot in the lobby (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Lobby

			req := map[string]string{"strategy": strategy}
			if err := client.Post(cmd.Context(), lobbyPath(args[0], "bots"), req, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "minimax", "Bot strategy: minimax or random")

	return cmd
}

func newLobbyRemoveBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-bot <code> <bot_id>",
		Short: "Remove a bot from the lobby (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), lobbyPath(args[0], "bots", args[1])); err != nil {
				return err
			}

			newOutput(cmd).PrintMessage(fmt.Sprintf("Removed bot %s", args[1]))
			return nil
		},
	}
}

func newLobbyRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "role <code> <player_id> <player|spectator>",
		Short: "Change a member's role",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"role": args[2]}
			if err := client.Patch(cmd.Context(), lobbyPath(args[0], "members", args[1], "role"), req, nil); err != nil {
				return err
			}

			newOutput(cmd).PrintMessage(fmt.Sprintf("%s is now a %s", args[1], args[2]))
			return nil
		},
	}
}

func newLobbyTransferHostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer-host <code> <player_id>",
		Short: "Hand the host role to another member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"new_host_id": args[1]}
			if err := client.Post(cmd.Context(), lobbyPath(args[0], "transfer-host"), req, nil); err != nil {
				return err
			}

			newOutput(cmd).PrintMessage(fmt.Sprintf("%s is now the host", args[1]))
			return nil
		},
	}
}
