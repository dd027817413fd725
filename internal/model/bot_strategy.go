package model

import (
	"fmt"
	"strings"
)

// Bot strategy names
const (
	BotStrategyMinimax = "minimax" // alpha-beta search at the lobby's depth
	BotStrategyRandom  = "random"  // uniform over legal moves
)

// DefaultBotStrategy is used when a bot is added without naming a strategy
const DefaultBotStrategy = BotStrategyMinimax

// ParseBotStrategy normalises a strategy name. An empty name selects
// DefaultBotStrategy
func ParseBotStrategy(s string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "":
		return DefaultBotStrategy, nil
	case BotStrategyMinimax, BotStrategyRandom:
		return name, nil
	}
	return "", fmt.Errorf("%w: %q (want %s)", ErrUnknownBotStrategy, s,
		strings.Join(ValidBotStrategies(), " or "))
}

// BotStrategyDisplayName is the label used when naming a bot
func BotStrategyDisplayName(strategy string) string {
	switch strategy {
	case BotStrategyMinimax:
		return "Minimax"
	case BotStrategyRandom:
		return "Random"
	default:
		return strategy
	}
}

// ValidBotStrategies lists every strategy name
func ValidBotStrategies() []string {
	return []string{BotStrategyMinimax, BotStrategyRandom}
}
