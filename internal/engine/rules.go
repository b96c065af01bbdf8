package engine

import "github.com/tatianab/rigged-rps/internal/models"

// Resolve scores a round from the player's side.
func Resolve(player, cpu models.Move) models.Outcome {
	if player == cpu {
		return models.Draw
	}
	if player.Beats() == cpu {
		return models.Win
	}
	return models.Lose
}
