package mcp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/gridworld/game/engine"
	"github.com/wricardo/mcp-training/gridworld/game/play"
	"github.com/wricardo/mcp-training/gridworld/game/service"
)

// Formatting helpers

func sortedIDs(games map[string]*engine.Game) []string {
	ids := make([]string, 0, len(games))
	for id := range games {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := strconv.ParseInt(ids[i], 10, 64)
		b, _ := strconv.ParseInt(ids[j], 10, 64)
		return a < b
	})
	return ids
}

func formatMove(game *engine.Game) string {
	response := "✓ Move successful\n"
	switch game.Status() {
	case engine.StatusWin:
		response += "🎉 Reached the goal!\n"
	case engine.StatusLoss:
		response += "💀 The agent died\n"
	}
	return response + "\n" + play.Render(game)
}

func formatBulkMoveResult(id int64, result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Game %d: executed %d/%d moves", id, result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, " (truncated to %d)", result.Limit)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Path: %v → %v\n", result.StartPos, result.EndPos)

	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d [%s]: %s\n",
			result.StoppedOnMove, result.StopReasonCode, result.StoppedReason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("Steps:\n")
		for _, s := range result.Steps {
			fmt.Fprintf(&b, "  %d. %s %v→%v tile=%s health %d→%d moves %d→%d\n",
				s.Idx, s.Dir, s.From, s.To, s.TileChar,
				s.HealthBefore, s.HealthAfter, s.MovesBefore, s.MovesAfter)
		}
	}

	if !result.GameOver && len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(result.PossibleMoves, ", "))
	}

	if result.Game != nil {
		b.WriteString("\n")
		b.WriteString(play.Render(result.Game))
	}
	return b.String()
}

func formatSolution(game *engine.Game, solution *service.SolveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Best path (%d moves): %s\n", len(solution.Directions), strings.Join(solution.Directions, " "))
	if a := solution.Agent; a != nil {
		fmt.Fprintf(&b, "Arrives with health %d/%d, moves %d/%d\n", a.Health, a.MaxHealth, a.Moves, a.MaxMoves)
	}
	fmt.Fprintf(&b, "Wellness: %.3f | Utility: %.3f\n", solution.Wellness, solution.Utility)
	fmt.Fprintf(&b, "Search: %d popped, %d accepted, %d pruned, %d discarded\n\n",
		solution.Stats.Popped, solution.Stats.Accepted, solution.Stats.Pruned, solution.Stats.Discarded)

	b.WriteString(play.RenderPath(game, solution.Path))
	return b.String()
}
