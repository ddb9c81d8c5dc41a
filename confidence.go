package reagent

// ComputeConfidence scores how much weight the caller should put on the
// final answer, in [0, 1]. The score starts at a 0.5 baseline and moves on
// observable run quality rather than any model self-assessment:
//
//   - +0.05 per unique source consulted, capped at +0.2
//   - +0.1 when the model produced an explicit final answer
//   - +0.1 when the run finished in under half its iteration allowance
//   - up to -0.2 as the tool failure rate grows
//   - -0.2 when the run was stopped at the iteration limit without finishing
//
// A run with no tool calls counts as a perfect success rate; the missing
// source bonus already penalizes it.
func ComputeConfidence(state *AgentState) float64 {
	score := 0.5

	sourceBonus := float64(state.uniqueSourceCount()) * 0.05
	if sourceBonus > 0.2 {
		sourceBonus = 0.2
	}
	score += sourceBonus

	if state.FinalAnswer != "" {
		score += 0.1
	}
	if state.Done && state.Iteration*2 < state.MaxIterations {
		score += 0.1
	}

	if len(state.Actions) > 0 {
		succeeded := 0
		for _, a := range state.Actions {
			if a.Success {
				succeeded++
			}
		}
		successRate := float64(succeeded) / float64(len(state.Actions))
		penalty := (1 - successRate) * 0.2
		if penalty > 0.2 {
			penalty = 0.2
		}
		score -= penalty
	}

	if !state.Done && state.Iteration >= state.MaxIterations {
		score -= 0.2
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
