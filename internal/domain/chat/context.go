package chat

import "sort"

// buildContext assembles the prompt sent to the language model: prior turns
// of the conversation in chronological order, minus weather replies, capped
// at maxTurns most recent entries, with the new user message appended last.
func buildContext(prior []Turn, message string, maxTurns int) []string {
	turns := make([]Turn, 0, len(prior))
	for _, t := range prior {
		if t.FromWeather {
			continue
		}
		turns = append(turns, t)
	}

	sort.SliceStable(turns, func(i, j int) bool {
		if turns[i].CreatedAt.Equal(turns[j].CreatedAt) {
			return turns[i].ID < turns[j].ID
		}
		return turns[i].CreatedAt.Before(turns[j].CreatedAt)
	})

	if maxTurns > 0 && len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}

	out := make([]string, 0, len(turns)+1)
	for _, t := range turns {
		out = append(out, t.Content)
	}
	return append(out, message)
}
