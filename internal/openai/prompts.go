package openai

import (
	"fmt"

	"github.com/bubbledive/sparkmap/internal/dive"
)

// SparkMapPrompt builds the map-generation prompt for a concept. The
// optional context string focuses the map after a dive.
func SparkMapPrompt(concept, context string) string {
	contextInstruction := ""
	if context != "" {
		contextInstruction = fmt.Sprintf("Context: %s. ", context)
	}
	return fmt.Sprintf(
		"You are a master educator. Your task is to create a SparkMap about '%s'. %s"+
			"A SparkMap distills any topic into its 5 to 7 most powerful, perspective-shifting insights. "+
			"Each main bubble must deliver an 'aha!' moment. For each, provide a short label (max 8 words) and a 1-sentence tooltip. "+
			"For each main insight, add 2-3 sub-bubbles (examples, analogies, misconceptions). "+
			"Output the entire map as a valid JSON object wrapped in ```json markdown. The JSON must have this structure: "+
			"{'name': '...', 'tooltip': '...', 'children': [...]}. "+
			"End with clickable source references.",
		concept, contextInstruction)
}

// CondensationPrompt builds the prompt that turns a dive context into the
// next map's root topic: a single specific phrase, ten words at most.
func CondensationPrompt(ctx dive.Context) string {
	return fmt.Sprintf(
		"You are a learning assistant. Given the following information from a mindmap, generate a single, specific topic or phrase (max 10 words) "+
			"that focuses on the 'Clicked Bubble', using the Parent and Topic for context. This phrase will become the root of a new SparkMap.\n\n"+
			"Topic: %s\n%s\n\n"+
			"Parent: %s\n%s\n\n"+
			"Clicked Bubble: %s\n%s\n\n"+
			"Instructions: Output ONLY a concise topic phrase-no questions, sentences, or summaries.",
		ctx.RootLabel, ctx.RootTooltip,
		ctx.ParentLabel, ctx.ParentTooltip,
		ctx.ClickedLabel, ctx.ClickedTooltip)
}
