package openai

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/ensemble/core"
	"github.com/poiesic/ensemble/oracle"
)

const judgeResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "score": {
      "type": "number"
    }
  },
  "required": ["score"],
  "additionalProperties": false
}`

const judgePromptTemplate = `You rate ensembles of systems. An ensemble combines the outputs of individual
systems with logical operators:

- (a&b) keeps an output only when both a and b produce it
- (a|b) keeps an output when either a or b produces it
- (a^b) keeps an output when exactly one of a and b produces it
- ~(a) keeps exactly the outputs a rejects

Groups such as (a&b&c) apply the operator across all members.

Task the ensemble is judged on: %s

Known systems:
%s

Rate how well the ensemble would perform on the task on a scale from %s (worst) to %s (best).

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s`

// buildSystemPrompt creates the system prompt for the judge.
func buildSystemPrompt(cfg *oracle.Config) string {
	return fmt.Sprintf(judgePromptTemplate,
		cfg.Criteria,
		describeComponents(cfg.Components),
		formatScore(cfg.MinScore),
		formatScore(cfg.MaxScore),
		judgeResponseSchema)
}

// buildUserPrompt presents one ensemble to the judge.
func buildUserPrompt(e core.Expression, components map[string]string) string {
	var sb strings.Builder
	sb.WriteString("Ensemble: ")
	sb.WriteString(e.String())
	for _, name := range e.Leaves() {
		if desc, ok := components[name]; ok {
			fmt.Fprintf(&sb, "\n%s: %s", name, desc)
		}
	}
	return sb.String()
}

func describeComponents(components map[string]string) string {
	if len(components) == 0 {
		return "(none described)"
	}
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	slices.Sort(names)
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("- %s: %s", name, components[name])
	}
	return strings.Join(lines, "\n")
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
