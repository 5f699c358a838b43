package lib

import (
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
)

var ctrlCExit = prompt.KeyBind{
	Key: prompt.ControlC,
	Fn: func(buffer *prompt.Buffer) {
		os.Exit(1)
	},
}

func noCompletions(prompt.Document) []prompt.Suggest { return nil }

// PromptYesNo asks the question on the terminal.
// Only "yes" or "y" count as confirmation.
func PromptYesNo(question string) bool {
	answer := prompt.Input(question+" (yes/no): ", noCompletions, prompt.OptionAddKeyBind(ctrlCExit))
	return IsYes(answer)
}

func IsYes(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "yes" || answer == "y"
}
