package insight

import (
	"encoding/json"
	"regexp"
)

// jsonBlockPattern matches a ```json fenced block or the first bare top-level
// JSON object in model output.
var jsonBlockPattern = regexp.MustCompile("```json\\s*(\\{[\\s\\S]+\\})\\s*```|(\\{[\\s\\S]+\\})")

// ExtractTree locates and decodes the insight tree in raw generator output.
// The output may wrap the JSON in a markdown fence or surround it with prose.
// On failure the returned error is a *MalformedTreeError carrying the
// offending text.
func ExtractTree(raw string) (*RawNode, error) {
	match := jsonBlockPattern.FindStringSubmatch(raw)
	if match == nil {
		return nil, &MalformedTreeError{Raw: raw, Err: ErrNoTree}
	}

	jsonStr := match[1]
	if jsonStr == "" {
		jsonStr = match[2]
	}

	var root RawNode
	if err := json.Unmarshal([]byte(jsonStr), &root); err != nil {
		return nil, &MalformedTreeError{Raw: jsonStr, Err: err}
	}

	if root.Name == "" {
		return nil, &MalformedTreeError{Raw: jsonStr, Err: ErrMissingName}
	}

	return &root, nil
}
