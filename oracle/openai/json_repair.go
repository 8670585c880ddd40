// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import "strings"

// repairJSON coaxes a small model's verdict into valid JSON. It drops any
// prose around the outermost object and quotes keys that are bare
// (`{score: 7}`) or missing their opening quote (`{score": 7}`).
func repairJSON(s string) string {
	if start := strings.IndexByte(s, '{'); start >= 0 {
		if end := strings.LastIndexByte(s, '}'); end > start {
			s = s[start : end+1]
		}
	}

	var sb strings.Builder
	sb.Grow(len(s) + 8)

	inString := false
	keyPosition := false // last significant byte was '{' or ','
	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			sb.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				sb.WriteByte(s[i])
			} else if c == '"' {
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			keyPosition = false
			sb.WriteByte(c)
		case c == '{' || c == ',':
			keyPosition = true
			sb.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			sb.WriteByte(c)
		case keyPosition && isLetter(rune(c)):
			end := i
			for end < len(s) && isKeyByte(s[end]) {
				end++
			}
			key := s[i:end]
			next := end
			for next < len(s) && s[next] == ' ' {
				next++
			}
			switch {
			case next+1 < len(s) && s[next] == '"' && s[next+1] == ':':
				// Closing quote present, opening quote missing.
				sb.WriteString(`"` + key + `"`)
				i = next
			case next < len(s) && s[next] == ':':
				sb.WriteString(`"` + key + `"`)
				i = end - 1
			default:
				sb.WriteString(key)
				i = end - 1
			}
			keyPosition = false
		default:
			keyPosition = false
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

func isKeyByte(c byte) bool {
	return isLetter(rune(c)) || c == '_' || (c >= '0' && c <= '9')
}
