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

import (
	"strings"
	"unicode"
)

// extractJSON strips markdown code fences and any prose around the outermost
// JSON object.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

// repairJSON fixes keys that lost their opening quote, a common failure of
// small chat models.
//
//	{"candidates": [{industry": "반도체", score": 9}]}
//
// becomes
//
//	{"candidates": [{"industry": "반도체", "score": 9}]}
func repairJSON(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+16)

	for i := 0; i < len(in); {
		ch := in[i]
		out = append(out, ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(in) && unicode.IsSpace(in[i]) {
			out = append(out, in[i])
			i++
		}
		if i >= len(in) || !unicode.IsLetter(in[i]) {
			continue
		}

		keyEnd := i
		for keyEnd < len(in) && isKeyRune(in[keyEnd]) {
			keyEnd++
		}
		if keyEnd+1 < len(in) && in[keyEnd] == '"' && in[keyEnd+1] == ':' {
			out = append(out, '"')
			out = append(out, []rune(strings.TrimSpace(string(in[i:keyEnd])))...)
		} else {
			out = append(out, in[i:keyEnd]...)
		}
		i = keyEnd
	}

	return string(out)
}

func isKeyRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == ' '
}
