package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", "결과는 다음과 같습니다:\n{\"a\":1}\n감사합니다.", `{"a":1}`},
		{"no object", "sorry", "sorry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "valid json unchanged",
			in:   `{"candidates": [{"industry": "반도체", "score": 9, "reason": "수출, 호조"}]}`,
			want: `{"candidates": [{"industry": "반도체", "score": 9, "reason": "수출, 호조"}]}`,
		},
		{
			name: "missing opening quotes",
			in:   `{"candidates": [{industry": "반도체", score": 9, reason": "r"}]}`,
			want: `{"candidates": [{"industry": "반도체", "score": 9, "reason": "r"}]}`,
		},
		{
			name: "missing quote after newline",
			in:   "{\n  candidates\": []}",
			want: "{\n  \"candidates\": []}",
		},
		{
			name: "unquoted value is not a key",
			in:   `{"a": 1, b: 2}`,
			want: `{"a": 1, b: 2}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.in))
		})
	}
}

func TestRepairJSON_ProducesValidJSON(t *testing.T) {
	repaired := repairJSON(`{"candidates": [{issue": "금리 인상", score": 7, reason": "유사"}]}`)

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal([]byte(repaired), &decoded))
}
