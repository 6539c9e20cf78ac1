package golden

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConfigID(t *testing.T) {
	tests := []struct {
		name     string
		configID string
		want     WorksheetConfig
	}{
		{
			name:     "full form",
			configID: "year3-addition-standard-average-5q",
			want: WorksheetConfig{
				Layout: "standard", YearGroup: "year3", Topic: "addition",
				Subtopic: "standard", Difficulty: "average", QuestionCount: 5,
			},
		},
		{
			name:     "year and topic only",
			configID: "year1-counting",
			want: WorksheetConfig{
				Layout: "standard", YearGroup: "year1", Topic: "counting",
				Subtopic: "general", Difficulty: "average", QuestionCount: 5,
			},
		},
		{
			name:     "custom question count",
			configID: "year6-fractions-equivalent-hard-12q",
			want: WorksheetConfig{
				Layout: "standard", YearGroup: "year6", Topic: "fractions",
				Subtopic: "equivalent", Difficulty: "hard", QuestionCount: 12,
			},
		},
		{
			name:     "malformed question token falls back",
			configID: "year2-shapes-2d-easy-lots",
			want: WorksheetConfig{
				Layout: "standard", YearGroup: "year2", Topic: "shapes",
				Subtopic: "2d", Difficulty: "easy", QuestionCount: 5,
			},
		},
		{
			name:     "empty string",
			configID: "",
			want: WorksheetConfig{
				Layout: "standard", Topic: "general",
				Subtopic: "general", Difficulty: "average", QuestionCount: 5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseConfigID(tt.configID))
		})
	}
}
