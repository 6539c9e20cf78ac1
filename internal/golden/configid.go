package golden

import (
	"regexp"
	"strconv"
	"strings"
)

// ConfigId grammar: hyphen-joined positional tokens
//
//	<yeargroup>-<topic>-<subtopic>-<difficulty>-<N>q
//
// e.g. "year3-addition-standard-average-5q". The parser is tolerant of
// missing trailing tokens; the defaults below are part of the persisted
// contract and must not change.
const (
	defaultSubtopic      = "general"
	defaultDifficulty    = "average"
	defaultQuestionCount = 5
	defaultLayout        = "standard"
)

var questionCountRe = regexp.MustCompile(`^(\d+)q$`)

// ParseConfigID splits a configId into its structured form, applying
// defaults for missing trailing tokens. Year group and topic are expected
// at fixed positions; anything absent falls back rather than erroring.
func ParseConfigID(configID string) WorksheetConfig {
	tokens := strings.Split(configID, "-")

	cfg := WorksheetConfig{
		Layout:        defaultLayout,
		Subtopic:      defaultSubtopic,
		Difficulty:    defaultDifficulty,
		QuestionCount: defaultQuestionCount,
	}
	if len(tokens) > 0 && tokens[0] != "" {
		cfg.YearGroup = tokens[0]
	}
	if len(tokens) > 1 && tokens[1] != "" {
		cfg.Topic = tokens[1]
	} else {
		cfg.Topic = defaultSubtopic
	}
	if len(tokens) > 2 && tokens[2] != "" {
		cfg.Subtopic = tokens[2]
	}
	if len(tokens) > 3 && tokens[3] != "" {
		cfg.Difficulty = tokens[3]
	}
	if len(tokens) > 4 {
		if m := questionCountRe.FindStringSubmatch(tokens[4]); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				cfg.QuestionCount = n
			}
		}
	}
	return cfg
}
