package question

import (
	"errors"
	"fmt"
)

// Validate runs authoring-time consistency checks on a single question
// config. Submission-time code assumes configs are valid and does not
// re-check any of this.
func Validate(cfg Config) error {
	if cfg.ID == "" {
		return errors.New("question.id is required")
	}
	if cfg.Weight < 0 {
		return fmt.Errorf("question %s: negative weight", cfg.ID)
	}
	seen := map[string]bool{}
	for _, c := range cfg.Choices {
		if c.Value == "" {
			return fmt.Errorf("question %s: choice value is required", cfg.ID)
		}
		if seen[c.Value] {
			return fmt.Errorf("question %s: duplicate choice value %q", cfg.ID, c.Value)
		}
		seen[c.Value] = true
	}
	for _, v := range cfg.CorrectChoices {
		if len(cfg.Choices) > 0 && !seen[v] {
			return fmt.Errorf("question %s: correct choice %q not among choices", cfg.ID, v)
		}
	}
	switch cfg.Kind {
	case KindFreeText:
		if cfg.MinCharacters < 0 {
			return fmt.Errorf("question %s: negative min_characters", cfg.ID)
		}
	case KindSingleChoice:
		if len(cfg.CorrectChoices) == 0 {
			return fmt.Errorf("question %s: at least one correct choice required", cfg.ID)
		}
	case KindMultiChoice:
		for _, c := range cfg.Choices {
			if c.Selector != "" && c.Selector != SelectorRequired && c.Selector != SelectorIgnored {
				return fmt.Errorf("question %s: choice %q: unknown selector %q", cfg.ID, c.Value, c.Selector)
			}
		}
	case KindBinary:
		if len(cfg.Choices) != 2 {
			return fmt.Errorf("question %s: binary question needs exactly two choices", cfg.ID)
		}
		if len(cfg.CorrectChoices) != 1 {
			return fmt.Errorf("question %s: binary question needs exactly one correct choice", cfg.ID)
		}
	case KindCompletion, KindSlider:
		// no extra constraints
	default:
		return fmt.Errorf("question %s: unknown kind %q", cfg.ID, cfg.Kind)
	}
	return nil
}
